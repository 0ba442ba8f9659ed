package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexString decodes a JSON string, number or null into a string. The
// backend serialises gene_class, serotype and subtype as either.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("flex string: %w", err)
		}
		*f = FlexString(n.String())
	}
	return nil
}

// GraphResponse is the body of /api/graph-data/.
type GraphResponse struct {
	Nodes   []NodeDTO `json:"nodes"`
	Edges   []EdgeDTO `json:"edges"`
	Visible []string  `json:"visible"`
}

// NodeDTO is a node record as sent by the backend. Only the fields of its
// node_type are set.
type NodeDTO struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	NodeType string `json:"node_type"`

	// disease
	AlleleCount int    `json:"allele_count"`
	Category    string `json:"category"`

	// allele
	Disease   string     `json:"disease"`
	SNP       string     `json:"snp"`
	GeneClass FlexString `json:"gene_class"`
	GeneName  string     `json:"gene_name"`
	Serotype  FlexString `json:"serotype"`
	Subtype   FlexString `json:"subtype"`
	Cases     float64    `json:"cases"`
	Controls  float64    `json:"controls"`
	P         float64    `json:"p"`
	OddsRatio float64    `json:"odds_ratio"`
	L95       float64    `json:"l95"`
	U95       float64    `json:"u95"`
	MAF       float64    `json:"maf"`
}

// EdgeDTO is an edge record as sent by the backend.
type EdgeDTO struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type diseasesResponse struct {
	Diseases []string `json:"diseases"`
}

type pathResponse struct {
	Path  []string `json:"path"`
	Error string   `json:"error"`
}

// OddsRow is one row of the most-affected or most-protective tables.
type OddsRow struct {
	PhewasString string  `json:"phewas_string"`
	OddsRatio    float64 `json:"odds_ratio"`
	P            float64 `json:"p"`
}

// Field is one name/value pair of the pairwise statistics table.
type Field struct {
	Name  string
	Value string
}

// infoOrder is the display order of the pairwise statistics.
var infoOrder = []string{
	"gene_class", "gene_name", "serotype", "subtype",
	"phewas_string", "phewas_code", "category_string",
	"cases", "controls", "odds_ratio", "l95", "u95", "p", "maf",
}

// Info is the body of /api/get-info/: flat pairwise statistics for one
// allele and disease plus the allele's ranked disease lists.
type Info struct {
	Fields     []Field
	TopOdds    []OddsRow
	LowestOdds []OddsRow
}

// UnmarshalJSON implements json.Unmarshaler. Fields keeps the known flat
// fields in display order; others are ignored.
func (in *Info) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["top_odds"]; ok {
		if err := json.Unmarshal(v, &in.TopOdds); err != nil {
			return fmt.Errorf("top_odds: %w", err)
		}
		delete(raw, "top_odds")
	}
	if v, ok := raw["lowest_odds"]; ok {
		if err := json.Unmarshal(v, &in.LowestOdds); err != nil {
			return fmt.Errorf("lowest_odds: %w", err)
		}
		delete(raw, "lowest_odds")
	}

	in.Fields = in.Fields[:0]
	for _, name := range infoOrder {
		v, ok := raw[name]
		if !ok {
			continue
		}
		var s FlexString
		if err := s.UnmarshalJSON(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		in.Fields = append(in.Fields, Field{Name: name, Value: string(s)})
	}
	return nil
}

// Get returns the value of a named field.
func (in *Info) Get(name string) (string, bool) {
	for _, f := range in.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Float returns a numeric field, or 0 when it is missing or malformed.
func (in *Info) Float(name string) float64 {
	v, ok := in.Get(name)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// Association is one pairwise gene record from
// /api/get_combined_associations.
type Association struct {
	Gene1             string     `json:"gene1"`
	Gene1Name         string     `json:"gene1_name"`
	Gene1Serotype     FlexString `json:"gene1_serotype"`
	Gene1Subtype      FlexString `json:"gene1_subtype"`
	Gene2             string     `json:"gene2"`
	Gene2Name         string     `json:"gene2_name"`
	Gene2Serotype     FlexString `json:"gene2_serotype"`
	Gene2Subtype      FlexString `json:"gene2_subtype"`
	CombinedOddsRatio float64    `json:"combined_odds_ratio"`
	CombinedPValue    float64    `json:"combined_p_value"`
}

// Export is the result of /api/export-query/.
type Export struct {
	// Rows is the Dataset-Length header, -1 if absent.
	Rows int
	CSV  []byte
}
