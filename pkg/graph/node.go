package graph

import "strings"

// Kind tags the three levels of the hierarchy.
type Kind string

const (
	KindCategory Kind = "category"
	KindDisease  Kind = "disease"
	KindAllele   Kind = "allele"
)

// Valid reports whether k is one of the known node kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCategory, KindDisease, KindAllele:
		return true
	}
	return false
}

// Expandable reports whether nodes of this kind have children.
func (k Kind) Expandable() bool {
	return k == KindCategory || k == KindDisease
}

// Point is a 2D coordinate in graph space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Style holds the visual encoding of a node.
type Style struct {
	Size        float64 `json:"size"`
	Color       string  `json:"color"`
	BorderSize  float64 `json:"border_size"`
	BorderColor string  `json:"border_color"`
}

// Disease carries the attributes only meaningful for KindDisease nodes.
type Disease struct {
	Category    string `json:"category"`
	AlleleCount int    `json:"allele_count"`
}

// Allele carries the attributes only meaningful for KindAllele nodes.
type Allele struct {
	GeneName  string  `json:"gene_name"`
	GeneClass string  `json:"gene_class,omitempty"`
	Serotype  string  `json:"serotype"`
	Subtype   string  `json:"subtype,omitempty"`
	OddsRatio float64 `json:"odds_ratio"`
	PValue    float64 `json:"p"`
}

// Node is one vertex of the explorer graph. Kind selects which of the
// Disease or Allele blocks is meaningful; the other is the zero value.
type Node struct {
	ID        string `json:"id" validate:"required"`
	Kind      Kind   `json:"node_type" validate:"required,oneof=category disease allele"`
	Label     string `json:"label" validate:"required"`
	FullLabel string `json:"full_label" validate:"required"`

	Position Point `json:"position"`
	Fixed    bool  `json:"fixed"`
	Hidden   bool  `json:"hidden"`
	Style    Style `json:"style"`

	// Expanded is only defined for category and disease nodes.
	Expanded       bool `json:"expanded"`
	ForceLabel     bool `json:"force_label"`
	UserForceLabel bool `json:"user_force_label"`

	Disease Disease `json:"disease"`
	Allele  Allele  `json:"allele"`
}

// NodeID builds the stable node key for a kind and full label,
// e.g. NodeID(KindAllele, "HLA_A_01") == "allele-HLA_A_01".
func NodeID(kind Kind, fullLabel string) string {
	return string(kind) + "-" + strings.ReplaceAll(fullLabel, " ", "_")
}

// DisplayLabel strips the HLA_ prefix used by allele names.
func DisplayLabel(fullLabel string) string {
	return strings.Replace(fullLabel, "HLA_", "", 1)
}

// Edge is a directed parent→child link.
type Edge struct {
	Source     string `json:"source"`
	Target     string `json:"target"`
	Color      string `json:"color"`
	Label      string `json:"label,omitempty"`
	ForceLabel bool   `json:"force_label"`
	Hidden     bool   `json:"hidden"`
}

// Key returns the store key of the edge.
func (e Edge) Key() string {
	return EdgeKey(e.Source, e.Target)
}

// EdgeKey is the unique key of the (source, target) pair.
func EdgeKey(source, target string) string {
	return source + "->" + target
}

// Edge colors.
const (
	EdgeColorDefault   = "darkgrey"
	EdgeColorHighlight = "black"
)
