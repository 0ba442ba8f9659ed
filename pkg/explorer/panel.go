package explorer

import (
	"strconv"
	"strings"

	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PanelKind selects the content of the detail panel.
type PanelKind int

const (
	PanelCategory PanelKind = iota // disease list of a category
	PanelAllele                    // statistics of an allele
)

// Panel is the view model of the detail panel. Every string in it is
// sanitized plain text.
type Panel struct {
	Kind   PanelKind
	NodeID string
	Title  string

	Category *CategoryView
	Allele   *AlleleView

	token uint64
}

// CategoryView lists the diseases of a category.
type CategoryView struct {
	Diseases []string
	Loading  bool
	Err      string
}

// AlleleView shows pairwise statistics for the allele and one of its
// diseases, plus the allele's most affected and most protective diseases.
type AlleleView struct {
	Allele string // full label

	// DiseaseIDs are the connected diseases; Index selects the one shown.
	DiseaseIDs []string
	Index      int

	Pairwise        []FieldRow
	PairwiseLoading bool
	PairwiseErr     string

	TopOdds     []OddsRow
	LowestOdds  []OddsRow
	OddsLoading bool
	OddsErr     string
}

// HasNavigation reports whether prev/next between diseases is offered.
func (v *AlleleView) HasNavigation() bool {
	return len(v.DiseaseIDs) > 1
}

// FieldRow is one row of the pairwise statistics table.
type FieldRow struct {
	Field string
	Value string
	// Associations marks the phenotype row that offers the association view.
	Associations bool
}

// OddsRow is one row of a ranked disease table.
type OddsRow struct {
	Disease   string
	OddsRatio string
	P         string
}

// Odds tables
const (
	TableMostAffected  = "Most Affected Diseases"
	TableMostMitigated = "Most Mitigated Diseases"
)

// Panel returns the open detail panel.
func (e *Explorer) Panel() (Panel, bool) {
	if e.panel == nil {
		return Panel{}, false
	}
	return *e.panel, true
}

func sanitize(s string) string {
	return validation.SanitizeText(s)
}

// FormatCategory turns a category id or name into a display title, e.g.
// "category-infectious_diseases" becomes "Infectious Diseases".
func FormatCategory(s string) string {
	s = strings.TrimPrefix(s, string(graph.KindCategory)+"-")
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

func pairwiseRows(info *gateway.Info) []FieldRow {
	rows := make([]FieldRow, 0, len(info.Fields))
	for _, f := range info.Fields {
		rows = append(rows, FieldRow{
			Field:        sanitize(f.Name),
			Value:        sanitize(f.Value),
			Associations: f.Name == "phewas_string",
		})
	}
	return rows
}

func oddsRows(in []gateway.OddsRow) []OddsRow {
	rows := make([]OddsRow, 0, len(in))
	for _, r := range in {
		rows = append(rows, OddsRow{
			Disease:   sanitize(r.PhewasString),
			OddsRatio: strconv.FormatFloat(r.OddsRatio, 'g', -1, 64),
			P:         strconv.FormatFloat(r.P, 'g', -1, 64),
		})
	}
	return rows
}
