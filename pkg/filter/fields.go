// Package filter models the filter form: a catalog of filterable fields,
// the clauses built from it and their wire format.
package filter

import "slices"

// FieldKind classifies a field by the operators it accepts.
type FieldKind int

const (
	// Categorical fields are free text matched exactly or by substring.
	Categorical FieldKind = iota
	// Quantitative fields are compared numerically.
	Quantitative
	// Enumerated fields pick one value from a fixed option list.
	Enumerated
)

// Operator is a clause comparison.
type Operator string

const (
	OpEqual     Operator = "=="
	OpContains  Operator = "contains"
	OpGreater   Operator = ">"
	OpLess      Operator = "<"
	OpGreaterEq Operator = ">="
	OpLessEq    Operator = "<="
)

// Logical joins a clause to the one before it.
type Logical string

const (
	And Logical = "AND"
	Or  Logical = "OR"
)

// Option is one choice of an enumerated field.
type Option struct {
	Value string
	Title string
}

// Field describes one filterable column of the dataset.
type Field struct {
	Name    string
	Title   string
	Kind    FieldKind
	Options []Option
}

var (
	categoricalOps  = []Operator{OpEqual, OpContains}
	quantitativeOps = []Operator{OpGreater, OpLess, OpGreaterEq, OpLessEq}
	enumeratedOps   = []Operator{OpEqual}
)

// Operators returns the operators valid for the field, default first.
func (f Field) Operators() []Operator {
	switch f.Kind {
	case Quantitative:
		return quantitativeOps
	case Enumerated:
		return enumeratedOps
	}
	return categoricalOps
}

// Accepts reports whether op is valid for the field.
func (f Field) Accepts(op Operator) bool {
	return slices.Contains(f.Operators(), op)
}

// DefaultOperator is the operator a new clause on this field starts with.
func (f Field) DefaultOperator() Operator {
	return f.Operators()[0]
}

// SubtypeField is only offered while subtypes are shown.
const SubtypeField = "subtype"

var catalog = []Field{
	{Name: "snp", Title: "SNP", Kind: Categorical},
	{Name: "gene_class", Title: "Gene Class", Kind: Enumerated, Options: []Option{
		{"1", "Class 1"}, {"2", "Class 2"},
	}},
	{Name: "gene_name", Title: "Gene Name", Kind: Enumerated, Options: []Option{
		{"A", "A"}, {"B", "B"}, {"C", "C"}, {"DPA1", "DPA1"}, {"DPB1", "DPB1"},
		{"DQA1", "DQA1"}, {"DQB1", "DQB1"}, {"DRB1", "DRB1"},
	}},
	{Name: "serotype", Title: "Serotype", Kind: Categorical},
	{Name: SubtypeField, Title: "Subtype", Kind: Categorical},
	{Name: "phewas_code", Title: "Phecode", Kind: Categorical},
	{Name: "phewas_string", Title: "Phenotype", Kind: Categorical},
	{Name: "category_string", Title: "Disease Category", Kind: Categorical},
	{Name: "cases", Title: "Number of Cases", Kind: Quantitative},
	{Name: "controls", Title: "Number of Controls", Kind: Quantitative},
	{Name: "p", Title: "P-Value", Kind: Quantitative},
	{Name: "odds_ratio", Title: "Odds Ratio", Kind: Quantitative},
	{Name: "l95", Title: "95% CI Lower Bound", Kind: Quantitative},
	{Name: "u95", Title: "95% CI Upper Bound", Kind: Quantitative},
	{Name: "maf", Title: "Minor Allele Frequency", Kind: Quantitative},
}

// Fields returns the catalog in display order.
func Fields(showSubtypes bool) []Field {
	out := make([]Field, 0, len(catalog))
	for _, f := range catalog {
		if f.Name == SubtypeField && !showSubtypes {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Lookup finds a field by name, including the subtype field.
func Lookup(name string) (Field, bool) {
	for _, f := range catalog {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
