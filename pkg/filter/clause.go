package filter

import (
	"fmt"
	"strings"
)

// Clause is one predicate of the filter string.
type Clause struct {
	Logical  Logical
	Field    string
	Operator Operator
	Value    string
}

// String renders the wire form "[AND|OR ]field:op:value".
func (c Clause) String() string {
	body := c.Field + ":" + string(c.Operator) + ":" + c.Value
	if c.Logical == "" {
		return body
	}
	return string(c.Logical) + " " + body
}

// Validate checks the clause against the field catalog.
func (c Clause) Validate() error {
	f, ok := Lookup(c.Field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, c.Field)
	}
	if !f.Accepts(c.Operator) {
		return fmt.Errorf("%w: %s %s", ErrInvalidOperator, c.Field, c.Operator)
	}
	switch c.Logical {
	case "", And, Or:
	default:
		return fmt.Errorf("%w: logical operator %q", ErrMalformedClause, c.Logical)
	}
	return nil
}

// Filters is an ordered clause list. The zero value means "no filter".
type Filters []Clause

// String joins the clauses with spaces, the form the backend expects.
func (fs Filters) String() string {
	parts := make([]string, len(fs))
	for i, c := range fs {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Parse reads a filter string produced by Filters.String. Values may contain
// spaces; a token only starts a new clause when it is AND/OR or has the
// shape of a known field:op:value.
func Parse(s string) (Filters, error) {
	var out Filters
	var pending Logical
	for _, tok := range strings.Fields(s) {
		if tok == string(And) || tok == string(Or) {
			if len(out) == 0 || pending != "" {
				return nil, fmt.Errorf("%w: unexpected %s", ErrMalformedClause, tok)
			}
			pending = Logical(tok)
			continue
		}
		if c, ok := splitClause(tok); ok {
			if len(out) > 0 && pending == "" {
				return nil, fmt.Errorf("%w: missing logical operator before %q", ErrMalformedClause, tok)
			}
			c.Logical = pending
			if err := c.Validate(); err != nil {
				return nil, err
			}
			out = append(out, c)
			pending = ""
			continue
		}
		if len(out) == 0 || pending != "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedClause, tok)
		}
		out[len(out)-1].Value += " " + tok
	}
	if pending != "" {
		return nil, fmt.Errorf("%w: trailing %s", ErrMalformedClause, pending)
	}
	return out, nil
}

func splitClause(tok string) (Clause, bool) {
	parts := strings.SplitN(tok, ":", 3)
	if len(parts) != 3 {
		return Clause{}, false
	}
	if _, known := Lookup(parts[0]); !known {
		return Clause{}, false
	}
	return Clause{Field: parts[0], Operator: Operator(parts[1]), Value: parts[2]}, true
}
