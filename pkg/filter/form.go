package filter

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dd0wney/phewas-explorer/pkg/validation"
)

// MaxGroups is the number of filter groups the form accepts.
const MaxGroups = 8

// Group is one row of the filter form. Logical is ignored for the first
// row that contributes a clause.
type Group struct {
	ID       int
	Field    string
	Operator Operator
	Value    string
	Logical  Logical
	Locked   bool
}

// Form holds the editable filter groups. It is owned by a single caller
// and performs no locking.
type Form struct {
	groups       []Group
	nextID       int
	showSubtypes bool
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{nextID: 1}
}

// SetShowSubtypes controls whether the subtype field is offered.
func (f *Form) SetShowSubtypes(show bool) {
	f.showSubtypes = show
}

// Fields returns the fields offered for new groups.
func (f *Form) Fields() []Field {
	return Fields(f.showSubtypes)
}

// Groups returns a copy of the groups in display order.
func (f *Form) Groups() []Group {
	return slices.Clone(f.groups)
}

// Len returns the number of groups.
func (f *Form) Len() int {
	return len(f.groups)
}

// CanAdd reports whether another group fits.
func (f *Form) CanAdd() bool {
	return len(f.groups) < MaxGroups
}

// Add appends a group on the first catalog field. The form is unchanged
// when it already holds MaxGroups groups.
func (f *Form) Add() (Group, error) {
	if !f.CanAdd() {
		return Group{}, ErrTooManyFilters
	}
	field := Fields(f.showSubtypes)[0]
	g := Group{ID: f.nextID, Field: field.Name, Operator: field.DefaultOperator()}
	if len(f.groups) > 0 {
		g.Logical = And
	}
	f.nextID++
	f.groups = append(f.groups, g)
	return g, nil
}

// Remove deletes an unlocked group.
func (f *Form) Remove(id int) error {
	i, err := f.find(id)
	if err != nil {
		return err
	}
	if f.groups[i].Locked {
		return ErrLockedClause
	}
	f.groups = slices.Delete(f.groups, i, i+1)
	return nil
}

// SetField switches a group to another field, resetting its operator to
// the field default and clearing the value.
func (f *Form) SetField(id int, name string) error {
	field, ok := Lookup(name)
	if !ok || (name == SubtypeField && !f.showSubtypes) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f.edit(id, func(g *Group) error {
		g.Field = field.Name
		g.Operator = field.DefaultOperator()
		g.Value = ""
		return nil
	})
}

// SetOperator changes the comparison of a group.
func (f *Form) SetOperator(id int, op Operator) error {
	return f.edit(id, func(g *Group) error {
		field, _ := Lookup(g.Field)
		if !field.Accepts(op) {
			return fmt.Errorf("%w: %s %s", ErrInvalidOperator, g.Field, op)
		}
		g.Operator = op
		return nil
	})
}

// SetValue changes the input value of a group. Enumerated fields only
// accept one of their options.
func (f *Form) SetValue(id int, value string) error {
	return f.edit(id, func(g *Group) error {
		field, _ := Lookup(g.Field)
		if field.Kind == Enumerated && value != "" {
			if !slices.ContainsFunc(field.Options, func(o Option) bool { return o.Value == value }) {
				return fmt.Errorf("%s: %q is not an option", g.Field, value)
			}
		}
		if field.Kind == Quantitative && value != "" {
			if _, err := strconv.ParseFloat(value, 64); err != nil {
				return fmt.Errorf("%s: %q is not a number", g.Field, value)
			}
		}
		g.Value = value
		return nil
	})
}

// SetLogical changes how a group joins the one before it.
func (f *Form) SetLogical(id int, l Logical) error {
	if l != And && l != Or {
		return fmt.Errorf("%w: logical operator %q", ErrMalformedClause, l)
	}
	return f.edit(id, func(g *Group) error {
		g.Logical = l
		return nil
	})
}

// Clear removes every group, locked ones included.
func (f *Form) Clear() {
	f.groups = nil
}

// Lock replaces the form with a single locked equality group.
func (f *Form) Lock(field, value string) (Group, error) {
	if _, ok := Lookup(field); !ok {
		return Group{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	f.Clear()
	g := Group{ID: f.nextID, Field: field, Operator: OpEqual, Value: value, Locked: true}
	f.nextID++
	f.groups = append(f.groups, g)
	return g, nil
}

// Push builds the clause list from the form. Groups with an empty value
// are skipped entirely, values are sanitized and lowercased, and the first
// surviving clause carries no logical operator.
func (f *Form) Push() Filters {
	var out Filters
	for _, g := range f.groups {
		if g.Value == "" {
			continue
		}
		c := Clause{
			Field:    g.Field,
			Operator: g.Operator,
			Value:    strings.ToLower(validation.SanitizeText(g.Value)),
		}
		if c.Operator == "" {
			c.Operator = OpEqual
		}
		if len(out) > 0 {
			c.Logical = g.Logical
			if c.Logical == "" {
				c.Logical = And
			}
		}
		out = append(out, c)
	}
	return out
}

// Load replaces the form with editable groups for fs.
func (f *Form) Load(fs Filters) error {
	if len(fs) > MaxGroups {
		return ErrTooManyFilters
	}
	for _, c := range fs {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	f.Clear()
	for _, c := range fs {
		f.groups = append(f.groups, Group{
			ID: f.nextID, Field: c.Field, Operator: c.Operator, Value: c.Value, Logical: c.Logical,
		})
		f.nextID++
	}
	return nil
}

func (f *Form) find(id int) (int, error) {
	i := slices.IndexFunc(f.groups, func(g Group) bool { return g.ID == id })
	if i < 0 {
		return -1, fmt.Errorf("%w: %d", ErrGroupNotFound, id)
	}
	return i, nil
}

func (f *Form) edit(id int, fn func(g *Group) error) error {
	i, err := f.find(id)
	if err != nil {
		return err
	}
	if f.groups[i].Locked {
		return ErrLockedClause
	}
	g := f.groups[i]
	if err := fn(&g); err != nil {
		return err
	}
	f.groups[i] = g
	return nil
}
