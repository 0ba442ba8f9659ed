package filter

import "errors"

var (
	// ErrTooManyFilters is returned when adding beyond MaxGroups.
	ErrTooManyFilters = errors.New("maximum of 8 filters allowed")
	// ErrLockedClause is returned when editing or removing a locked group.
	ErrLockedClause = errors.New("filter is locked")
	// ErrUnknownField is returned for a field outside the catalog.
	ErrUnknownField = errors.New("unknown filter field")
	// ErrInvalidOperator is returned for an operator the field does not accept.
	ErrInvalidOperator = errors.New("invalid operator for field")
	// ErrGroupNotFound is returned for an unknown group id.
	ErrGroupNotFound = errors.New("filter group not found")
	// ErrMalformedClause is returned by Parse.
	ErrMalformedClause = errors.New("malformed filter clause")
)
