package schema

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "fraudgraph-backend/pkg/errors"
)

// Coerce converts the raw form value of a property into its typed
// representation, suitable for binding as a query parameter.
//
// Numbers parse as integers and fail validation otherwise. Booleans compare
// case-insensitively against "true"; anything else is false. Date and
// datetime values stay raw strings; the query builder wraps them in the
// matching temporal constructor. Select values must match one of the
// declared options.
func (p Property) Coerce(name, raw string) (interface{}, error) {
	switch p.Type {
	case TypeNumber:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("property '%s' must be numeric, got '%s'", name, raw))
		}
		if p.Min != nil && n < int64(*p.Min) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("property '%s' must be at least %d", name, *p.Min))
		}
		if p.Max != nil && n > int64(*p.Max) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("property '%s' must be at most %d", name, *p.Max))
		}
		return n, nil

	case TypeBoolean:
		return strings.EqualFold(strings.TrimSpace(raw), "true"), nil

	case TypeDate, TypeDateTime:
		return raw, nil

	case TypeSelect:
		for _, option := range p.Options {
			if raw == option {
				return raw, nil
			}
		}
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("property '%s' must be one of: %s", name, strings.Join(p.Options, ", ")))

	default:
		return raw, nil
	}
}

// IsTemporal reports whether the property binds through a temporal constructor
func (p Property) IsTemporal() bool {
	return p.Type == TypeDate || p.Type == TypeDateTime
}

// Constructor returns the Cypher temporal constructor for the property type,
// or the empty string for non-temporal properties
func (p Property) Constructor() string {
	switch p.Type {
	case TypeDate:
		return "date"
	case TypeDateTime:
		return "datetime"
	default:
		return ""
	}
}

// CoerceLoose converts a free-form value whose property is not declared in
// any schema (bulk property assignments allow arbitrary names). Integer-
// looking values become numbers, "true"/"false" become booleans, everything
// else stays a string.
func CoerceLoose(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n
	}
	if strings.EqualFold(trimmed, "true") {
		return true
	}
	if strings.EqualFold(trimmed, "false") {
		return false
	}
	return raw
}
