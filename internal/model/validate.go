package model

import (
	"fmt"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateFilters is the strict counterpart to the permissive filter
// consumers. It rejects unknown kinds, blank ids and values, unknown media
// types and inverted date ranges. It returns a *ValidationError or nil.
func ValidateFilters(f MediaFilters) error {
	var ve ValidationError
	validateFiltersInto(&ve, "filters", f)
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidatePreset checks a FilterPreset before it is stored.
func ValidatePreset(p *FilterPreset) error {
	var ve ValidationError

	name := strings.TrimSpace(p.Name)
	if name == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	} else if len([]rune(name)) > 200 {
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 200 characters or fewer"})
	}

	validateFiltersInto(&ve, "filters", p.Filters)

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

func validateFiltersInto(ve *ValidationError, prefix string, f MediaFilters) {
	for gi, g := range f {
		var start, end *FilterItem
		for ii := range g.Items {
			it := &g.Items[ii]
			field := fmt.Sprintf("%s[%d].items[%d]", prefix, gi, ii)

			switch {
			case it.Malformed:
				ve.Errors = append(ve.Errors, FieldError{Field: field + ".value", Message: fmt.Sprintf("malformed %s item", it.Kind)})
			case !it.Kind.IsKnown():
				ve.Errors = append(ve.Errors, FieldError{Field: field, Message: fmt.Sprintf("unknown kind %q", it.Kind)})
			case it.Kind.IsRelation():
				if strings.TrimSpace(it.ID) == "" {
					ve.Errors = append(ve.Errors, FieldError{Field: field + ".id", Message: "is required"})
				}
			case it.Kind == KindFilename || it.Kind == KindCaption:
				if strings.TrimSpace(it.Text) == "" {
					ve.Errors = append(ve.Errors, FieldError{Field: field + ".value", Message: "is required"})
				}
			case it.Kind == KindMediaType:
				if !it.MediaType.IsValid() {
					ve.Errors = append(ve.Errors, FieldError{Field: field + ".value", Message: fmt.Sprintf("invalid media type %q", it.MediaType)})
				}
			case it.Kind == KindCreatedDateStart:
				if it.Date.IsZero() {
					ve.Errors = append(ve.Errors, FieldError{Field: field + ".value", Message: "is required"})
				}
				start = it
			case it.Kind == KindCreatedDateEnd:
				if it.Date.IsZero() {
					ve.Errors = append(ve.Errors, FieldError{Field: field + ".value", Message: "is required"})
				}
				end = it
			}
		}

		// Only an include group with both bounds describes a range.
		if g.Include && start != nil && end != nil && end.Date.Before(start.Date) {
			ve.Errors = append(ve.Errors, FieldError{
				Field:   fmt.Sprintf("%s[%d]", prefix, gi),
				Message: "createdDateEnd is before createdDateStart",
			})
		}
	}
}
