// Package validation checks query parameters and request structs before they reach a store.
package validation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// SortFields are the fields a recipe listing may be sorted by.
var SortFields = []string{"name", "prepTime", "cookTime", "difficulty", "createdAt"}

// Difficulties are the accepted difficulty levels, compared case-sensitively.
var Difficulties = []string{"Easy", "Medium", "Hard"}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Result struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

func result(errors []FieldError) Result {
	if errors == nil {
		errors = []FieldError{}
	}
	return Result{IsValid: len(errors) == 0, Errors: errors}
}

// Error joins the field messages; it is empty for a valid result.
func (r Result) Error() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}

// ValidateSortParams checks field against SortFields and order against asc/desc, ignoring
// case for the order. Empty values are not checked.
func ValidateSortParams(field, order string) Result {
	var errors []FieldError
	if field != "" && !slices.Contains(SortFields, field) {
		errors = append(errors, FieldError{
			Field:   "sortBy",
			Message: "Invalid sort field. Must be one of: " + strings.Join(SortFields, ", "),
		})
	}
	if order != "" {
		if o := strings.ToLower(order); o != "asc" && o != "desc" {
			errors = append(errors, FieldError{
				Field:   "sortOrder",
				Message: `Sort order must be either "asc" or "desc"`,
			})
		}
	}
	return result(errors)
}

func ValidateDifficulties(difficulties []string) Result {
	var invalid []string
	for _, d := range difficulties {
		if !slices.Contains(Difficulties, d) {
			invalid = append(invalid, d)
		}
	}
	if len(invalid) == 0 {
		return result(nil)
	}
	return result([]FieldError{{
		Field: "difficulties",
		Message: fmt.Sprintf("Invalid difficulty levels: %s. Must be one of: %s",
			strings.Join(invalid, ", "), strings.Join(Difficulties, ", ")),
	}})
}

// ValidateNumericParam requires value to be an integer >= min. A leading integer is
// accepted ("15 mins" reads as 15).
func ValidateNumericParam(value, fieldName string, min int) Result {
	n, ok := LeadingInt(value)
	if !ok || n < min {
		return result([]FieldError{{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be a number greater than or equal to %d", fieldName, min),
		}})
	}
	return result(nil)
}

// LeadingInt reads the optionally signed integer at the start of s, ignoring
// surrounding space and anything after the digits.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}

// Combine is valid iff every input is valid; errors keep their input order.
func Combine(results ...Result) Result {
	var errors []FieldError
	for _, r := range results {
		errors = append(errors, r.Errors...)
	}
	return result(errors)
}

func SanitizeSearchTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

func IsValidUUID(id string) bool {
	return uuid.Validate(id) == nil
}
