package rules

import (
	"fmt"
	"unicode/utf8"
)

// PersonalizationFieldDef is a seller-authored custom-text field on a
// listing, such as "name to engrave".
type PersonalizationFieldDef struct {
	Key        string
	Label      string
	IsRequired bool
	MinLength  int
	MaxLength  int
}

// PersonalizationFieldError describes one invalid buyer-supplied field.
type PersonalizationFieldError struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// SanitizePersonalization drops values whose key matches no field the seller
// defined. Stale keys appear when a listing is edited after the buyer loaded
// the page; they are not an error.
func SanitizePersonalization(values map[string]string, defs []PersonalizationFieldDef) map[string]string {
	known := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		known[d.Key] = struct{}{}
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if _, ok := known[k]; ok {
			out[k] = v
		}
	}
	return out
}

// ValidatePersonalization checks buyer values against the seller's field
// definitions and reports every problem in one error.
func ValidatePersonalization(values map[string]string, defs []PersonalizationFieldDef) error {
	var fieldErrors []PersonalizationFieldError
	for _, d := range defs {
		label := d.Label
		if label == "" {
			label = d.Key
		}
		v, present := values[d.Key]
		if !present || v == "" {
			if d.IsRequired {
				fieldErrors = append(fieldErrors, PersonalizationFieldError{
					Key:    d.Key,
					Reason: fmt.Sprintf("%s is required", label),
				})
			}
			continue
		}
		n := utf8.RuneCountInString(v)
		if d.MinLength > 0 && n < d.MinLength {
			fieldErrors = append(fieldErrors, PersonalizationFieldError{
				Key:    d.Key,
				Reason: fmt.Sprintf("%s must be at least %d characters", label, d.MinLength),
			})
		}
		if d.MaxLength > 0 && n > d.MaxLength {
			fieldErrors = append(fieldErrors, PersonalizationFieldError{
				Key:    d.Key,
				Reason: fmt.Sprintf("%s must be at most %d characters", label, d.MaxLength),
			})
		}
	}
	if len(fieldErrors) > 0 {
		return newError(CodePersonalizationInvalid, "some personalization fields are invalid").
			withDetail("fieldErrors", fieldErrors)
	}
	return nil
}
