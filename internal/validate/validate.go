// Package validate holds the shared form-field validators. They mirror the
// storefront's rules: loose phone matching (separators and a leading +
// allowed, at least 10 characters of digits/punctuation), a minimal email
// shape, and US-style ZIP codes with an optional 4-digit extension.
package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	zipRe   = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

func Phone(s string) bool { return phoneRe.MatchString(s) }

func Email(s string) bool { return emailRe.MatchString(s) }

func Zipcode(s string) bool { return zipRe.MatchString(s) }

// FieldError names the offending form field so callers can surface it.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func Missing(field string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("please fill in the %s field", field)}
}

func Invalid(field, hint string) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf("please enter a valid %s", hint)}
}

// Required returns a FieldError for the first empty value, checked in the
// order given.
func Required(fields map[string]string, order ...string) *FieldError {
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			return Missing(name)
		}
	}
	return nil
}
