// Package forms binds submitted HTML form values and validates them.
//
// Validation failures are collected per field in Errors and never
// touch the store; callers re-render the form with the errors attached.
package forms

import (
	"sort"
	"strings"
)

const (
	msgRequired      = "This field is required."
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
)

// Errors maps a field name to its validation messages.
// The empty string key holds errors not tied to a single field.
type Errors map[string][]string

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the messages for field.
func (e Errors) Get(field string) []string {
	return e[field]
}

// Has reports whether field has any messages.
func (e Errors) Has(field string) bool {
	return len(e[field]) > 0
}

// Any reports whether any field has messages.
func (e Errors) Any() bool {
	for _, msgs := range e {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Error implements error so a failed form can be returned as one.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		if f != "" {
			b.WriteString(f)
			b.WriteString(": ")
		}
		b.WriteString(strings.Join(e[f], " "))
	}
	return b.String()
}
