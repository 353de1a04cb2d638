// Package validation collects field-level violations for incoming payloads
// and implements the Brazilian plate and tax document rules.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/ordersync/internal/common"
)

// Violations maps a JSON field name to a human readable problem.
type Violations map[string]string

func (v Violations) Add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

func (v Violations) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "is required")
	}
}

func (v Violations) MaxLen(field, value string, max int) {
	if len([]rune(value)) > max {
		v.Add(field, fmt.Sprintf("must be at most %d characters", max))
	}
}

func (v Violations) NonNegative(field string, cents int64) {
	if cents < 0 {
		v.Add(field, "must not be negative")
	}
}

func (v Violations) Empty() bool { return len(v) == 0 }

// Err returns nil when there are no violations.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &Error{Violations: v}
}

// Error is returned by services for rejected payloads and matches
// common.ErrValidation.
type Error struct {
	Violations Violations
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+" "+e.Violations[f])
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return common.ErrValidation }

// Field builds a single-violation error.
func Field(field, msg string) error {
	return &Error{Violations: Violations{field: msg}}
}
