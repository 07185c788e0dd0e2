package catalog

import (
	"fmt"
	"strings"
)

// Field error reasons.
const (
	ReasonMissing = "missing field"
	ReasonInvalid = "invalid field"
	ReasonUnknown = "unknown field"
)

// FieldError reports a fixture record whose fields cannot become a typed row.
type FieldError struct {
	Entity string
	// Index is the record's position within its entity group, -1 if unknown.
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	var b strings.Builder
	b.WriteString(e.Entity)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	fmt.Fprintf(&b, ": %s %q", e.Reason, e.Field)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *FieldError) Unwrap() error { return e.Err }
