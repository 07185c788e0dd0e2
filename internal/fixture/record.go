// Package fixture reads the bookstore seed data: a JSON array of records
// shaped {"model": label, "pk": id, "fields": {...}}.
package fixture

import (
	"encoding/json"
	"fmt"
	"io"
)

// Record is one fixture entry.
type Record struct {
	Model  string         `json:"model"`
	PK     *int64         `json:"pk,omitempty"`
	Fields map[string]any `json:"fields"`
}

// ParseError reports a fixture that is not a well-formed record array.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("parse fixture: %v", e.Err)
	}
	return fmt.Sprintf("parse fixture %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Decode reads a record array from r. Numbers in fields are kept as
// json.Number.
func Decode(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, &ParseError{Err: err}
	}
	for i, rec := range records {
		if rec.Model == "" {
			return nil, &ParseError{Err: fmt.Errorf("record %d has no model", i)}
		}
		if rec.Fields == nil {
			records[i].Fields = map[string]any{}
		}
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
