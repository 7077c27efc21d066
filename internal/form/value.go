// AngelaMos | 2026
// value.go

// Package form normalizes the loosely typed values that arrive from entity
// forms before they are persisted. Any optional field left empty is stored
// as NULL rather than as an empty string.
package form

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/carterperez-dev/maintenance-tracker/internal/core"
	"github.com/carterperez-dev/maintenance-tracker/internal/schedule"
)

// Value holds a raw form input. It decodes from a JSON string, number, or
// null, so numeric inputs may be sent either way.
type Value string

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Value(n.String())
		return nil
	}
}

func (v Value) String() string {
	return strings.TrimSpace(string(v))
}

func (v Value) IsBlank() bool {
	return v.String() == ""
}

// Text returns the trimmed value, or nil when it is blank.
func (v Value) Text() *string {
	s := v.String()
	if s == "" {
		return nil
	}
	return &s
}

// Date parses a YYYY-MM-DD value, or returns nil when it is blank.
func (v Value) Date(field string) (*schedule.Date, error) {
	if v.IsBlank() {
		return nil, nil
	}

	d, err := schedule.ParseDate(v.String())
	if err != nil {
		return nil, core.NewValidationError(
			"%s must be a date in YYYY-MM-DD format",
			field,
		)
	}

	return &d, nil
}

// PositiveInt parses a whole number greater than zero, or returns nil when
// the value is blank.
func (v Value) PositiveInt(field string) (*int, error) {
	if v.IsBlank() {
		return nil, nil
	}

	n, err := strconv.Atoi(v.String())
	if err != nil {
		return nil, core.NewValidationError("%s must be a whole number", field)
	}

	if n <= 0 {
		return nil, core.NewValidationError("%s must be greater than zero", field)
	}

	return &n, nil
}

// Text converts an optional pointer field, treating a missing field as nil.
func Text(v *Value) *string {
	if v == nil {
		return nil
	}
	return v.Text()
}
