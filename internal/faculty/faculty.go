// Package faculty binds the faculty resource of the Result Processing System
// API to the list controller and the query cache.
package faculty

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"rpsadmin/internal/validate"
)

// ID is a server-assigned identifier. The API sends it either as a number
// or as a string; both decode to the same textual form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("faculty id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("faculty id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// DepartmentRef is a lightweight reference to a child department.
type DepartmentRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// Faculty is one record as listed by the server.
type Faculty struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Departments []DepartmentRef `json:"departments,omitempty"`
}

// DepartmentNames returns the department names joined by ", ".
func (f Faculty) DepartmentNames() string {
	names := make([]string, len(f.Departments))
	for i, d := range f.Departments {
		names[i] = d.Name
	}
	return strings.Join(names, ", ")
}

// Input is the body of a create or update.
type Input struct {
	Name        string `json:"name" validate:"required,min=2,max=50" label:"Name"`
	Description string `json:"description" validate:"required,min=10,max=200" label:"Description"`
}

// InputFrom prefills an Input from an existing record.
func InputFrom(f Faculty) Input {
	return Input{Name: f.Name, Description: f.Description}
}

// Normalize trims surrounding space and applies Unicode NFC, so lengths are
// counted the way the server stores them.
func (in Input) Normalize() Input {
	return Input{
		Name:        norm.NFC.String(strings.TrimSpace(in.Name)),
		Description: norm.NFC.String(strings.TrimSpace(in.Description)),
	}
}

// Validate checks the normalized input. Failures are *validate.Error.
func (in Input) Validate() error {
	return validate.Struct(in.Normalize())
}
