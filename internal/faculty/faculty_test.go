package faculty

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rpsadmin/internal/validate"
)

func TestID_AcceptsStringOrNumber(t *testing.T) {
	var got []Faculty
	err := json.Unmarshal([]byte(`[{"id":7,"name":"Science"},{"id":"a1b2","name":"Arts"},{"id":null}]`), &got)
	require.NoError(t, err)
	assert.Equal(t, ID("7"), got[0].ID)
	assert.Equal(t, ID("a1b2"), got[1].ID)
	assert.Equal(t, ID(""), got[2].ID)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`{}`), &bad))
}

func TestFaculty_DepartmentNames(t *testing.T) {
	f := Faculty{Departments: []DepartmentRef{{ID: "1", Name: "Physics"}, {ID: "2", Name: "Chemistry"}}}
	assert.Equal(t, "Physics, Chemistry", f.DepartmentNames())
	assert.Empty(t, Faculty{}.DepartmentNames())
}

func TestInput_Normalize(t *testing.T) {
	// "e" + combining acute composes to a single rune.
	in := Input{Name: "  Cafe\u0301  ", Description: "\tdescription\n"}
	got := in.Normalize()
	assert.Equal(t, "Caf\u00e9", got.Name)
	assert.Equal(t, "description", got.Description)
}

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		field string
		want  string
	}{
		{"valid", Input{Name: "Science", Description: "Natural and applied sciences"}, "", ""},
		{"name required", Input{Name: "   ", Description: "Natural and applied sciences"}, "Name", "Name is required"},
		{"name too short", Input{Name: "S", Description: "Natural and applied sciences"}, "Name", "Name must be at least 2 characters"},
		{"description short", Input{Name: "Science", Description: "short"}, "Description", "Description must be at least 10 characters"},
		{"description padded", Input{Name: "Science", Description: "   short    "}, "Description", "Description must be at least 10 characters"},
		{"description long", Input{Name: "Science", Description: strings.Repeat("x", 201)}, "Description", "Description must be at most 200 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *validate.Error
			require.True(t, errors.As(err, &verr), "want *validate.Error, got %v", err)
			assert.Equal(t, tt.want, verr.For(tt.field))
		})
	}
}

func TestInput_ValidateCountsRunes(t *testing.T) {
	// 50 two-byte runes is within the limit; 51 is not.
	name := strings.Repeat("\u00e9", 50)
	assert.NoError(t, Input{Name: name, Description: "a long enough description"}.Validate())

	err := Input{Name: name + "\u00e9", Description: "a long enough description"}.Validate()
	var verr *validate.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Name must be at most 50 characters", verr.For("Name"))
}
