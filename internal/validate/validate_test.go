package validate

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name        string `validate:"required,min=2,max=5" label:"Name"`
	Description string `validate:"required,min=10"`
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "abc", Description: "0123456789"}))
}

func TestStruct_Messages(t *testing.T) {
	err := Struct(sample{Name: "", Description: "short"})
	var verr *Error
	require.True(t, errors.As(err, &verr), "got %T", err)

	want := []FieldError{
		{Field: "Name", Message: "Name is required"},
		{Field: "Description", Message: "Description must be at least 10 characters"},
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Name is required; Description must be at least 10 characters", verr.Error())
}

func TestStruct_MaxCountsRunes(t *testing.T) {
	// Five runes, more than five bytes.
	assert.NoError(t, Struct(sample{Name: "ééééé", Description: "0123456789"}))

	err := Struct(sample{Name: "éééééé", Description: "0123456789"})
	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Name must be at most 5 characters", verr.For("Name"))
	assert.Empty(t, verr.For("Description"))
}

func TestStruct_NotAStruct(t *testing.T) {
	err := Struct(42)
	require.Error(t, err)
	var verr *Error
	assert.False(t, errors.As(err, &verr))
}
