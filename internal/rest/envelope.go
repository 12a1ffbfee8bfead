package rest

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Envelope is the response wrapper shared by every endpoint.
// Pagination fields are only populated by list endpoints.
type Envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data,omitempty"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	Limit    int             `json:"limit"`
	LastPage int             `json:"lastPage"`
}

// DecodeData unmarshals the envelope's data field into v.
// A missing or null data field leaves v untouched.
func (e *Envelope) DecodeData(v any) error {
	if e == nil || len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	return unmarshalWithContext(e.Data, v, "decode data")
}

func decodeEnvelope(raw []byte) (*Envelope, error) {
	if len(raw) == 0 {
		return nil, errors.New("decode envelope: empty body")
	}
	var env Envelope
	if err := unmarshalWithContext(raw, &env, "decode envelope"); err != nil {
		return nil, err
	}
	return &env, nil
}

func unmarshalWithContext(data []byte, v any, context string) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}
