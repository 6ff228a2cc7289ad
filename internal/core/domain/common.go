package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a backend identifier. The backend emits both numeric and string ids,
// so ID accepts either and always marshals back as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: expected string or number, got %s", b)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Page is the listing envelope returned by every collection endpoint.
type Page[T any] struct {
	Results []T `json:"results" validate:"dive"`
	Count   int `json:"count"   validate:"gte=0"`
}

// Ack is the acknowledgment body returned by mutations without a resource.
type Ack struct {
	Message string `json:"message"`
}

// ListOptions are the common listing filters. Nil pointers and empty strings
// are left out of the query string; a pointer to zero is sent.
type ListOptions struct {
	Status string
	Limit  *int
	Offset *int
	Period string
	Search string
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
