package rest

import (
	"encoding/json"
	"strings"

	"github.com/homeops/portal/internal/core/domain"
)

type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message json.RawMessage `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// errorFromBody builds the APIError for a non-2xx response. The message is
// taken from "detail", then "message", then "error"; fallback is used when
// the body is not JSON or none of those fields holds text.
func errorFromBody(status int, body []byte, fallback string) *domain.APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		for _, raw := range []json.RawMessage{eb.Detail, eb.Message, eb.Error} {
			if msg := text(raw); msg != "" {
				return &domain.APIError{Status: status, Message: msg}
			}
		}
	}
	return &domain.APIError{Status: status, Message: fallback}
}

// text extracts a string or a list of strings from a raw JSON value.
func text(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.TrimSpace(strings.Join(list, "; "))
	}
	return ""
}
