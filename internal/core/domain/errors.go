package domain

import (
	"errors"
	"net/http"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidResponse  = errors.New("invalid response")
	ErrForbidden        = errors.New("access forbidden")
	ErrUnsupportedRole  = errors.New("unsupported role")
)

// Fallback messages used when the backend gives no usable error body.
const (
	MsgRequestFailed  = "API request failed"
	MsgUploadFailed   = "Upload failed"
	MsgDownloadFailed = "Failed to download report"
)

// APIError is the single failure kind for calls to the backend. Status is 0
// when no response was received.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.Err }

// IsUnauthorized reports whether the backend rejected the credentials.
func (e *APIError) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}
