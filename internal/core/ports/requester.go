package ports

import (
	"context"
	"io"
	"net/http"

	"github.com/homeops/portal/internal/pkg/query"
)

// Request describes one JSON call relative to a requester's base path.
type Request struct {
	Method   string
	Endpoint string
	Query    *query.Values
	// Body is encoded as JSON when non-nil.
	Body any
	// Header is merged over the default JSON and auth headers.
	Header http.Header
}

// Upload describes a multipart file upload.
type Upload struct {
	Endpoint string
	// Field is the multipart field name of the file part.
	Field    string
	FileName string
	Content  io.Reader
	// Fields are additional plain form fields.
	Fields map[string]string
}

// Requester performs calls against one domain of the portal backend.
// Failures are returned as *domain.APIError.
type Requester interface {
	// Do performs a JSON call and decodes the response into out when out is non-nil.
	Do(ctx context.Context, req Request, out any) error
	// Upload sends a multipart body and decodes the JSON response into out.
	Upload(ctx context.Context, up Upload, out any) error
	// Download streams a binary response body into w.
	Download(ctx context.Context, endpoint string, q *query.Values, w io.Writer) (int64, error)
}
