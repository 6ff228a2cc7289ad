package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/pkg/metrics"
	"github.com/homeops/portal/internal/pkg/query"
)

const (
	headerRequestID = "X-Request-ID"
	mimeJSON        = "application/json"
	// maxErrorBody bounds how much of a failed binary response is read.
	maxErrorBody = 64 << 10
)

// Scope is a Client bound to one domain base path. It implements ports.Requester.
type Scope struct {
	c    *Client
	base string
}

var _ ports.Requester = (*Scope)(nil)

// BasePath returns the path the scope is rooted at.
func (s *Scope) BasePath() string {
	if s.base == "" {
		return "/"
	}
	return s.base
}

// Do performs a JSON call. The body is validated before sending and the
// decoded response is validated before returning.
func (s *Scope) Do(ctx context.Context, req ports.Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if req.Body != nil {
		if err := s.c.validate.Validate(req.Body); err != nil {
			return &domain.APIError{Message: err.Error(), Err: fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)}
		}
	}

	r, err := s.newRequest(ctx)
	if err != nil {
		return err
	}
	r.SetHeader("Content-Type", mimeJSON)
	mergeHeader(r, req.Header)
	if req.Body != nil {
		r.SetBody(req.Body)
	}

	resp, err := s.send(r, method, s.url(req.Endpoint, req.Query))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return errorFromBody(resp.StatusCode(), resp.Body(), domain.MsgRequestFailed)
	}
	return s.decode(resp.StatusCode(), resp.Body(), out)
}

// Upload sends a multipart/form-data body with one file part.
func (s *Scope) Upload(ctx context.Context, up ports.Upload, out any) error {
	if up.Content == nil || up.FileName == "" {
		err := fmt.Errorf("%w: upload needs a file name and content", domain.ErrInvalidRequest)
		return &domain.APIError{Message: err.Error(), Err: err}
	}
	field := up.Field
	if field == "" {
		field = "file"
	}

	r, err := s.newRequest(ctx)
	if err != nil {
		return err
	}
	r.SetFileReader(field, up.FileName, up.Content)
	if len(up.Fields) > 0 {
		r.SetFormData(up.Fields)
	}

	resp, err := s.send(r, http.MethodPost, s.url(up.Endpoint, nil))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return errorFromBody(resp.StatusCode(), resp.Body(), domain.MsgUploadFailed)
	}
	return s.decode(resp.StatusCode(), resp.Body(), out)
}

// Download streams the response body of a GET into w and returns the number
// of bytes written.
func (s *Scope) Download(ctx context.Context, endpoint string, q *query.Values, w io.Writer) (int64, error) {
	r, err := s.newRequest(ctx)
	if err != nil {
		return 0, err
	}
	r.SetHeader("Accept", "text/csv, application/octet-stream, */*")
	r.SetDoNotParseResponse(true)

	resp, err := s.send(r, http.MethodGet, s.url(endpoint, q))
	if err != nil {
		return 0, err
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		b, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
		return 0, errorFromBody(resp.StatusCode(), b, domain.MsgDownloadFailed)
	}

	n, err := io.Copy(w, body)
	if err != nil {
		return n, &domain.APIError{Status: resp.StatusCode(), Message: domain.MsgDownloadFailed, Err: err}
	}
	return n, nil
}

func (s *Scope) url(endpoint string, q *query.Values) string {
	if endpoint != "" && !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return q.AppendTo(s.c.baseURL + s.base + endpoint)
}

// newRequest applies the headers every call carries: JSON accept, a request
// id, and the Authorization header read fresh from the token source.
func (s *Scope) newRequest(ctx context.Context) (*resty.Request, error) {
	token, err := s.c.token(ctx)
	if err != nil {
		return nil, &domain.APIError{Message: err.Error(), Err: err}
	}

	r := s.c.http.R().SetContext(ctx)
	r.SetHeader("Accept", mimeJSON)
	r.SetHeader(headerRequestID, uuid.NewString())
	if token != "" {
		r.SetHeader("Authorization", string(s.c.scheme)+" "+token)
	}
	return r, nil
}

func (s *Scope) send(r *resty.Request, method, rawURL string) (*resty.Response, error) {
	if err := s.c.wait(r.Context()); err != nil {
		return nil, &domain.APIError{Message: err.Error(), Err: err}
	}

	scope := s.BasePath()
	start := time.Now()
	resp, err := r.Execute(method, rawURL)
	elapsed := time.Since(start)
	metrics.RequestDuration.WithLabelValues(scope, method).Observe(elapsed.Seconds())

	if err != nil {
		metrics.RequestsTotal.WithLabelValues(scope, method, "error").Inc()
		s.c.log.Debug().Err(err).
			Str("method", method).
			Str("url", rawURL).
			Str("request_id", r.Header.Get(headerRequestID)).
			Msg("request failed")
		return nil, &domain.APIError{Message: err.Error(), Err: err}
	}

	metrics.RequestsTotal.WithLabelValues(scope, method, strconv.Itoa(resp.StatusCode())).Inc()
	s.c.log.Debug().
		Str("method", method).
		Str("url", rawURL).
		Int("status", resp.StatusCode()).
		Dur("duration", elapsed).
		Str("request_id", r.Header.Get(headerRequestID)).
		Msg("request")
	return resp, nil
}

func (s *Scope) decode(status int, body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &domain.APIError{
			Status:  status,
			Message: "invalid response: " + err.Error(),
			Err:     fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err),
		}
	}
	if err := s.c.validate.Validate(out); err != nil {
		return &domain.APIError{
			Status:  status,
			Message: "invalid response: " + err.Error(),
			Err:     fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err),
		}
	}
	return nil
}

func mergeHeader(r *resty.Request, h http.Header) {
	for k, vs := range h {
		r.Header.Del(k)
		for _, v := range vs {
			r.Header.Add(k, v)
		}
	}
}
