package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/pkg/query"
)

type call struct {
	Method   string
	Endpoint string
	Query    string
	Body     any
}

// stubRequester answers calls from canned JSON keyed by "METHOD endpoint".
type stubRequester struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]string
	errs      map[string]error
	uploads   []ports.Upload
	download  string
}

func newStubRequester() *stubRequester {
	return &stubRequester{responses: map[string]string{}, errs: map[string]error{}}
}

func (s *stubRequester) on(method, endpoint, body string) *stubRequester {
	s.responses[method+" "+endpoint] = body
	return s
}

func (s *stubRequester) fail(method, endpoint string, err error) *stubRequester {
	s.errs[method+" "+endpoint] = err
	return s
}

func (s *stubRequester) Do(_ context.Context, req ports.Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	s.mu.Lock()
	s.calls = append(s.calls, call{Method: method, Endpoint: req.Endpoint, Query: req.Query.Encode(), Body: req.Body})
	key := method + " " + req.Endpoint
	err, failed := s.errs[key]
	body, ok := s.responses[key]
	s.mu.Unlock()

	if failed {
		return err
	}
	if !ok {
		return &domain.APIError{Status: http.StatusNotFound, Message: "Not found."}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func (s *stubRequester) Upload(_ context.Context, up ports.Upload, out any) error {
	s.mu.Lock()
	s.uploads = append(s.uploads, up)
	body := s.responses["UPLOAD "+up.Endpoint]
	s.mu.Unlock()
	if body == "" {
		return &domain.APIError{Status: http.StatusBadRequest, Message: domain.MsgUploadFailed}
	}
	return json.Unmarshal([]byte(body), out)
}

func (s *stubRequester) Download(_ context.Context, endpoint string, q *query.Values, w io.Writer) (int64, error) {
	s.mu.Lock()
	s.calls = append(s.calls, call{Method: http.MethodGet, Endpoint: endpoint, Query: q.Encode()})
	s.mu.Unlock()
	return io.Copy(w, strings.NewReader(s.download))
}

func (s *stubRequester) last() call {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return call{}
	}
	return s.calls[len(s.calls)-1]
}

func (s *stubRequester) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	// failDelete makes Delete return this error.
	failDelete error
}

func newMemStore(kv ...string) *memStore {
	m := &memStore{data: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		m.data[kv[i]] = kv[i+1]
	}
	return m
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrTokenNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete != nil {
		return m.failDelete
	}
	delete(m.data, key)
	return nil
}

func (m *memStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
