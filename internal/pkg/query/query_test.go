package query

import (
	"net/url"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestEncode_KeepsInsertionOrder(t *testing.T) {
	q := New().Set("status", "open").SetInt("limit", intPtr(10)).SetInt("offset", intPtr(0))
	if got := q.Encode(); got != "status=open&limit=10&offset=0" {
		t.Fatalf("unexpected encoding: %s", got)
	}
}

func TestEncode_OmitsUndefined(t *testing.T) {
	q := New().Set("status", "").SetInt("limit", nil).SetBool("archived", nil).Set("period", "2024-Q1")
	if got := q.Encode(); got != "period=2024-Q1" {
		t.Fatalf("unexpected encoding: %s", got)
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 parameter, got %d", q.Len())
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	input := []struct{ key, value string }{
		{"search", "smith & sons"},
		{"note", "a=b c"},
		{"unicode", "café/naïve?"},
		{"plus", "1+1"},
	}
	q := New()
	for _, kv := range input {
		q.Set(kv.key, kv.value)
	}

	parsed, err := url.ParseQuery(q.Encode())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if len(parsed) != len(input) {
		t.Fatalf("expected %d keys, got %d", len(input), len(parsed))
	}
	for _, kv := range input {
		if got := parsed.Get(kv.key); got != kv.value {
			t.Fatalf("key %q: got %q, want %q", kv.key, got, kv.value)
		}
	}
}

func TestAppendTo(t *testing.T) {
	if got := New().AppendTo("/jobs/"); got != "/jobs/" {
		t.Fatalf("empty query should leave path untouched, got %s", got)
	}
	if got := New().Set("a", "1").AppendTo("/jobs/"); got != "/jobs/?a=1" {
		t.Fatalf("unexpected path: %s", got)
	}
	if got := New().Set("b", "2").AppendTo("/jobs/?a=1"); got != "/jobs/?a=1&b=2" {
		t.Fatalf("unexpected path: %s", got)
	}
}

func TestNilValues(t *testing.T) {
	var q *Values
	if q.Len() != 0 || q.Encode() != "" || q.AppendTo("/x") != "/x" {
		t.Fatalf("nil Values must behave as empty")
	}
	if _, ok := q.Get("a"); ok {
		t.Fatalf("nil Values must not report keys")
	}
}
