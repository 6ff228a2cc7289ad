package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestID_UnmarshalStringOrNumber(t *testing.T) {
	var out struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"job-7","b":42,"c":null}`), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.A != "job-7" || out.B != "42" || out.C != "" {
		t.Fatalf("unexpected ids: %+v", out)
	}

	var bad struct {
		A ID `json:"a"`
	}
	if err := json.Unmarshal([]byte(`{"a":{"x":1}}`), &bad); err == nil {
		t.Fatalf("expected error for object id")
	}
}

func TestPage_DecodesEnvelope(t *testing.T) {
	var page Page[Job]
	if err := json.Unmarshal([]byte(`{"results":[{"id":1,"title":"Leak"}],"count":5}`), &page); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if page.Count != 5 || len(page.Results) != 1 || page.Results[0].ID != "1" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestAuthResponse_AccessToken(t *testing.T) {
	if got := (AuthResponse{Access: "a", Token: "t"}).AccessToken(); got != "a" {
		t.Fatalf("expected access to win, got %q", got)
	}
	if got := (AuthResponse{Token: "t"}).AccessToken(); got != "t" {
		t.Fatalf("expected token fallback, got %q", got)
	}
}

func TestUser_FullName(t *testing.T) {
	cases := []struct {
		u    User
		want string
	}{
		{User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{User{FirstName: "Ada"}, "Ada"},
		{User{LastName: "Lovelace"}, "Lovelace"},
		{User{Email: "ada@example.com"}, "ada@example.com"},
	}
	for _, c := range cases {
		if got := c.u.FullName(); got != c.want {
			t.Fatalf("FullName(%+v) = %q, want %q", c.u, got, c.want)
		}
	}
}

func TestEstimate_LineItemsTotal(t *testing.T) {
	e := Estimate{LineItems: []LineItem{{Quantity: 2, UnitPrice: 10.5}, {Quantity: 1, UnitPrice: 4}}}
	if got := e.LineItemsTotal(); got != 25 {
		t.Fatalf("unexpected total: %v", got)
	}
}

func TestAPIError_StatusAndUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("list jobs: %w", &APIError{Status: 0, Message: "dial tcp: refused", Err: cause})
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if StatusOf(err) != 0 {
		t.Fatalf("expected status 0")
	}

	unauthorized := &APIError{Status: 401, Message: "Invalid token."}
	if StatusOf(unauthorized) != 401 || !unauthorized.IsUnauthorized() {
		t.Fatalf("expected 401")
	}
	if unauthorized.Error() != "Invalid token." {
		t.Fatalf("unexpected message: %s", unauthorized.Error())
	}
	if StatusOf(errors.New("plain")) != 0 {
		t.Fatalf("plain errors carry no status")
	}
}

func TestValidRole(t *testing.T) {
	for _, r := range Roles {
		if !ValidRole(r) {
			t.Fatalf("expected %s to be valid", r)
		}
	}
	if ValidRole("guest") {
		t.Fatalf("guest is not a portal role")
	}
}
