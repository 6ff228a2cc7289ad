package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/infrastructure/rest"
)

type stubUsers struct {
	user     *domain.User
	err      error
	calls    int
	gotToken string
}

func (s *stubUsers) Me(ctx context.Context) (*domain.User, error) {
	s.calls++
	s.gotToken, _ = rest.TokenFromContext(ctx)
	return s.user, s.err
}

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 1, "exp": exp.Unix()}).
		SignedString([]byte("backend-only-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func run(t *testing.T, users *stubUsers, header string) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Auth(users)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func statusOf(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return domain.StatusOf(err)
}

func TestAuthMiddleware_ForwardsTokenAndSetsUser(t *testing.T) {
	users := &stubUsers{user: &domain.User{ID: "1", Email: "fm@example.com", Role: domain.RoleFacilityManager}}
	token := signed(t, time.Now().Add(time.Hour))

	c, called, err := run(t, users, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if users.gotToken != token {
		t.Fatalf("token must reach the backend call, got %q", users.gotToken)
	}
	if c.Get("role") != domain.RoleFacilityManager {
		t.Fatalf("role not set")
	}
	if u, _ := c.Get("user").(*domain.User); u == nil || u.Email != "fm@example.com" {
		t.Fatalf("user not set")
	}
	if got, _ := rest.TokenFromContext(c.Request().Context()); got != token {
		t.Fatalf("request context must carry the token for handlers")
	}
}

func TestAuthMiddleware_OpaqueTokenIsForwarded(t *testing.T) {
	users := &stubUsers{user: &domain.User{ID: "1", Role: domain.RoleCustomer}}
	if _, called, err := run(t, users, "bearer 9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"); err != nil || !called {
		t.Fatalf("opaque tokens must be accepted: %v", err)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		header string
		users  *stubUsers
	}{
		{"missing header", "", &stubUsers{}},
		{"wrong scheme", "Token abc", &stubUsers{}},
		{"empty token", "Bearer ", &stubUsers{}},
		{"expired jwt", "Bearer " + signed(t, time.Now().Add(-time.Minute)), &stubUsers{}},
		{"backend rejects", "Bearer abc", &stubUsers{err: &domain.APIError{Status: http.StatusUnauthorized, Message: "Invalid token."}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, called, err := run(t, tc.users, tc.header)
			if called {
				t.Fatalf("should not reach next")
			}
			if statusOf(err) != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %v", err)
			}
		})
	}

	expired := &stubUsers{}
	_, _, _ = run(t, expired, "Bearer "+signed(t, time.Now().Add(-time.Minute)))
	if expired.calls != 0 {
		t.Fatalf("an expired token must not reach the backend")
	}
}

func TestAuthMiddleware_BackendDown(t *testing.T) {
	down := &domain.APIError{Status: 0, Message: "dial tcp: connection refused"}
	_, called, err := run(t, &stubUsers{err: down}, "Bearer abc")
	if called {
		t.Fatalf("should not reach next")
	}
	if err != down {
		t.Fatalf("transport failures must pass through unchanged, got %v", err)
	}
}
