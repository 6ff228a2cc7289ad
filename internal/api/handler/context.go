package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homeops/portal/internal/core/domain"
)

// currentUser returns the user resolved by the Auth middleware. A missing
// user means the route was mounted without it, which is reported as 401.
func currentUser(c echo.Context) (*domain.User, error) {
	u, _ := c.Get("user").(*domain.User)
	if u == nil || u.Role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authenticated user")
	}
	return u, nil
}
