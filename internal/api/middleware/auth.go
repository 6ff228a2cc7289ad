package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/homeops/portal/internal/core/domain"
	"github.com/homeops/portal/internal/core/ports"
	"github.com/homeops/portal/internal/core/service"
	"github.com/homeops/portal/internal/infrastructure/rest"
)

// Auth forwards the caller's bearer token to the backend and resolves the
// user behind it. The token is not verified here; the backend is the
// authority. A JWT whose exp claim has passed is rejected without a call.
func Auth(users ports.UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}
			token := strings.TrimSpace(parts[1])

			if exp, ok := service.TokenExpiry(token); ok && !exp.After(time.Now()) {
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			}

			ctx := rest.WithToken(c.Request().Context(), token)
			c.SetRequest(c.Request().WithContext(ctx))

			user, err := users.Me(ctx)
			if err != nil {
				if domain.StatusOf(err) == http.StatusUnauthorized || domain.StatusOf(err) == http.StatusForbidden {
					return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
				}
				return err
			}

			c.Set("user", user)
			c.Set("role", user.Role)
			return next(c)
		}
	}
}
