package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homeops/portal/internal/core/ports"
)

// PortalHandler serves the per-user views of the gateway.
type PortalHandler struct {
	dashboards ports.DashboardLoader
}

func NewPortalHandler(dashboards ports.DashboardLoader) *PortalHandler {
	return &PortalHandler{dashboards: dashboards}
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /v1/me [get]
func (h *PortalHandler) Me(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

type dashboardResponse struct {
	Role      string `json:"role"`
	User      string `json:"user"`
	Dashboard any    `json:"dashboard"`
}

// Dashboard returns the landing page of the caller's role.
//
// @Summary      Role dashboard
// @Tags         portal
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /v1/dashboard [get]
func (h *PortalHandler) Dashboard(c echo.Context) error {
	u, err := currentUser(c)
	if err != nil {
		return err
	}
	d, err := h.dashboards.Load(c.Request().Context(), u.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{Role: u.Role, User: u.FullName(), Dashboard: d})
}
