package handler

import (
	"github.com/labstack/echo/v4"

	"AstroView/internal/handler/api"
)

// Registry composes the API handlers into one route surface for the
// server.
type Registry struct {
	dashboard *api.DashboardHandler
	admin     *api.AdminHandler
}

// NewRegistry creates the registry.
func NewRegistry(dashboard *api.DashboardHandler, admin *api.AdminHandler) *Registry {
	return &Registry{dashboard: dashboard, admin: admin}
}

// RegisterRoutes mounts every handler.
func (r *Registry) RegisterRoutes(e *echo.Echo) {
	r.dashboard.RegisterRoutes(e)
	r.admin.RegisterRoutes(e)
}
