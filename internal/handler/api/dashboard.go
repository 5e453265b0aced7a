package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"AstroView/internal/usecase"
	xhttp "AstroView/pkg/http"
	"AstroView/pkg/logger"
)

// DashboardHandler serves the read-only view models.
type DashboardHandler struct {
	dash   *usecase.DashboardUsecase
	logger *logger.Logger
}

// NewDashboardHandler creates the handler.
func NewDashboardHandler(dash *usecase.DashboardUsecase, l *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dash: dash, logger: l}
}

// RegisterRoutes mounts the view endpoints.
func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/view")
	g.GET("/users", h.listUsers)
	g.GET("/users/:id/dashboard", h.userDashboard)
	g.GET("/users/:id/predictions", h.predictions)
	g.GET("/calendar", h.calendarMonth)
	g.GET("/calendar/grouped", h.calendarGrouped)
	g.GET("/chart", h.chart)
	g.GET("/status", h.status)
}

func (h *DashboardHandler) listUsers(c echo.Context) error {
	users, err := h.dash.Users(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, users, int64(len(users)))
}

func (h *DashboardHandler) userDashboard(c echo.Context) error {
	userID := c.Param("id")
	if err := usecase.ValidateUserID(userID); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, h.dash.Dashboard(userID))
}

func (h *DashboardHandler) predictions(c echo.Context) error {
	userID := c.Param("id")
	if err := usecase.ValidateUserID(userID); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	preds := h.dash.Predictions(userID)
	return xhttp.ListResponse(c, preds, int64(len(preds)))
}

// calendarMonth serves one month grid. Defaults to the current month.
func (h *DashboardHandler) calendarMonth(c echo.Context) error {
	now := time.Now()
	year := xhttp.ParseIntDefault(c.QueryParam("year"), now.Year())
	month := xhttp.ParseIntDefault(c.QueryParam("month"), int(now.Month()))
	if month < 1 || month > 12 {
		return xhttp.BadRequestResponse(c, "month must be between 1 and 12")
	}

	cal, grid, err := h.dash.CalendarMonth(c.Request().Context(), year, time.Month(month))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"calendar": cal,
		"grid":     grid,
	})
}

func (h *DashboardHandler) calendarGrouped(c echo.Context) error {
	cal, grids, err := h.dash.CalendarGrouped(c.Request().Context())
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"calendar": cal,
		"months":   grids,
	})
}

// chart rebuilds and serves the chart model, optionally overlaying one
// user's trades.
func (h *DashboardHandler) chart(c echo.Context) error {
	userID := c.QueryParam("user")
	if userID != "" {
		if err := usecase.ValidateUserID(userID); err != nil {
			return xhttp.BadRequestResponse(c, err.Error())
		}
	}
	if w := xhttp.ParseIntDefault(c.QueryParam("width"), 0); w > 0 {
		height := xhttp.ParseIntDefault(c.QueryParam("height"), 0)
		if err := h.dash.ResizeChart(w, height); err != nil {
			return xhttp.AppErrorResponse(c, err)
		}
	}

	model, err := h.dash.ChartModel(userID)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, model)
}

func (h *DashboardHandler) status(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.dash.Status())
}
