package api

import (
	"github.com/labstack/echo/v4"

	"AstroView/internal/domain/models"
	"AstroView/internal/usecase"
	xhttp "AstroView/pkg/http"
	"AstroView/pkg/logger"
)

// AdminHandler serves the mutating endpoints: paper trades and roster
// management.
type AdminHandler struct {
	paper  *usecase.PaperTradeUsecase
	admin  *usecase.AdminUsecase
	logger *logger.Logger
}

// NewAdminHandler creates the handler.
func NewAdminHandler(paper *usecase.PaperTradeUsecase, admin *usecase.AdminUsecase, l *logger.Logger) *AdminHandler {
	return &AdminHandler{paper: paper, admin: admin, logger: l}
}

// RegisterRoutes mounts the mutating endpoints.
func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/paper/trade", h.openPaperTrade)
	e.DELETE("/api/paper/trade/:user/:index", h.closePaperTrade)
	e.POST("/api/users/register", h.registerUser)
	e.DELETE("/api/users/:id", h.removeUser)
}

func (h *AdminHandler) openPaperTrade(c echo.Context) error {
	var req models.PaperTradeRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}
	if err := usecase.ValidatePaperTrade(&req); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	if err := h.paper.Open(c.Request().Context(), &req); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	risk, reward := usecase.RiskPreview(&req)
	return xhttp.CreatedResponse(c, map[string]interface{}{
		"user_id": req.UserID,
		"risk":    risk,
		"reward":  reward,
	})
}

func (h *AdminHandler) closePaperTrade(c echo.Context) error {
	userID := c.Param("user")
	if err := usecase.ValidateUserID(userID); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}
	index := xhttp.ParseIntDefault(c.Param("index"), -1)
	if index < 0 {
		return xhttp.BadRequestResponse(c, "index must be a non-negative integer")
	}

	if err := h.paper.Close(c.Request().Context(), userID, index); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"closed": index})
}

func (h *AdminHandler) registerUser(c echo.Context) error {
	var req models.RegisterUserRequest
	if errs := xhttp.ReadAndValidateRequest(c, &req); errs != nil {
		return xhttp.BadRequestResponse(c, errs)
	}

	provisionLog, err := h.admin.Register(c.Request().Context(), &req)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, map[string]interface{}{
		"id":  req.Username,
		"log": provisionLog,
	})
}

func (h *AdminHandler) removeUser(c echo.Context) error {
	userID := c.Param("id")
	if err := usecase.ValidateUserID(userID); err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	if err := h.admin.Remove(c.Request().Context(), userID); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"removed": userID})
}
