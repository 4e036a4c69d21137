package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/White1313devil/medicals/pkg/database"
	"github.com/White1313devil/medicals/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB          *gorm.DB
	ServiceName string
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := database.Ping(ctx, h.DB); err != nil {
		logger.FromEcho(c).Error("Database health check failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"success":  false,
			"status":   "unhealthy",
			"service":  h.ServiceName,
			"database": "unreachable",
		})
	}

	return ok(c, echo.Map{
		"status":   "healthy",
		"service":  h.ServiceName,
		"database": "connected",
	})
}
