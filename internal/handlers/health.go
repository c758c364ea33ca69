package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB *gorm.DB
}

// Handler reports liveness plus database reachability.
func (h *HealthHandler) Handler(c echo.Context) error {
	appStatus := "healthy"
	dbStatus := "connected"
	code := http.StatusOK

	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		appStatus = "unhealthy"
		dbStatus = "unavailable"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, echo.Map{
		"status":    appStatus,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
