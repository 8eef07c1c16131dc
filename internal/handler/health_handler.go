package handler

import (
	"net/http"

	"contact-service/pkg/database"
	"contact-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck probes the database and reports service health. Failures share
// the classification used by the contact handlers, so a dead connection and a
// broken schema produce distinct error strings.
func HealthCheck(c echo.Context) error {
	log := logger.FromContext(c)

	if err := database.Ping(); err != nil {
		log.Error("Health check failed", zap.Error(err))

		_, msg := storeError(err, "Database error - ensure database 'contactapp' exists and migrations have run")
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"ok":    false,
			"error": msg,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
