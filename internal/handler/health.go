package handler

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mesbrj/teams-api/internal/middleware"
	"github.com/mesbrj/teams-api/internal/server"
)

const defaultHealthCheckTimeout = 5 * time.Second

// HealthHandler reports liveness together with database and Redis
// connectivity.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth answers 200 when the database is reachable and 503
// otherwise. Redis is reported but does not fail the check: the API
// serves without it and only background email delivery stops.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := map[string]interface{}{}
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}
	isHealthy := true

	timeout, enabled := h.settings()
	ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
	defer cancel()

	dbStart := time.Now()
	if !enabled("database") {
		checks["database"] = map[string]interface{}{"status": "skipped"}
	} else if err := h.server.DB.Pool.Ping(ctx); err != nil {
		isHealthy = false
		checks["database"] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": time.Since(dbStart).String(),
			"error":         err.Error(),
		}
		logger.Error().Err(err).Dur("response_time", time.Since(dbStart)).Msg("database health check failed")
		h.recordFailure("database", err, time.Since(dbStart))
	} else {
		checks["database"] = map[string]interface{}{
			"status":        "healthy",
			"response_time": time.Since(dbStart).String(),
		}
	}

	if h.server.Redis != nil && enabled("redis") {
		redisStart := time.Now()
		if err := h.server.Redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(redisStart).String(),
				"error":         err.Error(),
			}
			logger.Error().Err(err).Dur("response_time", time.Since(redisStart)).Msg("redis health check failed")
			h.recordFailure("redis", err, time.Since(redisStart))
		} else {
			checks["redis"] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(redisStart).String(),
			}
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

// settings reads the observability health check block. With checks
// disabled the endpoint only reports liveness.
func (h *HealthHandler) settings() (time.Duration, func(string) bool) {
	cfg := h.server.Config
	if cfg == nil || cfg.Observability == nil {
		return defaultHealthCheckTimeout, func(string) bool { return true }
	}
	hc := cfg.Observability.HealthChecks
	timeout := hc.Timeout
	if timeout <= 0 {
		timeout = defaultHealthCheckTimeout
	}
	return timeout, func(name string) bool {
		return hc.Enabled && (len(hc.Checks) == 0 || slices.Contains(hc.Checks, name))
	}
}

func (h *HealthHandler) recordFailure(check string, err error, elapsed time.Duration) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}
	h.server.LoggerService.GetApplication().RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":       check,
		"operation":        "health_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
