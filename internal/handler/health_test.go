package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mesbrj/teams-api/internal/config"
	"github.com/mesbrj/teams-api/internal/server"
)

func TestHealthSettings(t *testing.T) {
	t.Run("defaults without observability config", func(t *testing.T) {
		h := NewHealthHandler(&server.Server{Config: &config.Config{}})
		timeout, enabled := h.settings()
		assert.Equal(t, defaultHealthCheckTimeout, timeout)
		assert.True(t, enabled("database"))
		assert.True(t, enabled("redis"))
	})

	t.Run("configured checks and timeout", func(t *testing.T) {
		obs := config.DefaultObservabilityConfig()
		obs.HealthChecks.Timeout = 2 * time.Second
		obs.HealthChecks.Checks = []string{"database"}
		h := NewHealthHandler(&server.Server{Config: &config.Config{Observability: obs}})

		timeout, enabled := h.settings()
		assert.Equal(t, 2*time.Second, timeout)
		assert.True(t, enabled("database"))
		assert.False(t, enabled("redis"))
	})

	t.Run("disabled", func(t *testing.T) {
		obs := config.DefaultObservabilityConfig()
		obs.HealthChecks.Enabled = false
		h := NewHealthHandler(&server.Server{Config: &config.Config{Observability: obs}})

		_, enabled := h.settings()
		assert.False(t, enabled("database"))
	})
}
