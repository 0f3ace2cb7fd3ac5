package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/relato"
)

// HealthHandler handles health and readiness probes
type HealthHandler struct {
	engine  relato.Engine
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(engine relato.Engine) *HealthHandler {
	return &HealthHandler{engine: engine, started: time.Now()}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// LivenessCheck handles GET /live
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// ReadinessCheck handles GET /ready. The graph is queried so a broken
// database connection shows up here rather than on the first real request.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	stats, err := h.engine.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"stats":  stats,
	})
}
