// internal/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

// Pinger reports whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	upstream Pinger
	version  string
	journal  bool
	archive  bool
}

func NewHealthHandler(upstream Pinger, version string, journal, archive bool) *HealthHandler {
	return &HealthHandler{
		upstream: upstream,
		version:  version,
		journal:  journal,
		archive:  archive,
	}
}

// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := "healthy"
	reachable := h.upstream.Ping(ctx) == nil
	if !reachable {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"version": h.version,
		"upstream": gin.H{
			"reachable": reachable,
		},
		"journal": h.journal,
		"archive": h.archive,
	})
}
