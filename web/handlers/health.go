package handlers

import (
	"net/http"

	"audit-agent/backends"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	chain []backends.Generator
}

func NewHealthHandler(chain []backends.Generator) *HealthHandler {
	return &HealthHandler{chain: chain}
}

// Health handles GET /healthz. The service itself is healthy as long as it
// can serve; the per-backend probes are informational.
func (h *HealthHandler) Health(c *gin.Context) {
	probes := make(map[string]bool, len(h.chain))
	for _, gen := range h.chain {
		probes[gen.Name()] = gen.Probe(c.Request.Context())
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"backends": probes,
	})
}
