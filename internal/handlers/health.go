package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	workerStatus func() map[string]bool
}

// NewHealthHandler creates a health handler. workerStatus may be nil.
func NewHealthHandler(workerStatus func() map[string]bool) *HealthHandler {
	return &HealthHandler{workerStatus: workerStatus}
}

// Health reports liveness and the state of background workers
func (h *HealthHandler) Health(c *gin.Context) {
	data := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.workerStatus != nil {
		data["workers"] = h.workerStatus()
	}
	c.JSON(http.StatusOK, data)
}
