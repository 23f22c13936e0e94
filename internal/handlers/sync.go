package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/alimgiray/contribsync/internal/models"
	"github.com/alimgiray/contribsync/internal/services"
	"github.com/gin-gonic/gin"
)

// Syncer runs one synchronization
type Syncer interface {
	Run(ctx context.Context, target services.SyncTarget, policy models.AggregationPolicy, opts services.SyncOptions) (*models.Run, error)
}

type SyncHandler struct {
	syncer  Syncer
	target  services.SyncTarget
	policy  models.AggregationPolicy
	options services.SyncOptions
}

func NewSyncHandler(syncer Syncer, target services.SyncTarget, policy models.AggregationPolicy, options services.SyncOptions) *SyncHandler {
	return &SyncHandler{
		syncer:  syncer,
		target:  target,
		policy:  policy,
		options: options,
	}
}

type syncRequest struct {
	DryRun bool `json:"dry_run"`
}

// TriggerSync runs a sync now and responds with the run record. It waits for
// any run already in progress.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	opts := h.options
	opts.DryRun = opts.DryRun || req.DryRun
	opts.Preview = nil

	run, err := h.syncer.Run(c.Request.Context(), h.target, h.policy, opts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "run": run})
		return
	}

	c.JSON(http.StatusOK, run)
}
