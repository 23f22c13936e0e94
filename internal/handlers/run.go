package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alimgiray/contribsync/internal/services"
	"github.com/alimgiray/contribsync/pkg/logger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RunHandler struct {
	runService    *services.RunService
	reportService *services.ReportService
}

func NewRunHandler(runService *services.RunService, reportService *services.ReportService) *RunHandler {
	return &RunHandler{
		runService:    runService,
		reportService: reportService,
	}
}

// ListRuns returns the most recent runs
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit := 20
	if value := c.Query("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 || parsed > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = parsed
	}

	runs, err := h.runService.ListRuns(limit)
	if err != nil {
		logger.WithError(err).Error("Failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun returns one run with its identities
func (h *RunHandler) GetRun(c *gin.Context) {
	run, err := h.runService.GetRun(c.Param("id"))
	if errors.Is(err, services.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		logger.WithError(err).Error("Failed to get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// LatestRun returns the newest run for a repository
func (h *RunHandler) LatestRun(c *gin.Context) {
	run, err := h.runService.LatestRun(c.Param("owner"), c.Param("repo"))
	if errors.Is(err, services.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no runs for repository"})
		return
	}
	if err != nil {
		logger.WithError(err).Error("Failed to get latest run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ExportRun downloads a run as an xlsx workbook
func (h *RunHandler) ExportRun(c *gin.Context) {
	id := c.Param("id")

	run, err := h.runService.GetRun(id)
	if errors.Is(err, services.ErrRunNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		logger.WithError(err).Error("Failed to get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="run-%s.xlsx"`, run.ID))
	c.Status(http.StatusOK)

	if err := services.WriteRunReport(run, c.Writer); err != nil {
		logger.WithError(err).WithField("run_id", run.ID).Error("Failed to export run")
	}
}
