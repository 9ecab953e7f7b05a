package handlers

import (
	"net/http"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/score"
	"github.com/AEO-Content-Inc/aeorank/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Telemetry *telemetry.Registry

	// Weights is the full merged table the auditor scores with.
	Weights map[string]float64
}

func NewStatsHandler(reg *telemetry.Registry, weights map[string]float64) *StatsHandler {
	return &StatsHandler{Telemetry: reg, Weights: weights}
}

func (h *StatsHandler) Stats(c *gin.Context) {
	stats := h.Telemetry.Snapshot()

	response := gin.H{
		"total_audits":    stats.TotalAudits,
		"completed":       stats.Completed,
		"fatal":           stats.Fatal,
		"avg_duration_ms": stats.AvgDurationMs,
		"p95_duration_ms": stats.P95DurationMs,
	}

	if len(stats.FatalByReason) > 0 {
		response["fatal_by_reason"] = stats.FatalByReason
	}
	if stats.LastFatal != "" {
		response["last_fatal"] = stats.LastFatal
	}
	if stats.LastFatalTime != nil {
		response["last_fatal_time"] = stats.LastFatalTime.Format(time.RFC3339)
	}

	// Weights holds the table the auditor actually aggregates with, so
	// the published weights can never drift from the scoring weights.
	weights := h.Weights
	if weights == nil {
		weights = score.DefaultWeights
	}
	response["criteria_weights"] = weights

	c.JSON(http.StatusOK, response)
}
