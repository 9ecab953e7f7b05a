package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/telemetry"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	StartTime time.Time
	Version   string
	Telemetry *telemetry.Registry
}

func NewHealthHandler(version string, reg *telemetry.Registry) *HealthHandler {
	return &HealthHandler{
		StartTime: time.Now(),
		Version:   version,
		Telemetry: reg,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := gin.H{
		"status":  "ok",
		"runtime": "go",
		"version": h.Version,
		"uptime":  time.Since(h.StartTime).String(),
		"memory": gin.H{
			"alloc_mb":       memStats.Alloc / 1024 / 1024,
			"sys_mb":         memStats.Sys / 1024 / 1024,
			"num_goroutines": runtime.NumGoroutine(),
		},
	}

	if h.Telemetry != nil {
		stats := h.Telemetry.Snapshot()
		audits := gin.H{
			"total":     stats.TotalAudits,
			"completed": stats.Completed,
			"fatal":     stats.Fatal,
		}
		if stats.LastAuditTime != nil {
			audits["last_audit_time"] = stats.LastAuditTime.Format(time.RFC3339)
		}
		response["audits"] = audits
	}

	c.JSON(http.StatusOK, response)
}
