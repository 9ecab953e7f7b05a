// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/acquire"
	"github.com/AEO-Content-Inc/aeorank/internal/audit"
	"github.com/AEO-Content-Inc/aeorank/internal/middleware"
	"github.com/AEO-Content-Inc/aeorank/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// domainPattern accepts bare registrable domains and subdomains. Schemes
// and paths are stripped before matching.
var domainPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,62}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9-]{0,62}[a-zA-Z0-9])?)+$`)

type AuditHandler struct {
	Auditor   *audit.Auditor
	Limiter   middleware.RateLimiter
	Telemetry *telemetry.Registry
}

func NewAuditHandler(a *audit.Auditor, limiter middleware.RateLimiter, reg *telemetry.Registry) *AuditHandler {
	return &AuditHandler{Auditor: a, Limiter: limiter, Telemetry: reg}
}

type auditRequest struct {
	Domain string `json:"domain"`
}

// Audit handles POST /api/audit with a JSON body.
func (h *AuditHandler) Audit(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.run(c, req.Domain)
}

// AuditDomain handles GET /api/audit/:domain.
func (h *AuditHandler) AuditDomain(c *gin.Context) {
	h.run(c, c.Param("domain"))
}

func (h *AuditHandler) run(c *gin.Context, rawDomain string) {
	domain, err := sanitizeDomain(rawDomain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if h.Limiter != nil {
		result := h.Limiter.CheckAndRecord(c.ClientIP(), domain)
		if !result.Allowed {
			var msg string
			switch result.Reason {
			case "rate_limit":
				msg = fmt.Sprintf("Rate limit reached. Please wait %d seconds before trying again.", result.WaitSeconds)
			case "anti_repeat":
				msg = fmt.Sprintf("This domain was recently audited. Please wait %d seconds before re-auditing.", result.WaitSeconds)
			}
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":        msg,
				"reason":       result.Reason,
				"wait_seconds": result.WaitSeconds,
			})
			return
		}
	}

	start := time.Now()
	report, err := h.Auditor.Run(c.Request.Context(), domain)
	if err != nil {
		if h.Telemetry != nil {
			h.Telemetry.RecordFatal(report.FatalReason, time.Since(start))
		}
		c.JSON(fatalStatus(err), report)
		return
	}

	if h.Telemetry != nil {
		h.Telemetry.RecordCompleted(time.Since(start))
	}
	c.JSON(http.StatusOK, report)
}

// fatalStatus maps fatal audit classes onto HTTP codes. The report body
// still carries the reason so clients do not need to parse the code.
func fatalStatus(err error) int {
	switch {
	case errors.Is(err, acquire.ErrHijacked), errors.Is(err, acquire.ErrParked):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func sanitizeDomain(raw string) (string, error) {
	domain := strings.TrimSpace(strings.ToLower(raw))
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimPrefix(domain, "www.")
	if i := strings.IndexAny(domain, "/?#"); i >= 0 {
		domain = domain[:i]
	}
	domain = strings.TrimSuffix(domain, ".")

	if domain == "" {
		return "", errors.New("domain is required")
	}
	if len(domain) > 253 {
		return "", errors.New("domain is too long")
	}
	if !domainPattern.MatchString(domain) {
		return "", fmt.Errorf("invalid domain: %q", domain)
	}
	return domain, nil
}
