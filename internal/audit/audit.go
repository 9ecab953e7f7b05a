// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package audit runs the full pipeline for one domain: acquisition,
// multi-page discovery, the 23 criterion evaluators, and aggregation.
package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AEO-Content-Inc/aeorank/internal/acquire"
	"github.com/AEO-Content-Inc/aeorank/internal/criteria"
	"github.com/AEO-Content-Inc/aeorank/internal/discover"
	"github.com/AEO-Content-Inc/aeorank/internal/score"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// Fatal reason identifiers surfaced to downstream consumers.
const (
	ReasonUnreachable = "unreachable"
	ReasonHijacked    = "redirect_hijack"
	ReasonParked      = "parked_domain"
)

// Report is the complete outcome of one audit invocation. On a fatal
// classification Criteria is empty and FatalReason names why.
type Report struct {
	AuditID     string            `json:"audit_id"`
	Domain      string            `json:"domain"`
	FatalReason string            `json:"fatal_reason,omitempty"`
	FatalDetail string            `json:"fatal_detail,omitempty"`
	Score       int               `json:"score"`
	Criteria    []criteria.Result `json:"criteria"`
	Summary     map[string]any    `json:"summary"`
	DurationS   float64           `json:"duration_s"`
}

type Auditor struct {
	Orchestrator *acquire.Orchestrator
	Discoverer   *discover.Discoverer

	// Weights replaces the compiled-in table when non-nil. It must be
	// a complete table (score.Merged), not a sparse override map, or
	// every unnamed criterion falls to the default weight.
	Weights map[string]float64
}

func New(orc *acquire.Orchestrator, disc *discover.Discoverer) *Auditor {
	return &Auditor{Orchestrator: orc, Discoverer: disc}
}

// Run audits one domain. The returned report is always usable; err is
// non-nil only for the fatal classes (unreachable, hijack, parked), in
// which case the report carries the reason and whatever was fetched.
func (a *Auditor) Run(ctx context.Context, domain string) (*Report, error) {
	domain = normalizeDomain(domain)
	start := time.Now()
	report := &Report{
		AuditID: uuid.NewString(),
		Domain:  domain,
	}

	snap, err := a.Orchestrator.Acquire(ctx, domain)
	if err != nil {
		report.FatalReason = fatalReason(err)
		report.FatalDetail = err.Error()
		report.Summary = buildSummary(snap)
		report.DurationS = time.Since(start).Seconds()
		slog.Warn("audit aborted", "domain", domain, "reason", report.FatalReason)
		return report, err
	}

	a.Discoverer.Discover(ctx, snap)

	report.Criteria = criteria.EvaluateAll(snap)
	report.Score = score.Aggregate(scoredView(report.Criteria), a.Weights)
	report.Summary = buildSummary(snap)
	report.DurationS = time.Since(start).Seconds()

	slog.Info("audit complete",
		"domain", domain,
		"score", report.Score,
		"criteria", len(report.Criteria),
		"elapsed_s", fmt.Sprintf("%.2f", report.DurationS),
	)
	return report, nil
}

func scoredView(results []criteria.Result) []score.Scored {
	out := make([]score.Scored, 0, len(results))
	for _, r := range results {
		out = append(out, score.Scored{ID: r.ID, Score: r.Score})
	}
	return out
}

func fatalReason(err error) string {
	switch {
	case errors.Is(err, acquire.ErrHijacked):
		return ReasonHijacked
	case errors.Is(err, acquire.ErrParked):
		return ReasonParked
	default:
		return ReasonUnreachable
	}
}

// normalizeDomain strips scheme, path and trailing dot from user input.
func normalizeDomain(raw string) string {
	d := strings.TrimSpace(strings.ToLower(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return strings.TrimSuffix(d, ".")
}

// buildSummary flattens the snapshot into the raw data summary handed
// to report and narrative consumers.
func buildSummary(snap *snapshot.DomainSnapshot) map[string]any {
	if snap == nil {
		return map[string]any{}
	}

	pagesByCategory := make(map[string]int)
	for _, p := range snap.Pages {
		pagesByCategory[p.Category]++
	}

	summary := map[string]any{
		"domain":            snap.Domain,
		"protocol":          string(snap.Protocol),
		"has_llms_txt":      snap.LLMSTxt.Present(),
		"has_llms_full_txt": snap.LLMSFullTxt.Present(),
		"has_robots_txt":    snap.RobotsTxt.Present(),
		"has_ai_txt":        snap.AITxt.Present(),
		"has_sitemap":       snap.Sitemap.Present(),
		"has_rss":           snap.RSS.Present(),
		"has_faq":           snap.FAQ.Present(),
		"sitemap_url_count": len(snap.SitemapEntries),
		"pages_sampled":     len(snap.Pages),
		"pages_by_category": pagesByCategory,
		"headless_rendered": snap.HeadlessRendered,
	}
	if snap.DNS != nil {
		summary["dns_resolved"] = snap.DNS.Resolved
		summary["dns_addresses"] = snap.DNS.Addresses
	}
	if snap.RedirectedTo != "" {
		summary["redirected_to"] = snap.RedirectedTo
	}
	if snap.ParkedReason != "" {
		summary["parked_reason"] = snap.ParkedReason
	}
	return summary
}
