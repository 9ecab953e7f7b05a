// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package criteria holds the 23 independent heuristic evaluators. Each
// is a pure function of the snapshot, safe to run concurrently with the
// others, and always returns a bounded result instead of an error.
package criteria

import (
	"sync"

	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// Result statuses, derived from fixed score bands.
const (
	StatusPass     = "pass"
	StatusPartial  = "partial"
	StatusFail     = "fail"
	StatusNotFound = "not_found"
)

// Finding severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityHigh    = "high"
)

// Fix priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Finding is one observed sub-signal, ordered within its result.
type Finding struct {
	Severity    string `json:"severity"`
	Detail      string `json:"detail"`
	Remediation string `json:"remediation,omitempty"`
}

// Result is one criterion's outcome. ID strings are a stable contract
// downstream consumers key off; Score is always clamped to [0,10].
type Result struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Score    int       `json:"score"`
	Status   string    `json:"status"`
	Findings []Finding `json:"findings"`
	Priority string    `json:"priority"`
}

// Evaluator is one pure criterion check.
type Evaluator func(*snapshot.DomainSnapshot) Result

// All returns the 23 evaluators in stable registry order.
func All() []Evaluator {
	return []Evaluator{
		EvaluateLLMSTxt,
		EvaluateAITxt,
		EvaluateRobotsAIAccess,
		EvaluateSitemap,
		EvaluateRSSFeed,
		EvaluateRenderingAccess,
		EvaluateStructuredData,
		EvaluateMetaDescription,
		EvaluateHeadingHierarchy,
		EvaluateSemanticHTML,
		EvaluateOpenGraph,
		EvaluateCanonicalURLs,
		EvaluateContentDepth,
		EvaluateContentVelocity,
		EvaluateReadability,
		EvaluateCitableFacts,
		EvaluateFAQContent,
		EvaluateComparisonPages,
		EvaluateEntityConsistency,
		EvaluateAuthorBios,
		EvaluateInternalLinking,
		EvaluateImageAltText,
		EvaluateHTTPSSecurity,
	}
}

// EvaluateAll fans the evaluators out concurrently against a read-only
// snapshot and returns results in registry order. One evaluator's
// outcome never affects another's.
func EvaluateAll(snap *snapshot.DomainSnapshot) []Result {
	evaluators := All()
	results := make([]Result, len(evaluators))

	var wg sync.WaitGroup
	for i, eval := range evaluators {
		wg.Add(1)
		go func(i int, eval Evaluator) {
			defer wg.Done()
			results[i] = eval(snap)
		}(i, eval)
	}
	wg.Wait()
	return results
}

// clamp bounds a raw score to [0,10].
func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// statusFor maps a clamped score to the fixed bands: >=7 pass, 4-6
// partial, <4 fail.
func statusFor(score int) string {
	switch {
	case score >= 7:
		return StatusPass
	case score >= 4:
		return StatusPartial
	default:
		return StatusFail
	}
}

// priorityFor derives the default fix priority from the score.
func priorityFor(score int) string {
	switch {
	case score < 4:
		return PriorityHigh
	case score < 7:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// finish assembles a Result with clamped score and band-derived status.
func finish(id, label string, score int, findings []Finding) Result {
	score = clamp(score)
	return Result{
		ID:       id,
		Label:    label,
		Score:    score,
		Status:   statusFor(score),
		Findings: findings,
		Priority: priorityFor(score),
	}
}

// notFound is the uniform shape for a criterion whose required resource
// is absent: minimum score with an explanatory finding.
func notFound(id, label, detail, remediation string) Result {
	return Result{
		ID:     id,
		Label:  label,
		Score:  0,
		Status: StatusNotFound,
		Findings: []Finding{{
			Severity:    SeverityWarning,
			Detail:      detail,
			Remediation: remediation,
		}},
		Priority: PriorityHigh,
	}
}

// rule is one (predicate, score-delta, finding-template) row. Rules run
// in declared order through applyRules so evaluators stay structurally
// uniform and independently testable.
type rule struct {
	delta       int
	severity    string
	remediation string
	check       func(*snapshot.DomainSnapshot) (hit bool, detail string)
}

// applyRules folds an ordered rule table over the snapshot. Every hit
// adjusts the score and, when it carries a detail, emits a finding.
func applyRules(base int, rules []rule, snap *snapshot.DomainSnapshot) (int, []Finding) {
	score := base
	var findings []Finding
	for _, r := range rules {
		hit, detail := r.check(snap)
		if !hit {
			continue
		}
		score += r.delta
		if detail != "" {
			findings = append(findings, Finding{
				Severity:    r.severity,
				Detail:      detail,
				Remediation: r.remediation,
			})
		}
	}
	return score, findings
}
