// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package score combines criterion results into one 0-100 aggregate.
// The weight table is an open enumeration: an unrecognized criterion id
// is not an error, it contributes at the default weight, so the
// aggregate stays total over any future superset of criteria and never
// needs rebalancing when criteria are added or removed.
package score

import "math"

// DefaultWeight applies to any criterion id the table does not know.
const DefaultWeight = 0.10

// DefaultWeights are the compiled-in per-criterion contribution
// factors. Weights need not sum to 1; aggregation normalizes.
var DefaultWeights = map[string]float64{
	"llms_txt":           0.12,
	"ai_txt":             0.05,
	"robots_ai_access":   0.15,
	"sitemap":            0.10,
	"rss_feed":           0.06,
	"rendering_access":   0.15,
	"structured_data":    0.12,
	"meta_description":   0.08,
	"heading_hierarchy":  0.08,
	"semantic_html":      0.06,
	"open_graph":         0.05,
	"canonical_urls":     0.06,
	"content_depth":      0.10,
	"content_velocity":   0.10,
	"readability":        0.07,
	"citable_facts":      0.10,
	"faq_content":        0.10,
	"comparison_pages":   0.07,
	"entity_consistency": 0.08,
	"author_bios":        0.08,
	"internal_linking":   0.06,
	"image_alt_text":     0.04,
	"https_security":     0.10,
}

// Merged returns a copy of DefaultWeights with overrides applied on
// top. Overriding one criterion must never disturb the weight of any
// other, so the full table is materialized rather than handing the
// sparse override map to Aggregate. A nil override map yields the
// defaults unchanged.
func Merged(overrides map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(DefaultWeights)+len(overrides))
	for id, w := range DefaultWeights {
		merged[id] = w
	}
	for id, w := range overrides {
		merged[id] = w
	}
	return merged
}

// Scored is the minimal view the aggregator needs of one criterion.
type Scored struct {
	ID    string
	Score int
}

// Lookup returns the weight for an id and whether the table knew it.
// The caller applies DefaultWeight on a miss, keeping the fallback
// policy at the call site.
func Lookup(weights map[string]float64, id string) (float64, bool) {
	w, ok := weights[id]
	if !ok || w <= 0 || w > 1 {
		return 0, false
	}
	return w, true
}

// Aggregate computes the weight-normalized 0-100 score. Empty input
// yields 0. N criteria with identical score S and equal weights yield
// S*10 regardless of N.
func Aggregate(results []Scored, weights map[string]float64) int {
	if len(results) == 0 {
		return 0
	}
	if weights == nil {
		weights = DefaultWeights
	}

	weightedSum := 0.0
	totalWeight := 0.0
	for _, r := range results {
		w, ok := Lookup(weights, r.ID)
		if !ok {
			w = DefaultWeight
		}
		weightedSum += float64(r.Score) / 10.0 * w * 100.0
		totalWeight += w
	}
	if totalWeight == 0 {
		return 0
	}
	return int(math.Round(weightedSum / totalWeight))
}
