// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package score_test

import (
	"testing"

	"github.com/AEO-Content-Inc/aeorank/internal/score"
)

func TestAggregateEmpty(t *testing.T) {
	if got := score.Aggregate(nil, nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %d", got)
	}
	if got := score.Aggregate([]score.Scored{}, nil); got != 0 {
		t.Errorf("expected 0 for empty slice, got %d", got)
	}
}

func TestAggregateUniformScores(t *testing.T) {
	// N criteria with identical score S must aggregate to S*10
	// regardless of N or the weight mix.
	cases := []struct {
		name  string
		score int
		want  int
	}{
		{"all tens", 10, 100},
		{"all sevens", 7, 70},
		{"all fives", 5, 50},
		{"all zeros", 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var results []score.Scored
			for id := range score.DefaultWeights {
				results = append(results, score.Scored{ID: id, Score: tc.score})
			}
			if got := score.Aggregate(results, nil); got != tc.want {
				t.Errorf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestAggregateUnknownIDUsesDefaultWeight(t *testing.T) {
	results := []score.Scored{
		{ID: "criterion_from_the_future", Score: 10},
		{ID: "another_unknown", Score: 5},
	}
	// Both fall back to DefaultWeight, so they weigh equally:
	// (100 + 50) / 2 = 75.
	if got := score.Aggregate(results, nil); got != 75 {
		t.Errorf("expected 75, got %d", got)
	}
}

func TestAggregateWeighting(t *testing.T) {
	weights := map[string]float64{"heavy": 0.30, "light": 0.10}
	results := []score.Scored{
		{ID: "heavy", Score: 10},
		{ID: "light", Score: 0},
	}
	// (1.0*0.30*100 + 0) / 0.40 = 75
	if got := score.Aggregate(results, weights); got != 75 {
		t.Errorf("expected 75, got %d", got)
	}
}

func TestAggregateRounds(t *testing.T) {
	results := []score.Scored{
		{ID: "a", Score: 10},
		{ID: "b", Score: 10},
		{ID: "c", Score: 0},
	}
	weights := map[string]float64{"a": 0.1, "b": 0.1, "c": 0.1}
	// 200/3 = 66.67 rounds to 67.
	if got := score.Aggregate(results, weights); got != 67 {
		t.Errorf("expected 67, got %d", got)
	}
}

func TestLookup(t *testing.T) {
	weights := map[string]float64{"known": 0.2, "zero": 0, "oversized": 1.5}

	if w, ok := score.Lookup(weights, "known"); !ok || w != 0.2 {
		t.Errorf("expected (0.2, true), got (%v, %v)", w, ok)
	}
	if _, ok := score.Lookup(weights, "missing"); ok {
		t.Error("missing id should not resolve")
	}
	if _, ok := score.Lookup(weights, "zero"); ok {
		t.Error("non-positive weight should not resolve")
	}
	if _, ok := score.Lookup(weights, "oversized"); ok {
		t.Error("weight above 1 should not resolve")
	}
}

func TestDefaultWeightsCoverAllCriteria(t *testing.T) {
	ids := []string{
		"llms_txt", "ai_txt", "robots_ai_access", "sitemap", "rss_feed",
		"rendering_access", "structured_data", "meta_description",
		"heading_hierarchy", "semantic_html", "open_graph", "canonical_urls",
		"content_depth", "content_velocity", "readability", "citable_facts",
		"faq_content", "comparison_pages", "entity_consistency",
		"author_bios", "internal_linking", "image_alt_text", "https_security",
	}
	if len(ids) != 23 {
		t.Fatalf("expected 23 criterion ids, got %d", len(ids))
	}
	for _, id := range ids {
		if _, ok := score.DefaultWeights[id]; !ok {
			t.Errorf("DefaultWeights is missing %q", id)
		}
	}
	if len(score.DefaultWeights) != len(ids) {
		t.Errorf("DefaultWeights has %d entries, expected %d", len(score.DefaultWeights), len(ids))
	}
}

func TestMergedKeepsUnnamedWeights(t *testing.T) {
	merged := score.Merged(map[string]float64{"llms_txt": 0.30})

	if len(merged) != len(score.DefaultWeights) {
		t.Fatalf("merged table has %d entries, expected %d", len(merged), len(score.DefaultWeights))
	}
	if merged["llms_txt"] != 0.30 {
		t.Errorf("override not applied: got %v", merged["llms_txt"])
	}
	for id, w := range score.DefaultWeights {
		if id == "llms_txt" {
			continue
		}
		if merged[id] != w {
			t.Errorf("weight for %q drifted: got %v, want %v", id, merged[id], w)
		}
	}

	if got := score.Merged(nil); len(got) != len(score.DefaultWeights) {
		t.Errorf("nil overrides should yield the full default table, got %d entries", len(got))
	}
}

func TestAggregateWithRestatedOverrideMatchesDefaults(t *testing.T) {
	// Overriding one criterion with its own default value must not
	// change the aggregate: a sparse override map would drop every
	// other criterion to the default weight and shift the score.
	results := []score.Scored{
		{ID: "llms_txt", Score: 10},
		{ID: "robots_ai_access", Score: 0},
	}

	base := score.Aggregate(results, nil)
	merged := score.Aggregate(results, score.Merged(map[string]float64{
		"llms_txt": score.DefaultWeights["llms_txt"],
	}))

	if base != 44 {
		t.Fatalf("baseline aggregate: got %d, want 44", base)
	}
	if merged != base {
		t.Errorf("restated override changed the aggregate: got %d, want %d", merged, base)
	}
}
