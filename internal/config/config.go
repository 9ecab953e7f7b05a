// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port       string
	AppVersion string

	// FetchTimeout bounds one plain HTTP fetch.
	FetchTimeout time.Duration

	// HeadlessEnabled switches the optional browser re-render on.
	HeadlessEnabled bool

	// SPATextThreshold overrides the visible-text shell cutoff when
	// positive; zero keeps the package default.
	SPATextThreshold int

	// WeightOverrides replaces individual criterion weights, parsed
	// from CRITERIA_WEIGHTS=id=0.2,other=0.05. Sparse: merge it over
	// the default table (score.Merged) before aggregating.
	WeightOverrides map[string]float64
}

func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fetchTimeout := 12 * time.Second
	if raw := os.Getenv("FETCH_TIMEOUT_S"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT_S: %q", raw)
		}
		fetchTimeout = time.Duration(secs) * time.Second
	}

	headless := os.Getenv("HEADLESS_RENDER") == "on"

	spaThreshold := 0
	if raw := os.Getenv("SPA_TEXT_THRESHOLD"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid SPA_TEXT_THRESHOLD: %q", raw)
		}
		spaThreshold = n
	}

	overrides, err := parseWeights(os.Getenv("CRITERIA_WEIGHTS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:             port,
		AppVersion:       "1.4.2",
		FetchTimeout:     fetchTimeout,
		HeadlessEnabled:  headless,
		SPATextThreshold: spaThreshold,
		WeightOverrides:  overrides,
	}, nil
}

func parseWeights(raw string) (map[string]float64, error) {
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid CRITERIA_WEIGHTS entry: %q", pair)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil || w <= 0 || w > 1 {
			return nil, fmt.Errorf("invalid weight for %q: %q", parts[0], parts[1])
		}
		out[strings.TrimSpace(parts[0])] = w
	}
	return out, nil
}
