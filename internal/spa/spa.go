// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package spa judges whether a served HTML document is an unrendered
// client-side application shell, and fingerprints the framework.
package spa

import (
	"regexp"
	"strings"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
)

// VisibleTextThreshold is the visible-text length at or above which a
// page is never considered a shell. Empirically chosen; override via
// config, not by re-deriving.
const VisibleTextThreshold = 500

var (
	emptyMountDiv = regexp.MustCompile(`(?i)<div[^>]*\bid=["'](root|app|__next|__nuxt|__vue)["'][^>]*>\s*</div>`)
	craBundle     = regexp.MustCompile(`/static/js/main\.[0-9a-f]+\.js`)
	viteBundle    = regexp.MustCompile(`/assets/index-[\w]+\.js`)
	noscriptWarn  = regexp.MustCompile(`(?i)<noscript>[^<]*(enable javascript|javascript is required|javascript to run)`)
)

// Classification is the rendering judgment for one document. Framework
// is empty when the page is a shell no indicator could attribute.
type Classification struct {
	IsShell   bool   `json:"is_shell"`
	Framework string `json:"framework,omitempty"`
}

// IsShell reports whether the document is a client-rendered mount point
// with too little visible text to audit as served.
func IsShell(body string) bool {
	return IsShellAt(body, VisibleTextThreshold)
}

// IsShellAt is IsShell with an explicit visible-text threshold.
func IsShellAt(body string, threshold int) bool {
	if len(htmlinfo.VisibleText(body)) >= threshold {
		return false
	}
	return hasShellIndicator(body)
}

func hasShellIndicator(body string) bool {
	return emptyMountDiv.MatchString(body) ||
		strings.Contains(body, "__NEXT_DATA__") ||
		strings.Contains(body, "__NUXT__") ||
		craBundle.MatchString(body) ||
		viteBundle.MatchString(body) ||
		strings.Contains(body, "data-reactroot") ||
		strings.Contains(body, "ng-version") ||
		noscriptWarn.MatchString(body)
}

// Classify runs IsShell and, for shells, fingerprints the framework by
// testing indicators in fixed priority. The first match wins.
func Classify(body string) Classification {
	return ClassifyAt(body, VisibleTextThreshold)
}

func ClassifyAt(body string, threshold int) Classification {
	if !IsShellAt(body, threshold) {
		return Classification{}
	}

	checks := []struct {
		framework string
		match     func(string) bool
	}{
		{"next", func(b string) bool {
			return strings.Contains(b, "__NEXT_DATA__") || mountDivID(b) == "__next"
		}},
		{"nuxt", func(b string) bool {
			return strings.Contains(b, "__NUXT__") || mountDivID(b) == "__nuxt"
		}},
		{"vue", func(b string) bool {
			id := mountDivID(b)
			return id == "__vue" || id == "app"
		}},
		{"angular", func(b string) bool {
			return strings.Contains(b, "ng-version")
		}},
		{"react", func(b string) bool {
			return strings.Contains(b, "data-reactroot")
		}},
		{"react", func(b string) bool {
			return craBundle.MatchString(b) || mountDivID(b) == "root"
		}},
		{"vite", func(b string) bool {
			return viteBundle.MatchString(b)
		}},
	}

	for _, c := range checks {
		if c.match(body) {
			return Classification{IsShell: true, Framework: c.framework}
		}
	}
	return Classification{IsShell: true}
}

func mountDivID(body string) string {
	m := emptyMountDiv.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}
