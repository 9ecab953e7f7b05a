// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package spa_test

import (
	"strings"
	"testing"

	"github.com/AEO-Content-Inc/aeorank/internal/spa"
)

func longText(words int) string {
	return strings.Repeat("substantive visible content ", words)
}

func TestIsShellRichPageNeverShell(t *testing.T) {
	// Plenty of visible text wins even when shell indicators are
	// present in the markup.
	body := `<html><body><div id="root"></div><p>` + longText(60) + `</p>
		<script src="/static/js/main.0a1b2c3d.js"></script></body></html>`
	if spa.IsShell(body) {
		t.Error("page with visible text over the threshold must never be a shell")
	}
}

func TestIsShellCRAShell(t *testing.T) {
	body := `<html><body><div id="root"></div>
		<script src="/static/js/main.8f7e6d5c.js"></script></body></html>`
	if !spa.IsShell(body) {
		t.Error("empty CRA mount with bundle reference should be a shell")
	}
}

func TestIsShellPlainThinPage(t *testing.T) {
	body := `<html><body><p>Under construction.</p></body></html>`
	if spa.IsShell(body) {
		t.Error("thin page with no shell indicator is not a shell")
	}
}

func TestClassifyFrameworks(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		framework string
	}{
		{
			"next",
			`<html><body><div id="__next"></div><script>window.__NEXT_DATA__={}</script></body></html>`,
			"next",
		},
		{
			"nuxt",
			`<html><body><div id="__nuxt"></div><script>window.__NUXT__={}</script></body></html>`,
			"nuxt",
		},
		{
			"vue mount",
			`<html><body><div id="app"></div><script src="/js/chunk.js"></script></body></html>`,
			"vue",
		},
		{
			"angular",
			`<html><body><app-root ng-version="17.1.0"></app-root></body></html>`,
			"angular",
		},
		{
			"react root",
			`<html><body><div id="root"></div><script src="/static/js/main.abc123de.js"></script></body></html>`,
			"react",
		},
		{
			"vite bundle",
			`<html><body><div id="mount"></div><script src="/assets/index-C3xKq9Zw.js"></script><noscript>Please enable JavaScript to run this app.</noscript></body></html>`,
			"vite",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cls := spa.Classify(tc.body)
			if !cls.IsShell {
				t.Fatal("expected a shell classification")
			}
			if cls.Framework != tc.framework {
				t.Errorf("expected framework %q, got %q", tc.framework, cls.Framework)
			}
		})
	}
}

func TestClassifyNonShellHasNoFramework(t *testing.T) {
	body := `<html><body><p>` + longText(80) + `</p></body></html>`
	cls := spa.Classify(body)
	if cls.IsShell {
		t.Error("content page classified as shell")
	}
	if cls.Framework != "" {
		t.Errorf("non-shell must carry no framework, got %q", cls.Framework)
	}
}

func TestClassifyAtThreshold(t *testing.T) {
	body := `<html><body><div id="root"></div><p>short text</p>
		<script src="/static/js/main.00ff00aa.js"></script></body></html>`

	if !spa.IsShellAt(body, spa.VisibleTextThreshold) {
		t.Error("expected shell at default threshold")
	}
	if spa.IsShellAt(body, 5) {
		t.Error("lowering the threshold below the visible text must clear the shell call")
	}
}
