// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package parked_test

import (
	"strings"
	"testing"

	"github.com/AEO-Content-Inc/aeorank/internal/parked"
)

func TestBrandLabel(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"example.com", "example"},
		{"www.example.com", "example"},
		{"blog.example.com", "example"},
		{"example.co.uk", "example"},
		{"shop.example.co.uk", "example"},
		{"example.io", "example"},
		{"localhost", "localhost"},
	}
	for _, tc := range cases {
		if got := parked.BrandLabel(tc.host); got != tc.want {
			t.Errorf("BrandLabel(%q) = %q, want %q", tc.host, got, tc.want)
		}
	}
}

func TestRegistrableDomain(t *testing.T) {
	cases := []struct {
		host string
		want string
	}{
		{"www.example.com", "example.com"},
		{"a.b.example.com", "example.com"},
		{"example.co.uk", "example.co.uk"},
	}
	for _, tc := range cases {
		if got := parked.RegistrableDomain(tc.host); got != tc.want {
			t.Errorf("RegistrableDomain(%q) = %q, want %q", tc.host, got, tc.want)
		}
	}
}

func TestCheckHijackCrossDomainRedirect(t *testing.T) {
	r := parked.CheckHijack("example.com", "https://totally-different.net/landing", "<html></html>")
	if !r.Hijacked {
		t.Fatal("cross-domain redirect should be a hijack")
	}
	if r.RedirectedTo != "https://totally-different.net/landing" {
		t.Errorf("unexpected redirect target %q", r.RedirectedTo)
	}
}

func TestCheckHijackSameSiteRedirects(t *testing.T) {
	cases := []struct {
		name     string
		finalURL string
	}{
		{"www variant", "https://www.example.com/"},
		{"subdomain", "https://app.example.com/home"},
		{"tld migration", "https://example.io/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if r := parked.CheckHijack("example.com", tc.finalURL, ""); r.Hijacked {
				t.Errorf("%s redirect misclassified as hijack", tc.name)
			}
		})
	}
}

func TestCheckHijackJSRedirect(t *testing.T) {
	body := `<html><script>window.location.href = "https://scam-site.ru/buy";</script></html>`
	if r := parked.CheckHijack("example.com", "", body); !r.Hijacked {
		t.Error("embedded JS redirect to a foreign domain should be a hijack")
	}

	sameBrand := `<html><script>window.location = "https://example.io/home";</script></html>`
	if r := parked.CheckHijack("example.com", "", sameBrand); r.Hijacked {
		t.Error("JS redirect within the brand should not be a hijack")
	}
}

func TestCheckHijackJSRedirectBeyondSnippet(t *testing.T) {
	// The JS redirect sits past the inspected snippet and must be
	// ignored.
	body := strings.Repeat("<p>padding</p>", parked.SnippetSize/14+10) +
		`<script>window.location.href = "https://scam-site.ru/";</script>`
	if r := parked.CheckHijack("example.com", "", body); r.Hijacked {
		t.Error("redirect beyond the snippet window should not classify")
	}
}

func TestCheckParked(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		parked bool
	}{
		{"for sale phrase", "<html><body><h1>This domain is for sale!</h1></body></html>", true},
		{"sedo reference", `<html><script src="https://www.sedoparking.com/frmpark.js"></script></html>`, true},
		{"godaddy courtesy", "<html><body>Parked courtesy of GoDaddy</body></html>", true},
		{"expired", "<html><body>This domain has expired and is pending renewal.</body></html>", true},
		{"js lander redirect", `<html><script>window.location.href = "/lander?d=example";</script></html>`, true},
		{"real site", "<html><body><h1>Acme Analytics</h1><p>We sell dashboards.</p></body></html>", false},
		{"real estate copy", "<html><body><p>Homes for sale in Springfield</p></body></html>", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := parked.CheckParked(tc.body)
			if r.IsParked != tc.parked {
				t.Errorf("CheckParked = %v (reason %q), want %v", r.IsParked, r.Reason, tc.parked)
			}
			if tc.parked && r.Reason == "" {
				t.Error("parked classification must carry a reason")
			}
		})
	}
}

func TestCheckParkedReasonNamesSignal(t *testing.T) {
	r := parked.CheckParked(`<html><script>window.location = "/sedoparking/lander";</script></html>`)
	if !r.IsParked {
		t.Fatal("expected parked")
	}
	if !strings.Contains(r.Reason, "/sedoparking") {
		t.Errorf("reason should name the parking path, got %q", r.Reason)
	}
}
