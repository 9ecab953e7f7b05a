// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package audit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AEO-Content-Inc/aeorank/internal/acquire"
	"github.com/AEO-Content-Inc/aeorank/internal/discover"
	"github.com/AEO-Content-Inc/aeorank/internal/headless"
	"github.com/AEO-Content-Inc/aeorank/internal/httpclient"
)

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Example.com", "example.com"},
		{"https://example.com/path", "example.com"},
		{"http://example.com", "example.com"},
		{"example.com.", "example.com"},
		{"  example.com  ", "example.com"},
	}
	for _, tc := range cases {
		if got := normalizeDomain(tc.in); got != tc.want {
			t.Errorf("normalizeDomain(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFatalReason(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: https://x.net", acquire.ErrHijacked), ReasonHijacked},
		{fmt.Errorf("%w: for sale", acquire.ErrParked), ReasonParked},
		{acquire.ErrUnreachable, ReasonUnreachable},
		{fmt.Errorf("weird"), ReasonUnreachable},
	}
	for _, tc := range cases {
		if got := fatalReason(tc.err); got != tc.want {
			t.Errorf("fatalReason(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func newTestAuditor() *Auditor {
	client := httpclient.New()
	client.AllowPrivateTargets = true
	orc := acquire.New(client, headless.New(false), nil)
	return New(orc, discover.New(client))
}

func TestRunCompleteAudit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><head><title>Acme Analytics</title>
<meta name="description" content="Acme Analytics builds self-serve dashboards for operations teams with clear pricing.">
</head><body><main><h1>Acme</h1><p>`+strings.Repeat("We build dashboards for teams. ", 50)+`</p></main></body></html>`)
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nAllow: /\n")
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()
	domain := strings.TrimPrefix(ts.URL, "http://")

	report, err := newTestAuditor().Run(context.Background(), domain)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.AuditID == "" {
		t.Error("report must carry an audit id")
	}
	if report.FatalReason != "" {
		t.Errorf("unexpected fatal reason %q", report.FatalReason)
	}
	if len(report.Criteria) != 23 {
		t.Fatalf("expected 23 criteria, got %d", len(report.Criteria))
	}
	if report.Score < 0 || report.Score > 100 {
		t.Errorf("aggregate %d out of [0,100]", report.Score)
	}
	if report.Summary["has_robots_txt"] != true {
		t.Error("summary should record robots.txt presence")
	}
	if report.Summary["has_llms_txt"] != false {
		t.Error("summary should record llms.txt absence")
	}
	if report.DurationS <= 0 {
		t.Error("duration not recorded")
	}
}

func TestRunFatalStillReports(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>This domain is for sale</body></html>")
	}))
	defer ts.Close()
	domain := strings.TrimPrefix(ts.URL, "http://")

	report, err := newTestAuditor().Run(context.Background(), domain)
	if err == nil {
		t.Fatal("expected a fatal error")
	}
	if report.FatalReason != ReasonParked {
		t.Errorf("expected reason %q, got %q", ReasonParked, report.FatalReason)
	}
	if report.FatalDetail == "" {
		t.Error("fatal detail should carry the classification text")
	}
	if len(report.Criteria) != 0 {
		t.Errorf("fatal report must carry no criteria, got %d", len(report.Criteria))
	}
	if report.Score != 0 {
		t.Errorf("fatal report score should be 0, got %d", report.Score)
	}
	if _, ok := report.Summary["parked_reason"]; !ok {
		t.Error("summary should carry the parked reason")
	}
}

func TestBuildSummaryNilSnapshot(t *testing.T) {
	if s := buildSummary(nil); len(s) != 0 {
		t.Errorf("nil snapshot should yield an empty summary, got %v", s)
	}
}
