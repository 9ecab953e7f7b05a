// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package acquire builds one consistent DomainSnapshot per audit:
// protocol resolution, hijack/parked classification, concurrent
// secondary resources, sitemap-driven blog sampling and the optional
// headless re-render of SPA shells.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/dnsprobe"
	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/httpclient"
	"github.com/AEO-Content-Inc/aeorank/internal/parked"
	"github.com/AEO-Content-Inc/aeorank/internal/spa"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// Fatal acquisition outcomes. Anything else degrades to an absent
// resource and never aborts the audit.
var (
	ErrUnreachable = errors.New("no reachable protocol")
	ErrHijacked    = errors.New("homepage redirects to another domain")
	ErrParked      = errors.New("domain is parked or for sale")
)

// MinPageChars is the smallest body a sampled page may have. Thin and
// empty responses carry no auditable content.
const MinPageChars = 500

// Renderer re-fetches a page through a browser and reports whether a
// rendered document came back. Satisfied by *headless.Renderer.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (html string, ok bool)
}

type Orchestrator struct {
	Client   *httpclient.Client
	Renderer Renderer
	Prober   *dnsprobe.Prober

	// SPAThreshold overrides spa.VisibleTextThreshold when non-zero.
	SPAThreshold int
}

func New(client *httpclient.Client, renderer Renderer, prober *dnsprobe.Prober) *Orchestrator {
	return &Orchestrator{Client: client, Renderer: renderer, Prober: prober}
}

func (o *Orchestrator) spaThreshold() int {
	if o.SPAThreshold > 0 {
		return o.SPAThreshold
	}
	return spa.VisibleTextThreshold
}

// Acquire fetches everything the evaluators need for one domain. On a
// fatal classification the returned snapshot still carries the homepage
// and the classification fields, so callers can report the reason, but
// every secondary document is absent.
func (o *Orchestrator) Acquire(ctx context.Context, domain string) (*snapshot.DomainSnapshot, error) {
	snap := &snapshot.DomainSnapshot{Domain: domain, Protocol: snapshot.ProtocolNone}

	if o.Prober != nil {
		snap.DNS = o.Prober.Resolve(ctx, domain)
	}

	start := time.Now()
	homepage, protocol := o.resolveHomepage(ctx, domain)
	if homepage == nil {
		return snap, ErrUnreachable
	}
	snap.Protocol = protocol
	snap.Homepage = homepage

	if hijack := parked.CheckHijack(domain, homepage.FinalURL, homepage.Body); hijack.Hijacked {
		snap.RedirectedTo = hijack.RedirectedTo
		return snap, fmt.Errorf("%w: %s", ErrHijacked, hijack.RedirectedTo)
	}
	if park := parked.CheckParked(homepage.Body); park.IsParked {
		snap.ParkedReason = park.Reason
		return snap, fmt.Errorf("%w: %s", ErrParked, park.Reason)
	}

	homepageWasShell := o.maybeRenderHomepage(ctx, snap)

	o.fetchSecondaries(ctx, snap)
	o.sampleBlogPages(ctx, snap)

	if homepageWasShell {
		o.maybeRenderFAQ(ctx, snap)
	}

	slog.Info("Acquisition complete",
		"domain", domain,
		"protocol", protocol,
		"pages", len(snap.Pages),
		"elapsed_s", fmt.Sprintf("%.2f", time.Since(start).Seconds()),
	)
	return snap, nil
}

// resolveHomepage tries HTTPS, then HTTP only after HTTPS failed. A
// reachable protocol means no network error and a status in [200,400).
func (o *Orchestrator) resolveHomepage(ctx context.Context, domain string) (*snapshot.FetchedDocument, snapshot.Protocol) {
	for _, protocol := range []snapshot.Protocol{snapshot.ProtocolHTTPS, snapshot.ProtocolHTTP} {
		doc, err := o.Client.Get(ctx, fmt.Sprintf("%s://%s/", protocol, domain))
		if err != nil {
			slog.Debug("homepage fetch failed", "domain", domain, "protocol", protocol, "error", err)
			continue
		}
		if doc.StatusCode < 200 || doc.StatusCode >= 400 {
			continue
		}
		return doc, protocol
	}
	return nil, snapshot.ProtocolNone
}

// maybeRenderHomepage classifies the homepage and, for shells, asks the
// headless renderer for a replacement. The rendered document is kept
// only when its visible text is strictly longer than the original's.
// Returns whether the homepage was classified as a shell.
func (o *Orchestrator) maybeRenderHomepage(ctx context.Context, snap *snapshot.DomainSnapshot) bool {
	cls := spa.ClassifyAt(snap.Homepage.Body, o.spaThreshold())
	if !cls.IsShell {
		return false
	}
	slog.Debug("homepage is an SPA shell", "domain", snap.Domain, "framework", cls.Framework)

	if replaced, ok := o.renderReplacement(ctx, snap.Homepage); ok {
		snap.Homepage = replaced
		snap.HeadlessRendered = true
	}
	return true
}

func (o *Orchestrator) maybeRenderFAQ(ctx context.Context, snap *snapshot.DomainSnapshot) {
	if !snap.FAQ.Present() {
		return
	}
	if replaced, ok := o.renderReplacement(ctx, snap.FAQ); ok {
		snap.FAQ = replaced
	}
}

// renderReplacement implements the never-regress contract: the rendered
// counterpart replaces the original iff its visible-text length
// strictly exceeds the original's.
func (o *Orchestrator) renderReplacement(ctx context.Context, doc *snapshot.FetchedDocument) (*snapshot.FetchedDocument, bool) {
	if o.Renderer == nil {
		return nil, false
	}
	target := doc.FinalURL
	if target == "" {
		target = doc.URL
	}
	rendered, ok := o.Renderer.Render(ctx, target)
	if !ok {
		return nil, false
	}
	if len(htmlinfo.VisibleText(rendered)) <= len(htmlinfo.VisibleText(doc.Body)) {
		return nil, false
	}
	replaced := *doc
	replaced.Body = rendered
	return &replaced, true
}

type namedDoc struct {
	key string
	doc *snapshot.FetchedDocument
}

// fetchSecondaries fans out the secondary resources: the four fixed
// well-known files concurrently, plus the sequential FAQ and RSS chains
// as one task each. A failing task leaves its document nil and never
// aborts a sibling.
func (o *Orchestrator) fetchSecondaries(ctx context.Context, snap *snapshot.DomainSnapshot) {
	base := fmt.Sprintf("%s://%s", snap.Protocol, snap.Domain)

	results := make(chan namedDoc, 8)
	var wg sync.WaitGroup

	tasks := map[string]func() *snapshot.FetchedDocument{
		"llms_txt":      func() *snapshot.FetchedDocument { return o.fetchResource(ctx, base+"/llms.txt") },
		"llms_full_txt": func() *snapshot.FetchedDocument { return o.fetchResource(ctx, base+"/llms-full.txt") },
		"robots_txt":    func() *snapshot.FetchedDocument { return o.fetchResource(ctx, base+"/robots.txt") },
		"ai_txt":        func() *snapshot.FetchedDocument { return o.fetchResource(ctx, base+"/ai.txt") },
		"sitemap":       func() *snapshot.FetchedDocument { return o.fetchResource(ctx, base+"/sitemap.xml") },
		"faq":           func() *snapshot.FetchedDocument { return o.fetchFAQ(ctx, base) },
		"rss":           func() *snapshot.FetchedDocument { return o.fetchRSS(ctx, base, snap.Homepage) },
	}

	for key, fn := range tasks {
		wg.Add(1)
		go func(key string, fn func() *snapshot.FetchedDocument) {
			defer wg.Done()
			results <- namedDoc{key, fn()}
		}(key, fn)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for nr := range results {
		if nr.doc == nil {
			continue
		}
		switch nr.key {
		case "llms_txt":
			snap.LLMSTxt = nr.doc
		case "llms_full_txt":
			snap.LLMSFullTxt = nr.doc
		case "robots_txt":
			snap.RobotsTxt = nr.doc
		case "ai_txt":
			snap.AITxt = nr.doc
		case "sitemap":
			snap.Sitemap = nr.doc
		case "faq":
			snap.FAQ = nr.doc
		case "rss":
			snap.RSS = nr.doc
		}
	}
}

// fetchResource is one attempt at a well-known file. Non-200 and empty
// responses degrade to absent.
func (o *Orchestrator) fetchResource(ctx context.Context, url string) *snapshot.FetchedDocument {
	doc, err := o.Client.Get(ctx, url)
	if err != nil {
		slog.Debug("secondary fetch failed", "url", url, "error", err)
		return nil
	}
	if doc.StatusCode != 200 || strings.TrimSpace(doc.Body) == "" {
		return nil
	}
	return doc
}
