// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package discover samples additional pages beyond the acquisition set:
// internal nav links, well-known page-category paths, and deep sitemap
// content. Discovery is append-only on the snapshot's page list.
package discover

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/AEO-Content-Inc/aeorank/internal/acquire"
	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/httpclient"
	"github.com/AEO-Content-Inc/aeorank/internal/parked"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

const (
	// MaxNavPages bounds how many nav-discovered links are fetched.
	MaxNavPages = 8
	// MaxDeepPages bounds the evenly-spaced deep sitemap sample.
	MaxDeepPages = 6
	// phaseTimeout is shared by every discovery fetch.
	phaseTimeout = 15 * time.Second
)

// categoryVariants maps the eight fixed page categories to their path
// variants, in preference order. The first variant is the fallback when
// no nav link matches.
var categoryVariants = []struct {
	category string
	paths    []string
}{
	{snapshot.CategoryAbout, []string{"/about", "/about-us", "/company", "/who-we-are"}},
	{snapshot.CategoryPricing, []string{"/pricing", "/plans", "/prices"}},
	{snapshot.CategoryServices, []string{"/services", "/solutions", "/products", "/what-we-do"}},
	{snapshot.CategoryContact, []string{"/contact", "/contact-us", "/get-in-touch"}},
	{snapshot.CategoryTeam, []string{"/team", "/our-team", "/people", "/leadership"}},
	{snapshot.CategoryResources, []string{"/resources", "/library", "/guides"}},
	{snapshot.CategoryDocs, []string{"/docs", "/documentation", "/developers"}},
	{snapshot.CategoryCases, []string{"/case-studies", "/customers", "/success-stories", "/portfolio"}},
}

// utilityPathPrefixes are nav destinations that never carry auditable
// marketing or content copy.
var utilityPathPrefixes = []string{
	"/api", "/static", "/assets", "/cdn", "/media", "/images",
	"/auth", "/login", "/logout", "/signin", "/signup", "/register",
	"/account", "/admin", "/cart", "/checkout", "/search",
	"/privacy", "/terms", "/legal", "/cookie",
}

type candidate struct {
	url      string
	category string
}

type Discoverer struct {
	Client *httpclient.Client
}

func New(client *httpclient.Client) *Discoverer {
	return &Discoverer{Client: client}
}

// Discover fetches candidate pages in parallel under one shared timeout
// and appends every body longer than acquire.MinPageChars to the
// snapshot, tagged with its discovery category.
func (d *Discoverer) Discover(ctx context.Context, snap *snapshot.DomainSnapshot) {
	if snap == nil || snap.Homepage == nil {
		return
	}

	base := string(snap.Protocol) + "://" + snap.Domain
	known := snap.KnownURLs()

	navPaths := navLinkPaths(snap)
	candidates := assemble(base, navPaths, snap.SitemapEntries, known)
	if len(candidates) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, phaseTimeout)
	defer cancel()

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(6)
	for _, c := range candidates {
		g.Go(func() error {
			doc, err := d.Client.Get(gctx, c.url)
			if err != nil {
				slog.Debug("discovery fetch failed", "url", c.url, "error", err)
				return nil
			}
			if doc.StatusCode != 200 || len(doc.Body) <= acquire.MinPageChars {
				return nil
			}
			doc.Category = c.category
			mu.Lock()
			snap.Pages = append(snap.Pages, doc)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// assemble merges the three candidate sources, deduplicating against
// URLs the snapshot already holds.
func assemble(base string, navPaths []string, entries []snapshot.SitemapEntry, known map[string]bool) []candidate {
	var out []candidate
	seen := make(map[string]bool)
	add := func(u, category string) {
		if u == "" || seen[u] || known[u] {
			return
		}
		seen[u] = true
		out = append(out, candidate{url: u, category: category})
	}

	// Category variants first: a nav link matching a variant wins over
	// the variant's fixed fallback path.
	variantPaths := make(map[string]bool)
	for _, cv := range categoryVariants {
		for _, p := range cv.paths {
			variantPaths[p] = true
		}
	}
	for _, cv := range categoryVariants {
		chosen := cv.paths[0]
	match:
		for _, p := range cv.paths {
			for _, nav := range navPaths {
				if pathMatches(nav, p) {
					chosen = nav
					break match
				}
			}
		}
		add(base+chosen, cv.category)
	}

	navCount := 0
	for _, p := range navPaths {
		if navCount >= MaxNavPages {
			break
		}
		if variantPaths[strings.TrimSuffix(p, "/")] {
			continue
		}
		add(base+p, snapshot.CategoryNav)
		navCount++
	}

	for _, loc := range deepContentURLs(entries, variantPaths) {
		add(loc, snapshot.CategoryDeep)
	}

	return out
}

func pathMatches(navPath, variant string) bool {
	nav := strings.ToLower(strings.TrimSuffix(navPath, "/"))
	return nav == variant || strings.HasSuffix(nav, variant)
}

// navLinkPaths extracts same-site <nav> anchor paths from the homepage,
// excluding root, fragment-only, file-extension and utility paths.
func navLinkPaths(snap *snapshot.DomainSnapshot) []string {
	doc, err := htmlinfo.Parse(snap.Homepage.Body)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var paths []string
	doc.Find("nav a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}

		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if u.Host != "" && parked.RegistrableDomain(u.Host) != parked.RegistrableDomain(snap.Domain) {
			return
		}

		path := u.Path
		if path == "" || path == "/" {
			return
		}
		if hasFileExtension(path) || isUtilityPath(path) {
			return
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	})
	return paths
}

func hasFileExtension(path string) bool {
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}

func isUtilityPath(path string) bool {
	lower := strings.ToLower(path)
	for _, p := range utilityPathPrefixes {
		if lower == p || strings.HasPrefix(lower, p+"/") || strings.HasPrefix(lower, p+"-") {
			return true
		}
	}
	return false
}

// deepContentURLs picks up to MaxDeepPages evenly-spaced non-blog
// sitemap URLs with 1–3 path segments, skipping the sampling denylist
// and the fixed page-variant paths.
func deepContentURLs(entries []snapshot.SitemapEntry, variantPaths map[string]bool) []string {
	var pool []string
	for _, e := range entries {
		u, err := url.Parse(e.Loc)
		if err != nil {
			continue
		}
		segs := segmentCount(u.Path)
		if segs < 1 || segs > 3 {
			continue
		}
		if acquire.IsDeniedPath(u.Path) || isBlogPath(u.Path) {
			continue
		}
		if variantPaths[strings.TrimSuffix(strings.ToLower(u.Path), "/")] {
			continue
		}
		pool = append(pool, e.Loc)
	}
	if len(pool) == 0 {
		return nil
	}
	sort.Strings(pool)

	if len(pool) <= MaxDeepPages {
		return pool
	}
	step := len(pool) / MaxDeepPages
	out := make([]string, 0, MaxDeepPages)
	for i := 0; i < MaxDeepPages; i++ {
		out = append(out, pool[i*step])
	}
	return out
}

func isBlogPath(path string) bool {
	lower := strings.ToLower(path)
	for _, m := range []string{"/blog", "/post", "/article", "/news"} {
		if strings.HasPrefix(lower, m) || strings.Contains(lower, m+"/") {
			return true
		}
	}
	return false
}

func segmentCount(path string) int {
	n := 0
	for _, seg := range strings.Split(path, "/") {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}
