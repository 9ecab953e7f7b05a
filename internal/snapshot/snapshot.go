// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package snapshot

import "time"

// Protocol is the scheme the homepage was ultimately reachable on.
type Protocol string

const (
	ProtocolHTTPS Protocol = "https"
	ProtocolHTTP  Protocol = "http"
	ProtocolNone  Protocol = "none"
)

// Page discovery categories. Blog pages come from sitemap sampling; the
// rest come from nav links, known path variants, or deep sitemap URLs.
const (
	CategoryBlog      = "blog"
	CategoryFAQ       = "faq"
	CategoryAbout     = "about"
	CategoryPricing   = "pricing"
	CategoryServices  = "services"
	CategoryContact   = "contact"
	CategoryTeam      = "team"
	CategoryResources = "resources"
	CategoryDocs      = "docs"
	CategoryCases     = "cases"
	CategoryDeep      = "deep"
	CategoryNav       = "nav"
)

// FetchedDocument is one retrieved resource. Body is capped at the fetch
// layer; StatusCode 200 does not guarantee genuine content (catch-all
// hosts serve HTML for any path), so consumers re-validate.
type FetchedDocument struct {
	URL        string `json:"url"`
	FinalURL   string `json:"final_url,omitempty"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"-"`
	Category   string `json:"category,omitempty"`
}

// Present reports whether the document was fetched with a usable body.
func (d *FetchedDocument) Present() bool {
	return d != nil && d.StatusCode == 200 && d.Body != ""
}

// SitemapEntry is one <url> element from the resolved sitemap. LastMod is
// nil when the entry carried no parseable date.
type SitemapEntry struct {
	Loc     string     `json:"loc"`
	LastMod *time.Time `json:"lastmod,omitempty"`
}

// ResolveInfo is advisory DNS data recorded for the raw summary. It never
// influences acquisition control flow.
type ResolveInfo struct {
	Resolved  bool     `json:"resolved"`
	Addresses []string `json:"addresses,omitempty"`
}

// DomainSnapshot is the complete acquisition result for one audited
// domain. It is created once by the orchestrator and is immutable
// afterward, except Pages, which multi-page discovery may append to.
// Evaluators treat the snapshot as read-only.
type DomainSnapshot struct {
	Domain   string   `json:"domain"`
	Protocol Protocol `json:"protocol"`

	// Fatal classifications. Once either is set, every secondary
	// document below stays nil: classification short-circuits
	// acquisition.
	RedirectedTo string `json:"redirected_to,omitempty"`
	ParkedReason string `json:"parked_reason,omitempty"`

	Homepage *FetchedDocument `json:"homepage,omitempty"`

	LLMSTxt     *FetchedDocument `json:"llms_txt,omitempty"`
	LLMSFullTxt *FetchedDocument `json:"llms_full_txt,omitempty"`
	RobotsTxt   *FetchedDocument `json:"robots_txt,omitempty"`
	AITxt       *FetchedDocument `json:"ai_txt,omitempty"`
	Sitemap     *FetchedDocument `json:"sitemap,omitempty"`
	RSS         *FetchedDocument `json:"rss,omitempty"`
	FAQ         *FetchedDocument `json:"faq,omitempty"`

	// SitemapEntries are parsed from the resolved (possibly child)
	// sitemap so downstream consumers never re-parse XML.
	SitemapEntries []SitemapEntry `json:"sitemap_entries,omitempty"`

	// Pages holds sampled blog posts plus discovered pages, each tagged
	// with its discovery category.
	Pages []*FetchedDocument `json:"pages,omitempty"`

	DNS *ResolveInfo `json:"dns,omitempty"`

	// HeadlessRendered records that the homepage document was replaced
	// by its browser-rendered counterpart.
	HeadlessRendered bool `json:"headless_rendered,omitempty"`
}

// PagesByCategory returns the sampled pages carrying the given category.
func (s *DomainSnapshot) PagesByCategory(category string) []*FetchedDocument {
	var out []*FetchedDocument
	for _, p := range s.Pages {
		if p != nil && p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// KnownURLs returns every URL already present in the snapshot, used by
// discovery to deduplicate candidates.
func (s *DomainSnapshot) KnownURLs() map[string]bool {
	known := make(map[string]bool)
	add := func(d *FetchedDocument) {
		if d == nil {
			return
		}
		if d.URL != "" {
			known[d.URL] = true
		}
		if d.FinalURL != "" {
			known[d.FinalURL] = true
		}
	}
	add(s.Homepage)
	add(s.LLMSTxt)
	add(s.LLMSFullTxt)
	add(s.RobotsTxt)
	add(s.AITxt)
	add(s.Sitemap)
	add(s.RSS)
	add(s.FAQ)
	for _, p := range s.Pages {
		add(p)
	}
	return known
}
