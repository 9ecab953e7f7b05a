package acquire

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// rssFallbackPaths are tried in order when the homepage advertises no
// feed, first genuine feed body wins.
var rssFallbackPaths = []string{"/feed", "/rss", "/rss.xml", "/feed.xml", "/atom.xml", "/blog/feed"}

// fetchRSS is two-staged: follow the homepage's advertised
// rel="alternate" feed link first, then fall back through a short fixed
// path list. A body only counts as a feed when it carries a feed
// marker; catch-all HTML never does.
func (o *Orchestrator) fetchRSS(ctx context.Context, base string, homepage *snapshot.FetchedDocument) *snapshot.FetchedDocument {
	acceptFeed := func(d *snapshot.FetchedDocument) bool {
		return d.StatusCode == 200 && looksLikeFeed(d.Body)
	}

	if advertised := advertisedFeedURL(homepage, base); advertised != "" {
		if doc := o.Client.FetchFirst(ctx, []string{advertised}, acceptFeed); doc != nil {
			return doc
		}
	}

	urls := make([]string, 0, len(rssFallbackPaths))
	for _, p := range rssFallbackPaths {
		urls = append(urls, base+p)
	}
	return o.Client.FetchFirst(ctx, urls, acceptFeed)
}

func looksLikeFeed(body string) bool {
	return strings.Contains(body, "<rss") ||
		strings.Contains(body, "<feed") ||
		strings.Contains(body, "<channel>")
}

// advertisedFeedURL extracts the first
// <link rel="alternate" type="application/rss+xml|atom+xml"> from the
// homepage, resolved against the page base.
func advertisedFeedURL(homepage *snapshot.FetchedDocument, base string) string {
	if homepage == nil {
		return ""
	}
	doc, err := htmlinfo.Parse(homepage.Body)
	if err != nil {
		return ""
	}

	var href string
	doc.Find(`link[rel="alternate"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		typ, _ := s.Attr("type")
		typ = strings.ToLower(typ)
		if !strings.Contains(typ, "rss+xml") && !strings.Contains(typ, "atom+xml") {
			return true
		}
		if h, ok := s.Attr("href"); ok && strings.TrimSpace(h) != "" {
			href = strings.TrimSpace(h)
			return false
		}
		return true
	})
	if href == "" {
		return ""
	}

	baseURL, err := url.Parse(base + "/")
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
