package acquire

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// MaxBlogSamples caps how many sitemap-discovered posts are fetched.
const MaxBlogSamples = 10

// blogPathMarkers identify obviously-editorial URL paths.
var blogPathMarkers = []string{"/blog/", "/post/", "/posts/", "/article/", "/articles/", "/news/", "/insights/", "/stories/", "/journal/"}

// DeniedPathSegments excludes taxonomy, utility and asset URLs from
// content sampling. Multi-page discovery applies the same list.
var DeniedPathSegments = []string{
	"/tag/", "/tags/", "/category/", "/categories/", "/author/",
	"/feed", "/admin", "/wp-admin", "/wp-content", "/wp-json",
	"/page/", "/search", "/cart", "/checkout", "/login", "/signup",
	"/privacy", "/terms", "/sitemap", ".xml", ".pdf", ".jpg", ".png",
	".svg", ".css", ".js",
}

type sitemapDoc struct {
	XMLName  xml.Name
	URLs     []sitemapNode `xml:"url"`
	Sitemaps []sitemapNode `xml:"sitemap"`
}

type sitemapNode struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// parseSitemap tolerates malformed XML by returning nothing. For a
// sitemap index, children holds child sitemap URLs and entries is empty.
func parseSitemap(body string) (entries []snapshot.SitemapEntry, children []string) {
	var doc sitemapDoc
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, nil
	}

	for _, sm := range doc.Sitemaps {
		loc := strings.TrimSpace(sm.Loc)
		if loc != "" {
			children = append(children, loc)
		}
	}
	if len(children) > 0 {
		return nil, children
	}

	for _, u := range doc.URLs {
		loc := strings.TrimSpace(u.Loc)
		if loc == "" {
			continue
		}
		entries = append(entries, snapshot.SitemapEntry{Loc: loc, LastMod: parseLastMod(u.LastMod)})
	}
	return entries, nil
}

var lastModLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseLastMod(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range lastModLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// pickChildSitemap prefers the child most resembling a post/blog/
// article sitemap, else the first.
func pickChildSitemap(children []string) string {
	for _, c := range children {
		lower := strings.ToLower(c)
		if strings.Contains(lower, "post") || strings.Contains(lower, "blog") || strings.Contains(lower, "article") {
			return c
		}
	}
	return children[0]
}

// sampleBlogPages resolves the sitemap (following one index level),
// records its entries on the snapshot, and fetches up to MaxBlogSamples
// post-shaped URLs. Only 200 responses with bodies over MinPageChars
// survive, tagged category "blog".
func (o *Orchestrator) sampleBlogPages(ctx context.Context, snap *snapshot.DomainSnapshot) {
	if snap.Sitemap == nil {
		return
	}

	entries, children := parseSitemap(snap.Sitemap.Body)
	if len(children) > 0 {
		child := pickChildSitemap(children)
		if doc := o.fetchResource(ctx, child); doc != nil {
			entries, _ = parseSitemap(doc.Body)
		}
	}
	snap.SitemapEntries = entries
	if len(entries) == 0 {
		return
	}

	candidates := blogCandidates(entries)
	if len(candidates) > MaxBlogSamples {
		candidates = candidates[:MaxBlogSamples]
	}
	if len(candidates) == 0 {
		return
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)
	for _, entry := range candidates {
		g.Go(func() error {
			doc, err := o.Client.Get(gctx, entry.Loc)
			if err != nil {
				slog.Debug("blog sample fetch failed", "url", entry.Loc, "error", err)
				return nil
			}
			if doc.StatusCode != 200 || len(doc.Body) <= MinPageChars {
				return nil
			}
			doc.Category = snapshot.CategoryBlog
			mu.Lock()
			snap.Pages = append(snap.Pages, doc)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// blogCandidates keeps entries whose path matches a blog marker or has
// at least two segments, minus the denylist, sorted most-recent first
// with dated entries before undated ones.
func blogCandidates(entries []snapshot.SitemapEntry) []snapshot.SitemapEntry {
	var out []snapshot.SitemapEntry
	for _, e := range entries {
		path := urlPath(e.Loc)
		if path == "" || IsDeniedPath(path) {
			continue
		}
		if !matchesBlogPath(path) && pathSegments(path) < 2 {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastMod, out[j].LastMod
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})
	return out
}

func matchesBlogPath(path string) bool {
	lower := strings.ToLower(path)
	if !strings.HasSuffix(lower, "/") {
		lower += "/"
	}
	for _, m := range blogPathMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsDeniedPath reports whether a URL path hits the sampling denylist.
func IsDeniedPath(path string) bool {
	lower := strings.ToLower(path)
	for _, d := range DeniedPathSegments {
		if strings.Contains(lower, d) {
			return true
		}
	}
	return false
}

func urlPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}

func pathSegments(path string) int {
	n := 0
	for _, seg := range strings.Split(path, "/") {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}
