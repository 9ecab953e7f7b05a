package acquire

import (
	"testing"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

func TestParseSitemapEntries(t *testing.T) {
	body := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc><lastmod>2026-07-01</lastmod></url>
  <url><loc>https://example.com/blog/alpha</loc><lastmod>2026-08-15T10:30:00Z</lastmod></url>
  <url><loc>https://example.com/pricing</loc></url>
  <url><loc>  </loc></url>
</urlset>`

	entries, children := parseSitemap(body)
	if children != nil {
		t.Fatalf("expected no children, got %v", children)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].LastMod == nil || entries[0].LastMod.Format("2006-01-02") != "2026-07-01" {
		t.Errorf("date-only lastmod not parsed: %v", entries[0].LastMod)
	}
	if entries[1].LastMod == nil {
		t.Error("RFC3339 lastmod not parsed")
	}
	if entries[2].LastMod != nil {
		t.Error("missing lastmod should stay nil")
	}
}

func TestParseSitemapIndex(t *testing.T) {
	body := `<?xml version="1.0"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/page-sitemap.xml</loc></sitemap>
  <sitemap><loc>https://example.com/post-sitemap.xml</loc></sitemap>
</sitemapindex>`

	entries, children := parseSitemap(body)
	if entries != nil {
		t.Errorf("index should carry no entries, got %d", len(entries))
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if got := pickChildSitemap(children); got != "https://example.com/post-sitemap.xml" {
		t.Errorf("expected the post sitemap to be preferred, got %q", got)
	}
}

func TestParseSitemapMalformed(t *testing.T) {
	entries, children := parseSitemap("this is not xml <<<")
	if entries != nil || children != nil {
		t.Error("malformed XML should yield nothing")
	}
}

func TestParseLastModLayouts(t *testing.T) {
	cases := []string{
		"2026-08-15T10:30:00Z",
		"2026-08-15T10:30:00",
		"2026-08-15 10:30:00",
		"2026-08-15",
	}
	for _, raw := range cases {
		if parseLastMod(raw) == nil {
			t.Errorf("layout %q not accepted", raw)
		}
	}
	if parseLastMod("August 15, 2026") != nil {
		t.Error("prose date should not parse")
	}
	if parseLastMod("") != nil {
		t.Error("empty lastmod should stay nil")
	}
}

func TestBlogCandidates(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fresh := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	entries := []snapshot.SitemapEntry{
		{Loc: "https://example.com/blog/old-post", LastMod: &old},
		{Loc: "https://example.com/blog/new-post", LastMod: &fresh},
		{Loc: "https://example.com/blog/undated-post"},
		{Loc: "https://example.com/tag/golang"},
		{Loc: "https://example.com/assets/logo.png"},
		{Loc: "https://example.com/"},
	}

	got := blogCandidates(entries)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %v", len(got), got)
	}
	if got[0].Loc != "https://example.com/blog/new-post" {
		t.Errorf("freshest post should sort first, got %q", got[0].Loc)
	}
	if got[2].Loc != "https://example.com/blog/undated-post" {
		t.Errorf("undated entries should sort last, got %q", got[2].Loc)
	}
}

func TestIsDeniedPath(t *testing.T) {
	denied := []string{"/tag/go", "/category/news", "/wp-admin/options", "/feed", "/style.css", "/sitemap.xml"}
	for _, p := range denied {
		if !IsDeniedPath(p) {
			t.Errorf("%q should be denied", p)
		}
	}
	allowed := []string{"/blog/post", "/pricing", "/about-us"}
	for _, p := range allowed {
		if IsDeniedPath(p) {
			t.Errorf("%q should be allowed", p)
		}
	}
}
