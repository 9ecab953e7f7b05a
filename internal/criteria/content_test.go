package criteria_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/criteria"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

func recentTime(daysAgo int) *time.Time {
	t := time.Now().AddDate(0, 0, -daysAgo)
	return &t
}

func sitemapSnap(entries []snapshot.SitemapEntry) *snapshot.DomainSnapshot {
	return &snapshot.DomainSnapshot{
		Sitemap:        doc("<urlset></urlset>"),
		SitemapEntries: entries,
	}
}

func TestEvaluateContentDepthBands(t *testing.T) {
	cases := []struct {
		words int
		score int
	}{
		{1600, 10},
		{900, 8},
		{500, 6},
		{200, 4},
		{50, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d words", tc.words), func(t *testing.T) {
			body := "<html><body><p>" + strings.Repeat("word ", tc.words) + "</p></body></html>"
			r := criteria.EvaluateContentDepth(&snapshot.DomainSnapshot{Homepage: doc(body)})
			if r.Score != tc.score {
				t.Errorf("expected %d, got %d", tc.score, r.Score)
			}
		})
	}
}

func TestEvaluateContentDepthBlogBonus(t *testing.T) {
	post := doc("<html><body><article>" + strings.Repeat("word ", 700) + "</article></body></html>")
	post.Category = snapshot.CategoryBlog
	snap := &snapshot.DomainSnapshot{
		Homepage: doc("<html><body><p>" + strings.Repeat("word ", 900) + "</p></body></html>"),
		Pages:    []*snapshot.FetchedDocument{post},
	}
	r := criteria.EvaluateContentDepth(snap)
	if r.Score != 9 {
		t.Errorf("expected 8+1 for substantial posts, got %d", r.Score)
	}
}

func TestEvaluateContentVelocityUniformLastModCollapses(t *testing.T) {
	// 100 URLs all stamped with one recent build date must not read as
	// 100 publishing events.
	shared := recentTime(3)
	entries := make([]snapshot.SitemapEntry, 0, 100)
	for i := 0; i < 100; i++ {
		entries = append(entries, snapshot.SitemapEntry{
			Loc:     fmt.Sprintf("https://example.com/page-%d", i),
			LastMod: shared,
		})
	}

	r := criteria.EvaluateContentVelocity(sitemapSnap(entries))
	if r.Score != 4 {
		t.Errorf("expected 4 for one distinct publishing day, got %d", r.Score)
	}
	found := false
	for _, f := range r.Findings {
		if strings.Contains(f.Detail, "auto-generated") {
			found = true
		}
	}
	if !found {
		t.Error("expected a finding calling out the uniform lastmod dates")
	}
}

func TestEvaluateContentVelocityGenuineCadence(t *testing.T) {
	entries := make([]snapshot.SitemapEntry, 0, 25)
	for i := 0; i < 25; i++ {
		entries = append(entries, snapshot.SitemapEntry{
			Loc:     fmt.Sprintf("https://example.com/blog/post-%d", i),
			LastMod: recentTime(i*3 + 1),
		})
	}

	r := criteria.EvaluateContentVelocity(sitemapSnap(entries))
	// Days 1..73 are within the window: 25 distinct recent units.
	if r.Score != 10 {
		t.Errorf("expected 10 for 25 distinct recent days, got %d", r.Score)
	}
	for _, f := range r.Findings {
		if strings.Contains(f.Detail, "auto-generated") {
			t.Error("genuine spread must not trip the uniform-lastmod rule")
		}
	}
}

func TestEvaluateContentVelocityStale(t *testing.T) {
	entries := []snapshot.SitemapEntry{
		{Loc: "https://example.com/a", LastMod: recentTime(400)},
		{Loc: "https://example.com/b", LastMod: recentTime(500)},
	}
	r := criteria.EvaluateContentVelocity(sitemapSnap(entries))
	if r.Score != 1 {
		t.Errorf("expected 1 with nothing recent, got %d", r.Score)
	}
}

func TestEvaluateContentVelocityNoDates(t *testing.T) {
	entries := []snapshot.SitemapEntry{
		{Loc: "https://example.com/a"},
		{Loc: "https://example.com/b"},
	}
	r := criteria.EvaluateContentVelocity(sitemapSnap(entries))
	if r.Score != 2 {
		t.Errorf("expected 2 for undated sitemap, got %d", r.Score)
	}
}

func TestEvaluateReadability(t *testing.T) {
	short := strings.Repeat("We build dashboards. Teams love them. Setup takes minutes. ", 20)
	r := criteria.EvaluateReadability(&snapshot.DomainSnapshot{
		Homepage: doc("<html><body><p>" + short + "</p></body></html>"),
	})
	if r.Score < 7 {
		t.Errorf("short declarative sentences should pass, got %d", r.Score)
	}

	var dense strings.Builder
	for i := 0; i < 10; i++ {
		dense.WriteString(strings.Repeat("word ", 45))
		dense.WriteString(". ")
	}
	r = criteria.EvaluateReadability(&snapshot.DomainSnapshot{
		Homepage: doc("<html><body><p>" + dense.String() + "</p></body></html>"),
	})
	if r.Score > 4 {
		t.Errorf("45-word sentences should score low, got %d", r.Score)
	}

	r = criteria.EvaluateReadability(&snapshot.DomainSnapshot{
		Homepage: doc("<html><body><p>ten words only</p></body></html>"),
	})
	if r.Score != 3 {
		t.Errorf("expected 3 when there is too little text, got %d", r.Score)
	}
}

func TestEvaluateCitableFacts(t *testing.T) {
	rich := `<html><body><p>According to a 2024 survey, 73% of teams ship faster.
A separate study found costs drop by $12,000 per year. In 2023 adoption grew 41%.
Research shows 18% fewer incidents. According to the report, 9 in 10 renew.</p></body></html>`
	r := criteria.EvaluateCitableFacts(&snapshot.DomainSnapshot{Homepage: doc(rich)})
	if r.Score < 8 {
		t.Errorf("statistic-dense copy should score high, got %d", r.Score)
	}

	vague := `<html><body><p>We are a leading provider of innovative solutions
that empower teams to do their best work every day.</p></body></html>`
	r = criteria.EvaluateCitableFacts(&snapshot.DomainSnapshot{Homepage: doc(vague)})
	if r.Score != 1 {
		t.Errorf("vague copy should bottom out at 1, got %d", r.Score)
	}
}

func TestEvaluateFAQContent(t *testing.T) {
	faqBody := `<html><body>
<h2>How much does it cost?</h2><p>From $49.</p>
<h2>Can I cancel anytime?</h2><p>Yes.</p>
<h2>Do you offer a trial?</h2><p>14 days.</p>
<script type="application/ld+json">{"@type":"FAQPage"}</script>
</body></html>`
	r := criteria.EvaluateFAQContent(&snapshot.DomainSnapshot{FAQ: doc(faqBody)})
	if r.Score != 10 {
		t.Errorf("dedicated FAQ with schema should score 10, got %d", r.Score)
	}

	inline := criteria.EvaluateFAQContent(&snapshot.DomainSnapshot{
		Homepage: doc("<html><body><h2>Frequently Asked Questions</h2></body></html>"),
	})
	if inline.Score != 5 {
		t.Errorf("homepage-only FAQ section should score 5, got %d", inline.Score)
	}

	none := criteria.EvaluateFAQContent(&snapshot.DomainSnapshot{
		Homepage: doc("<html><body><p>no questions here</p></body></html>"),
	})
	if none.Score != 1 {
		t.Errorf("no FAQ anywhere should score 1, got %d", none.Score)
	}
}

func TestEvaluateComparisonPages(t *testing.T) {
	pricing := doc("<html><body>pricing</body></html>")
	pricing.Category = snapshot.CategoryPricing
	cases := doc("<html><body>case study</body></html>")
	cases.Category = snapshot.CategoryCases

	snap := &snapshot.DomainSnapshot{
		Pages: []*snapshot.FetchedDocument{pricing, cases},
		SitemapEntries: []snapshot.SitemapEntry{
			{Loc: "https://example.com/acme-vs-globex"},
		},
	}
	r := criteria.EvaluateComparisonPages(snap)
	// 1 + 4 pricing + 3 cases + 3 comparison = 11, clamped to 10.
	if r.Score != 10 {
		t.Errorf("expected 10, got %d", r.Score)
	}

	bare := criteria.EvaluateComparisonPages(&snapshot.DomainSnapshot{})
	if bare.Score != 1 {
		t.Errorf("expected 1 with nothing decision-stage, got %d", bare.Score)
	}
}
