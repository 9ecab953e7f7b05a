// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package criteria

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// Content velocity constants. The share threshold and minimum sample
// are empirically chosen; override in config rather than re-deriving.
const (
	RecentWindowDays        = 90
	UniformLastModShare     = 0.80
	UniformLastModMinSample = 5
)

// EvaluateContentDepth scores how much substantive text the fetched
// pages expose.
func EvaluateContentDepth(snap *snapshot.DomainSnapshot) Result {
	const id, label = "content_depth", "Content depth"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	hpWords := htmlinfo.WordCount(snap.Homepage.Body)

	var score int
	var findings []Finding
	switch {
	case hpWords >= 1500:
		score = 10
	case hpWords >= 800:
		score = 8
	case hpWords >= 400:
		score = 6
	case hpWords >= 150:
		score = 4
	default:
		score = 1
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("homepage exposes only %d words", hpWords),
			Remediation: "Thin pages give engines nothing to quote; expand the core copy",
		})
	}

	if blogs := snap.PagesByCategory(snapshot.CategoryBlog); len(blogs) > 0 {
		total := 0
		for _, p := range blogs {
			total += htmlinfo.WordCount(p.Body)
		}
		if avg := total / len(blogs); avg >= 600 {
			score++
			findings = append(findings, Finding{
				Severity: SeverityInfo,
				Detail:   fmt.Sprintf("sampled posts average %d words", avg),
			})
		}
	}

	return finish(id, label, score, findings)
}

// EvaluateContentVelocity scores publishing cadence from sitemap
// lastmod dates. When one exact day dominates the dated entries, the
// raw recent count collapses to the number of distinct recent days; a
// single build timestamp stamped on hundreds of URLs is not cadence.
func EvaluateContentVelocity(snap *snapshot.DomainSnapshot) Result {
	const id, label = "content_velocity", "Publishing velocity"

	if !snap.Sitemap.Present() {
		return notFound(id, label,
			"no sitemap — publishing cadence cannot be measured",
			"Publish a sitemap with lastmod dates")
	}

	cutoff := time.Now().AddDate(0, 0, -RecentWindowDays)

	dated := 0
	recent := 0
	dayCounts := make(map[string]int)
	recentDays := make(map[string]bool)
	for _, e := range snap.SitemapEntries {
		if e.LastMod == nil {
			continue
		}
		dated++
		day := e.LastMod.Format("2006-01-02")
		dayCounts[day]++
		if e.LastMod.After(cutoff) {
			recent++
			recentDays[day] = true
		}
	}

	if dated == 0 {
		return finish(id, label, 2, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "sitemap entries carry no lastmod dates",
			Remediation: "Emit lastmod; without dates cadence is invisible to engines",
		}})
	}

	units := recent
	var findings []Finding
	if dated >= UniformLastModMinSample {
		maxDay, maxCount := "", 0
		for day, n := range dayCounts {
			if n > maxCount {
				maxDay, maxCount = day, n
			}
		}
		if float64(maxCount) > UniformLastModShare*float64(dated) {
			units = len(recentDays)
			findings = append(findings, Finding{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("%d of %d dated URLs share the single lastmod day %s — dates look auto-generated by a build step", maxCount, dated, maxDay),
				Remediation: "Emit per-page lastmod values; uniform dates read as no real publishing activity",
			})
		}
	}

	var score int
	switch {
	case units >= 20:
		score = 10
	case units >= 10:
		score = 8
	case units >= 5:
		score = 6
	case units >= 1:
		score = 4
	default:
		score = 1
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("no content updated in the last %d days", RecentWindowDays),
			Remediation: "Engines favor sources with visible recent activity",
		})
	}

	if score >= 4 {
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Detail:   fmt.Sprintf("%d recent publishing units across %d dated URLs", units, dated),
		})
	}

	return finish(id, label, score, findings)
}

var sentenceSplit = regexp.MustCompile(`[.!?]+\s`)

// EvaluateReadability scores sentence economy of the main text.
func EvaluateReadability(snap *snapshot.DomainSnapshot) Result {
	const id, label = "readability", "Readability"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	text := htmlinfo.VisibleText(snap.Homepage.Body)
	if blogs := snap.PagesByCategory(snapshot.CategoryBlog); len(blogs) > 0 {
		text += " " + htmlinfo.VisibleText(blogs[0].Body)
	}

	words := strings.Fields(text)
	if len(words) < 40 {
		return finish(id, label, 3, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "too little text to assess readability",
			Remediation: "Expand the page copy",
		}})
	}

	sentences := sentenceSplit.Split(text, -1)
	n := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	if n == 0 {
		n = 1
	}
	avg := len(words) / n

	var score int
	var findings []Finding
	switch {
	case avg <= 18:
		score = 9
	case avg <= 24:
		score = 7
	case avg <= 30:
		score = 5
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("sentences average %d words", avg),
			Remediation: "Short declarative sentences are easier to lift into answers",
		})
	default:
		score = 3
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("sentences average %d words — dense prose is rarely quoted", avg),
			Remediation: "Break up long sentences; one claim per sentence",
		})
	}

	if strings.Contains(snap.Homepage.Body, "<li") {
		score++
	}

	return finish(id, label, score, findings)
}

var citationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+(?:\.\d+)?%`),
	regexp.MustCompile(`[$€£][\d,]+`),
	regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\baccording to\b`),
	regexp.MustCompile(`(?i)\b(?:study|research|survey|report) (?:found|shows|showed|says|suggests)\b`),
}

// EvaluateCitableFacts counts statistic-shaped statements. Engines cite
// sources that state concrete numbers.
func EvaluateCitableFacts(snap *snapshot.DomainSnapshot) Result {
	const id, label = "citable_facts", "Citable facts and data"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	text := htmlinfo.VisibleText(snap.Homepage.Body)
	for _, p := range snap.PagesByCategory(snapshot.CategoryBlog) {
		text += " " + htmlinfo.VisibleText(p.Body)
	}

	count := 0
	for _, re := range citationPatterns {
		count += len(re.FindAllString(text, -1))
	}

	var score int
	switch {
	case count >= 20:
		score = 10
	case count >= 10:
		score = 8
	case count >= 5:
		score = 6
	case count >= 2:
		score = 4
	case count >= 1:
		score = 3
	default:
		score = 1
	}

	findings := []Finding{{
		Severity: SeverityInfo,
		Detail:   fmt.Sprintf("found %d statistic-shaped statements in sampled text", count),
	}}
	if score < 4 {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "almost no concrete figures, dates or cited sources in the copy",
			Remediation: "State specific numbers and sources; vague copy is not citable",
		})
	}

	return finish(id, label, score, findings)
}

var questionHeading = regexp.MustCompile(`(?i)<h[2-4][^>]*>[^<]*\?`)

// EvaluateFAQContent scores question-and-answer coverage: a dedicated
// FAQ page, FAQPage schema, or question-shaped sections.
func EvaluateFAQContent(snap *snapshot.DomainSnapshot) Result {
	const id, label = "faq_content", "FAQ / Q&A content"

	score := 0
	var findings []Finding

	if snap.FAQ.Present() {
		score = 6
		questions := len(questionHeading.FindAllString(snap.FAQ.Body, -1)) + strings.Count(snap.FAQ.Body, "?</")
		if questions >= 3 {
			score += 2
			findings = append(findings, Finding{
				Severity: SeverityInfo,
				Detail:   "dedicated FAQ page with multiple question sections",
			})
		}
	} else if snap.Homepage.Present() && strings.Contains(strings.ToLower(snap.Homepage.Body), "frequently asked") {
		score = 5
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Detail:   "homepage carries an FAQ section but no dedicated FAQ page was found",
		})
	} else {
		return finish(id, label, 1, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "no FAQ page or Q&A content found",
			Remediation: "Publish an FAQ answering real customer questions; Q&A maps directly onto how users prompt assistants",
		}})
	}

	if hasFAQSchema(snap) {
		score += 2
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no FAQPage schema found",
			Remediation: "Mark the FAQ up with FAQPage JSON-LD so each answer is independently extractable",
		})
	}

	return finish(id, label, score, findings)
}

func hasFAQSchema(snap *snapshot.DomainSnapshot) bool {
	docs := []*snapshot.FetchedDocument{snap.Homepage, snap.FAQ}
	docs = append(docs, snap.Pages...)
	for _, d := range docs {
		if d == nil {
			continue
		}
		if strings.Contains(d.Body, "FAQPage") || strings.Contains(d.Body, "QAPage") {
			return true
		}
	}
	return false
}

// EvaluateComparisonPages looks for the decision-stage pages engines
// pull from when users ask "X vs Y" or "best X" questions.
func EvaluateComparisonPages(snap *snapshot.DomainSnapshot) Result {
	const id, label = "comparison_pages", "Comparison and decision pages"

	score := 1
	var findings []Finding

	if len(snap.PagesByCategory(snapshot.CategoryPricing)) > 0 {
		score += 4
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no pricing page found",
			Remediation: "Publish pricing; assistants asked about cost skip sources that hide it",
		})
	}

	if len(snap.PagesByCategory(snapshot.CategoryCases)) > 0 {
		score += 3
	}

	hasComparison := false
	for _, e := range snap.SitemapEntries {
		lower := strings.ToLower(e.Loc)
		if strings.Contains(lower, "-vs-") || strings.Contains(lower, "/vs/") ||
			strings.Contains(lower, "alternative") || strings.Contains(lower, "compare") {
			hasComparison = true
			break
		}
	}
	if hasComparison {
		score += 3
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no comparison or alternatives pages in the sitemap",
			Remediation: "Publish honest comparison pages; they are the top-cited format for decision queries",
		})
	}

	return finish(id, label, score, findings)
}
