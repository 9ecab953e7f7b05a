// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package criteria

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// aiCrawlers are the answer-engine user agents whose access the audit
// cares about.
var aiCrawlers = []string{
	"GPTBot", "ChatGPT-User", "OAI-SearchBot",
	"ClaudeBot", "Claude-Web", "anthropic-ai",
	"PerplexityBot", "Google-Extended", "CCBot",
	"Bytespider", "Amazonbot", "Applebot-Extended",
	"meta-externalagent", "cohere-ai", "YouBot",
}

var markdownLink = regexp.MustCompile(`(?m)^\s*-\s*\[[^\]]+\]\([^)]+\)`)

// htmlCatchAll applies the shared catch-all contract for plain-text
// resources: a 200 that is actually HTML counts as not found.
func htmlCatchAll(id, label, resource string) Result {
	return Result{
		ID:     id,
		Label:  label,
		Score:  0,
		Status: StatusNotFound,
		Findings: []Finding{{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("HTML page served with status 200 instead of %s — host answers unknown paths with a catch-all page", resource),
			Remediation: fmt.Sprintf("Serve a genuine plain-text %s or return 404 for the path", resource),
		}},
		Priority: PriorityHigh,
	}
}

// EvaluateLLMSTxt scores the llms.txt surface: presence, llms.txt
// structure (title, description, link list) and the llms-full.txt
// companion.
func EvaluateLLMSTxt(snap *snapshot.DomainSnapshot) Result {
	const id, label = "llms_txt", "llms.txt"

	if !snap.LLMSTxt.Present() {
		return notFound(id, label,
			"llms.txt not found — AI assistants have no structured entry point to this site",
			"Publish /llms.txt with a site title, a short description and links to key documents")
	}
	if htmlinfo.LooksLikeHTML(snap.LLMSTxt.Body) {
		return htmlCatchAll(id, label, "llms.txt")
	}

	score, findings := applyRules(4, []rule{
		{delta: 2, severity: SeverityInfo, check: func(s *snapshot.DomainSnapshot) (bool, string) {
			if strings.Contains(s.LLMSTxt.Body, "# ") {
				return true, "llms.txt declares a markdown title"
			}
			return false, ""
		}},
		{delta: 1, severity: SeverityInfo, check: func(s *snapshot.DomainSnapshot) (bool, string) {
			return strings.Contains(s.LLMSTxt.Body, "> "), ""
		}},
		{delta: 2, severity: SeverityInfo, check: func(s *snapshot.DomainSnapshot) (bool, string) {
			return len(markdownLink.FindAllString(s.LLMSTxt.Body, -1)) >= 3, ""
		}},
		{delta: 1, severity: SeverityInfo, check: func(s *snapshot.DomainSnapshot) (bool, string) {
			if s.LLMSFullTxt.Present() && !htmlinfo.LooksLikeHTML(s.LLMSFullTxt.Body) {
				return true, fmt.Sprintf("llms-full.txt also present (%d chars)", len(s.LLMSFullTxt.Body))
			}
			return false, ""
		}},
	}, snap)

	// The link-list rule is written as a bonus; surface a finding when
	// it did not fire.
	if len(markdownLink.FindAllString(snap.LLMSTxt.Body, -1)) < 3 {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "llms.txt lists fewer than three document links",
			Remediation: "List at least three key pages as markdown links so assistants know what to read",
		})
	}

	return finish(id, label, score, findings)
}

// EvaluateAITxt scores the ai.txt policy file.
func EvaluateAITxt(snap *snapshot.DomainSnapshot) Result {
	const id, label = "ai_txt", "ai.txt"

	if !snap.AITxt.Present() {
		return notFound(id, label,
			"ai.txt not found",
			"Publish /ai.txt stating how AI systems may use this site's content")
	}
	if htmlinfo.LooksLikeHTML(snap.AITxt.Body) {
		return htmlCatchAll(id, label, "ai.txt")
	}

	score, findings := applyRules(6, []rule{
		{delta: 2, severity: SeverityInfo, check: func(s *snapshot.DomainSnapshot) (bool, string) {
			lower := strings.ToLower(s.AITxt.Body)
			if strings.Contains(lower, "allow") || strings.Contains(lower, "disallow") {
				return true, "ai.txt carries explicit allow/disallow directives"
			}
			return false, ""
		}},
		{delta: 2, severity: SeverityInfo, check: func(s *snapshot.DomainSnapshot) (bool, string) {
			lower := strings.ToLower(s.AITxt.Body)
			for _, agent := range aiCrawlers {
				if strings.Contains(lower, strings.ToLower(agent)) {
					return true, "ai.txt addresses named AI crawlers"
				}
			}
			return false, ""
		}},
	}, snap)

	return finish(id, label, score, findings)
}

// EvaluateRobotsAIAccess parses robots.txt and tests whether the known
// AI crawlers may fetch the site root. A missing file falls back to
// allow-by-default and scores mid-band.
func EvaluateRobotsAIAccess(snap *snapshot.DomainSnapshot) Result {
	const id, label = "robots_ai_access", "AI crawler access (robots.txt)"

	if !snap.RobotsTxt.Present() {
		return finish(id, label, 5, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "robots.txt not found — crawlers fall back to allow-by-default with no stated policy",
			Remediation: "Publish robots.txt and state an explicit policy for AI crawlers",
		}})
	}
	if htmlinfo.LooksLikeHTML(snap.RobotsTxt.Body) {
		return finish(id, label, 5, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "HTML page served with status 200 instead of robots.txt — host answers unknown paths with a catch-all page",
			Remediation: "Serve a genuine plain-text robots.txt",
		}})
	}

	data, err := robotstxt.FromString(snap.RobotsTxt.Body)
	if err != nil {
		return finish(id, label, 4, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "robots.txt could not be parsed",
			Remediation: "Fix robots.txt syntax so crawler policy is unambiguous",
		}})
	}

	var blocked, allowed []string
	for _, agent := range aiCrawlers {
		if data.TestAgent("/", agent) {
			allowed = append(allowed, agent)
		} else {
			blocked = append(blocked, agent)
		}
	}

	lower := strings.ToLower(snap.RobotsTxt.Body)
	namesAICrawler := false
	for _, agent := range aiCrawlers {
		if strings.Contains(lower, strings.ToLower(agent)) {
			namesAICrawler = true
			break
		}
	}

	switch {
	case len(blocked) == 0 && namesAICrawler:
		return finish(id, label, 10, []Finding{{
			Severity: SeverityInfo,
			Detail:   "robots.txt explicitly addresses AI crawlers and allows them",
		}})
	case len(blocked) == 0:
		return finish(id, label, 9, []Finding{{
			Severity: SeverityInfo,
			Detail:   "no AI crawler is blocked from the site root",
		}})
	case len(allowed) == 0:
		return finish(id, label, 1, []Finding{{
			Severity:    SeverityHigh,
			Detail:      "robots.txt blocks every known AI crawler — the site cannot be read or cited by answer engines",
			Remediation: "Allow at least the AI crawlers whose engines you want citations from",
		}})
	default:
		return finish(id, label, 4, []Finding{{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("robots.txt blocks %d of %d known AI crawlers (%s)", len(blocked), len(aiCrawlers), strings.Join(blocked, ", ")),
			Remediation: "Review the blocked user-agents; blocking an engine's crawler removes the site from its answers",
		}})
	}
}

// EvaluateSitemap scores sitemap presence and entry quality from the
// already-parsed snapshot entries.
func EvaluateSitemap(snap *snapshot.DomainSnapshot) Result {
	const id, label = "sitemap", "XML sitemap"

	if !snap.Sitemap.Present() {
		return notFound(id, label,
			"sitemap.xml not found",
			"Publish /sitemap.xml listing canonical content URLs with lastmod dates")
	}

	if len(snap.SitemapEntries) == 0 {
		if htmlinfo.LooksLikeHTML(snap.Sitemap.Body) {
			return htmlCatchAll(id, label, "sitemap.xml")
		}
		return finish(id, label, 2, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "sitemap.xml exists but no URL entries could be parsed",
			Remediation: "Validate the sitemap XML; crawlers ignore unparseable sitemaps",
		}})
	}

	dated := 0
	for _, e := range snap.SitemapEntries {
		if e.LastMod != nil {
			dated++
		}
	}

	score := 6
	findings := []Finding{{
		Severity: SeverityInfo,
		Detail:   fmt.Sprintf("sitemap resolves to %d URLs, %d with lastmod dates", len(snap.SitemapEntries), dated),
	}}
	if len(snap.SitemapEntries) >= 10 {
		score++
	}
	if len(snap.SitemapEntries) >= 100 {
		score++
	}
	if dated > 0 {
		score++
	}
	if dated == len(snap.SitemapEntries) {
		score++
	} else if dated == 0 {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no sitemap entry carries a lastmod date",
			Remediation: "Emit lastmod so engines can judge freshness without refetching everything",
		})
	}

	return finish(id, label, score, findings)
}

// EvaluateRSSFeed scores feed presence and entry volume.
func EvaluateRSSFeed(snap *snapshot.DomainSnapshot) Result {
	const id, label = "rss_feed", "RSS/Atom feed"

	if !snap.RSS.Present() {
		return notFound(id, label,
			"no RSS or Atom feed found via homepage link or common paths",
			"Publish a feed and advertise it with <link rel=\"alternate\"> on the homepage")
	}

	items := countFeedEntries(snap.RSS.Body)

	score := 6
	var findings []Finding
	switch {
	case items >= 15:
		score += 3
	case items >= 5:
		score += 2
	case items >= 1:
		score++
	default:
		score -= 2
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "feed is reachable but carries no entries",
			Remediation: "Populate the feed; an empty feed signals an abandoned publication",
		})
	}

	if strings.Contains(snap.RSS.Body, "<pubDate") || strings.Contains(snap.RSS.Body, "<updated") {
		score++
	}

	if items > 0 {
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Detail:   fmt.Sprintf("feed carries %d entries", items),
		})
	}

	return finish(id, label, score, findings)
}

// countFeedEntries counts RSS <item> and Atom <entry> opening tags.
// The tag name must end at ">" or whitespace so that microdata
// attributes like itemprop/itemscope in a mislabeled HTML body do not
// inflate the count.
func countFeedEntries(body string) int {
	n := 0
	for _, tag := range []string{"<item", "<entry"} {
		n += strings.Count(body, tag+">") + strings.Count(body, tag+" ")
	}
	return n
}
