// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package criteria

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/parked"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// homepageDoc parses the homepage, degrading to a "could not fetch"
// result when it is absent. Evaluators never raise.
func homepageDoc(id, label string, snap *snapshot.DomainSnapshot) (*goquery.Document, *Result) {
	if !snap.Homepage.Present() {
		r := notFound(id, label, "homepage could not be fetched", "")
		return nil, &r
	}
	doc, err := htmlinfo.Parse(snap.Homepage.Body)
	if err != nil {
		r := notFound(id, label, "homepage could not be parsed", "")
		return nil, &r
	}
	return doc, nil
}

// jsonLDTypes collects every @type declared in the document's JSON-LD
// blocks, including nested and @graph members.
func jsonLDTypes(doc *goquery.Document) (types []string, malformed int) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			malformed++
			return
		}
		collectTypes(payload, &types)
	})
	return types, malformed
}

func collectTypes(node any, out *[]string) {
	switch v := node.(type) {
	case map[string]any:
		if t, ok := v["@type"].(string); ok {
			*out = append(*out, t)
		}
		if ts, ok := v["@type"].([]any); ok {
			for _, t := range ts {
				if s, ok := t.(string); ok {
					*out = append(*out, s)
				}
			}
		}
		for _, child := range v {
			collectTypes(child, out)
		}
	case []any:
		for _, child := range v {
			collectTypes(child, out)
		}
	}
}

func hasType(types []string, wanted ...string) bool {
	for _, t := range types {
		for _, w := range wanted {
			if strings.EqualFold(t, w) {
				return true
			}
		}
	}
	return false
}

// EvaluateStructuredData scores schema.org JSON-LD coverage across the
// homepage and sampled pages.
func EvaluateStructuredData(snap *snapshot.DomainSnapshot) Result {
	const id, label = "structured_data", "Structured data (JSON-LD)"

	doc, early := homepageDoc(id, label, snap)
	if early != nil {
		return *early
	}

	types, malformed := jsonLDTypes(doc)
	for _, p := range snap.Pages {
		if pd, err := htmlinfo.Parse(p.Body); err == nil {
			pageTypes, pageMalformed := jsonLDTypes(pd)
			types = append(types, pageTypes...)
			malformed += pageMalformed
		}
	}

	if len(types) == 0 && malformed == 0 {
		return finish(id, label, 1, []Finding{{
			Severity:    SeverityHigh,
			Detail:      "no JSON-LD structured data found on any fetched page",
			Remediation: "Add schema.org JSON-LD (Organization, WebSite, Article, FAQPage) so engines can extract entities without guessing",
		}})
	}

	score := 5
	findings := []Finding{{
		Severity: SeverityInfo,
		Detail:   fmt.Sprintf("found %d JSON-LD type declarations", len(types)),
	}}
	if hasType(types, "Organization", "WebSite", "LocalBusiness") {
		score += 2
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no Organization or WebSite schema found",
			Remediation: "Declare the site entity so engines attribute content to the right organization",
		})
	}
	if hasType(types, "FAQPage", "HowTo", "Article", "BlogPosting", "QAPage") {
		score += 2
	}
	if hasType(types, "BreadcrumbList") {
		score++
	}
	if malformed > 0 {
		score -= 2
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("%d JSON-LD blocks fail to parse", malformed),
			Remediation: "Validate JSON-LD; malformed blocks are silently dropped by consumers",
		})
	}

	return finish(id, label, score, findings)
}

// EvaluateMetaDescription scores the homepage title and description
// tags against answer-engine friendly lengths.
func EvaluateMetaDescription(snap *snapshot.DomainSnapshot) Result {
	const id, label = "meta_description", "Title and meta description"

	doc, early := homepageDoc(id, label, snap)
	if early != nil {
		return *early
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	desc = strings.TrimSpace(desc)

	score := 0
	var findings []Finding

	if title == "" {
		findings = append(findings, Finding{
			Severity:    SeverityHigh,
			Detail:      "homepage has no <title>",
			Remediation: "Add a descriptive title; it is the page's primary label in every engine",
		})
	} else {
		score += 4
		if len(title) >= 10 && len(title) <= 70 {
			score++
		} else {
			findings = append(findings, Finding{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("title length %d is outside the 10-70 character range", len(title)),
				Remediation: "Keep titles concise and descriptive",
			})
		}
	}

	if desc == "" {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "homepage has no meta description",
			Remediation: "Add a 50-160 character summary; engines quote it when choosing sources",
		})
	} else {
		score += 4
		if len(desc) >= 50 && len(desc) <= 160 {
			score++
		} else {
			findings = append(findings, Finding{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("meta description length %d is outside the 50-160 character range", len(desc)),
				Remediation: "Rewrite the description as one quotable summary sentence",
			})
		}
	}

	return finish(id, label, score, findings)
}

// EvaluateHeadingHierarchy scores heading structure: one h1, real h2
// sections, no skipped levels.
func EvaluateHeadingHierarchy(snap *snapshot.DomainSnapshot) Result {
	const id, label = "heading_hierarchy", "Heading hierarchy"

	doc, early := homepageDoc(id, label, snap)
	if early != nil {
		return *early
	}

	h1 := doc.Find("h1").Length()
	h2 := doc.Find("h2").Length()
	h3 := doc.Find("h3").Length()

	score := 1
	var findings []Finding

	switch {
	case h1 == 1:
		score += 4
	case h1 > 1:
		score += 2
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("homepage declares %d h1 elements", h1),
			Remediation: "Use exactly one h1 so the page topic is unambiguous",
		})
	default:
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "homepage has no h1",
			Remediation: "Add an h1 stating what the page is about",
		})
	}

	if h2 >= 2 {
		score += 3
	} else if h2 > 0 {
		score++
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no h2 sections found",
			Remediation: "Break content into h2 sections; engines lift answers from well-scoped sections",
		})
	}

	if h3 > 0 && h2 == 0 {
		score--
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "h3 headings appear without any h2 — a skipped level",
			Remediation: "Do not skip heading levels",
		})
	} else if h2 > 0 {
		score += 2
	}

	return finish(id, label, score, findings)
}

// EvaluateSemanticHTML scores use of sectioning landmarks.
func EvaluateSemanticHTML(snap *snapshot.DomainSnapshot) Result {
	const id, label = "semantic_html", "Semantic HTML landmarks"

	doc, early := homepageDoc(id, label, snap)
	if early != nil {
		return *early
	}

	score := 0
	var findings []Finding
	landmarks := []struct {
		tag   string
		worth int
	}{
		{"main", 3},
		{"article", 2},
		{"nav", 2},
		{"header", 1},
		{"footer", 1},
		{"section", 1},
	}
	for _, lm := range landmarks {
		if doc.Find(lm.tag).Length() > 0 {
			score += lm.worth
		} else if lm.worth >= 2 {
			findings = append(findings, Finding{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("no <%s> landmark found", lm.tag),
				Remediation: fmt.Sprintf("Wrap the relevant region in <%s> so parsers can isolate it", lm.tag),
			})
		}
	}

	return finish(id, label, score, findings)
}

// EvaluateOpenGraph scores social/preview card coverage.
func EvaluateOpenGraph(snap *snapshot.DomainSnapshot) Result {
	const id, label = "open_graph", "Open Graph metadata"

	doc, early := homepageDoc(id, label, snap)
	if early != nil {
		return *early
	}

	wanted := []string{"og:title", "og:description", "og:image", "og:type"}
	score := 0
	var findings []Finding
	for _, prop := range wanted {
		if content, ok := doc.Find(fmt.Sprintf(`meta[property=%q]`, prop)).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
			score += 2
		} else {
			findings = append(findings, Finding{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("missing %s", prop),
				Remediation: "Complete the Open Graph set; preview cards feed engine snippet selection",
			})
		}
	}
	if content, ok := doc.Find(`meta[name="twitter:card"]`).First().Attr("content"); ok && strings.TrimSpace(content) != "" {
		score += 2
	}

	return finish(id, label, score, findings)
}

// EvaluateCanonicalURLs scores canonical tag presence on the homepage
// and across sampled pages, and that the canonical points at the
// audited site.
func EvaluateCanonicalURLs(snap *snapshot.DomainSnapshot) Result {
	const id, label = "canonical_urls", "Canonical URLs"

	doc, early := homepageDoc(id, label, snap)
	if early != nil {
		return *early
	}

	href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return finish(id, label, 2, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "homepage declares no canonical URL",
			Remediation: "Add <link rel=\"canonical\"> so duplicate routes collapse into one citable URL",
		}})
	}

	score := 7
	var findings []Finding
	if u, err := url.Parse(href); err == nil && u.Host != "" {
		if parked.RegistrableDomain(u.Host) == parked.RegistrableDomain(snap.Domain) {
			score += 2
		} else {
			score -= 3
			findings = append(findings, Finding{
				Severity:    SeverityHigh,
				Detail:      fmt.Sprintf("homepage canonical points at another domain: %s", href),
				Remediation: "Point the canonical at this site unless the page is a deliberate syndication copy",
			})
		}
	}

	if len(snap.Pages) > 0 {
		with := 0
		for _, p := range snap.Pages {
			if pd, err := htmlinfo.Parse(p.Body); err == nil {
				if h, ok := pd.Find(`link[rel="canonical"]`).First().Attr("href"); ok && strings.TrimSpace(h) != "" {
					with++
				}
			}
		}
		if with*10 >= len(snap.Pages)*8 {
			score++
		} else {
			findings = append(findings, Finding{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("only %d of %d sampled pages declare a canonical URL", with, len(snap.Pages)),
				Remediation: "Emit canonicals site-wide, not just on the homepage",
			})
		}
	}

	return finish(id, label, score, findings)
}
