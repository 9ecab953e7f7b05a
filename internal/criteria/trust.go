// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package criteria

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/parked"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// PhoneContextWindow is how close (in characters) a telephone keyword
// must sit to a phone-shaped match for the match to count.
const PhoneContextWindow = 100

var (
	phoneShaped  = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?(?:\(\d{2,4}\)[-.\s]?)?\d{3,4}[-.\s]\d{3,4}(?:[-.\s]\d{2,4})?`)
	phoneContext = regexp.MustCompile(`(?i)(phone|call|tel:|contact us|fax|dial)`)
)

// EvaluateEntityConsistency checks that the organization presents one
// consistent identity: name across title/schema, and a real phone
// number. A phone-shaped match only counts when a global signal (tel:
// link or schema "telephone") or a nearby context keyword backs it up,
// so postal codes and SKUs do not masquerade as phone numbers.
func EvaluateEntityConsistency(snap *snapshot.DomainSnapshot) Result {
	const id, label = "entity_consistency", "Entity consistency"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	bodies := []string{snap.Homepage.Body}
	for _, p := range snap.PagesByCategory(snapshot.CategoryContact) {
		bodies = append(bodies, p.Body)
	}
	if snap.FAQ.Present() {
		bodies = append(bodies, snap.FAQ.Body)
	}
	combined := strings.Join(bodies, "\n")

	globalSignal := strings.Contains(combined, "tel:") || strings.Contains(combined, `"telephone"`)

	accepted := acceptedPhones(combined, globalSignal)

	score := 3
	var findings []Finding

	if len(accepted) > 0 {
		score += 3
		findings = append(findings, Finding{
			Severity: SeverityInfo,
			Detail:   fmt.Sprintf("found %d corroborated phone number mentions", len(accepted)),
		})
		if distinct := distinctNumbers(accepted); distinct > 1 {
			score--
			findings = append(findings, Finding{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("%d different phone numbers appear across pages", distinct),
				Remediation: "Present one canonical contact number; conflicting numbers erode entity confidence",
			})
		}
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no corroborated phone number found",
			Remediation: "Publish a contact number as a tel: link or in Organization schema",
		})
	}

	if strings.Contains(combined, "tel:") {
		score += 2
	}
	if strings.Contains(combined, `"telephone"`) && strings.Contains(combined, "Organization") {
		score += 2
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "Organization schema carries no telephone field",
			Remediation: "Add telephone to the Organization JSON-LD so engines bind the number to the entity",
		})
	}

	return finish(id, label, score, findings)
}

// acceptedPhones returns phone-shaped matches that pass the context
// rule. Each scan uses a fresh match; there is no shared matcher state.
func acceptedPhones(text string, globalSignal bool) []string {
	locs := phoneShaped.FindAllStringIndex(text, -1)
	var out []string
	for _, loc := range locs {
		match := text[loc[0]:loc[1]]
		if digitCount(match) < 7 {
			continue
		}
		if globalSignal {
			out = append(out, match)
			continue
		}
		lo := loc[0] - PhoneContextWindow
		if lo < 0 {
			lo = 0
		}
		hi := loc[1] + PhoneContextWindow
		if hi > len(text) {
			hi = len(text)
		}
		if phoneContext.MatchString(text[lo:hi]) {
			out = append(out, match)
		}
	}
	return out
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func distinctNumbers(matches []string) int {
	seen := make(map[string]bool)
	for _, m := range matches {
		var digits strings.Builder
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits.WriteRune(r)
			}
		}
		seen[digits.String()] = true
	}
	return len(seen)
}

var bylinePattern = regexp.MustCompile(`(?i)\bby [A-Z][a-z]+ [A-Z]`)

// EvaluateAuthorBios scores visible authorship: bylines on posts,
// Person schema, and a team or about page.
func EvaluateAuthorBios(snap *snapshot.DomainSnapshot) Result {
	const id, label = "author_bios", "Author attribution"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	score := 1
	var findings []Finding

	blogs := snap.PagesByCategory(snapshot.CategoryBlog)
	authored := 0
	for _, p := range blogs {
		if strings.Contains(p.Body, `rel="author"`) ||
			strings.Contains(strings.ToLower(p.Body), `class="author`) ||
			strings.Contains(p.Body, `"author"`) ||
			bylinePattern.MatchString(htmlinfo.VisibleText(p.Body)) {
			authored++
		}
	}
	switch {
	case len(blogs) > 0 && authored == len(blogs):
		score += 4
	case authored > 0:
		score += 2
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("only %d of %d sampled posts carry an author", authored, len(blogs)),
			Remediation: "Attribute every post; anonymous content carries less weight as a source",
		})
	case len(blogs) > 0:
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "sampled posts carry no author attribution",
			Remediation: "Add bylines and author pages with real credentials",
		})
	}

	if strings.Contains(snap.Homepage.Body, `"Person"`) || pagesContain(snap, `"Person"`) {
		score += 2
	}

	if len(snap.PagesByCategory(snapshot.CategoryAbout)) > 0 || len(snap.PagesByCategory(snapshot.CategoryTeam)) > 0 {
		score += 3
	} else {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "no about or team page found",
			Remediation: "Publish who is behind the site; engines weigh identifiable expertise",
		})
	}

	return finish(id, label, score, findings)
}

func pagesContain(snap *snapshot.DomainSnapshot, needle string) bool {
	for _, p := range snap.Pages {
		if strings.Contains(p.Body, needle) {
			return true
		}
	}
	return false
}

var genericAnchors = map[string]bool{
	"click here": true, "read more": true, "learn more": true,
	"here": true, "more": true, "link": true,
}

// EvaluateInternalLinking scores internal link volume and anchor
// quality on the homepage.
func EvaluateInternalLinking(snap *snapshot.DomainSnapshot) Result {
	const id, label = "internal_linking", "Internal linking"

	doc, early := homepageDoc(id, label, snap)
	if early != nil {
		return *early
	}

	internal := 0
	generic := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}
		if strings.HasPrefix(href, "http") && !strings.Contains(href, parked.RegistrableDomain(snap.Domain)) {
			return
		}
		internal++
		anchor := strings.ToLower(strings.TrimSpace(s.Text()))
		if genericAnchors[anchor] {
			generic++
		}
	})

	var score int
	var findings []Finding
	switch {
	case internal >= 30:
		score = 8
	case internal >= 10:
		score = 7
	case internal >= 5:
		score = 5
	default:
		score = 2
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("homepage has only %d internal links", internal),
			Remediation: "Link the homepage into the content that should be discovered",
		})
	}

	if internal > 0 && generic*10 > internal*3 {
		score -= 2
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      fmt.Sprintf("%d of %d internal links use generic anchor text", generic, internal),
			Remediation: "Anchor text should say what the target page is about",
		})
	} else if internal >= 10 {
		score += 2
	}

	return finish(id, label, score, findings)
}

// EvaluateImageAltText scores alt attribute coverage across fetched
// pages.
func EvaluateImageAltText(snap *snapshot.DomainSnapshot) Result {
	const id, label = "image_alt_text", "Image alt text"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	total, withAlt := 0, 0
	docs := append([]*snapshot.FetchedDocument{snap.Homepage}, snap.Pages...)
	for _, d := range docs {
		gd, err := htmlinfo.Parse(d.Body)
		if err != nil {
			continue
		}
		gd.Find("img").Each(func(_ int, s *goquery.Selection) {
			total++
			if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
				withAlt++
			}
		})
	}

	if total == 0 {
		return finish(id, label, 5, []Finding{{
			Severity: SeverityInfo,
			Detail:   "no images found on sampled pages",
		}})
	}

	ratio := float64(withAlt) / float64(total)
	var score int
	switch {
	case ratio >= 0.9:
		score = 10
	case ratio >= 0.7:
		score = 7
	case ratio >= 0.4:
		score = 4
	default:
		score = 2
	}

	findings := []Finding{{
		Severity: SeverityInfo,
		Detail:   fmt.Sprintf("%d of %d images carry alt text", withAlt, total),
	}}
	if score < 7 {
		findings = append(findings, Finding{
			Severity:    SeverityWarning,
			Detail:      "alt coverage is low",
			Remediation: "Describe images in alt attributes; they are the only image signal text-first engines read",
		})
	}

	return finish(id, label, score, findings)
}

var mixedContentRef = regexp.MustCompile(`(?i)(?:src|href)=["']http://`)

// EvaluateHTTPSSecurity scores transport: HTTPS resolution and the
// absence of mixed-content references.
func EvaluateHTTPSSecurity(snap *snapshot.DomainSnapshot) Result {
	const id, label = "https_security", "HTTPS"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	if snap.Protocol != snapshot.ProtocolHTTPS {
		return finish(id, label, 1, []Finding{{
			Severity:    SeverityHigh,
			Detail:      "site is only reachable over plain HTTP",
			Remediation: "Serve over HTTPS; engines discount and often refuse non-TLS sources",
		}})
	}

	if mixedContentRef.MatchString(snap.Homepage.Body) {
		return finish(id, label, 6, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "HTTPS page references http:// assets (mixed content)",
			Remediation: "Load every asset over HTTPS",
		}})
	}

	return finish(id, label, 10, []Finding{{
		Severity: SeverityInfo,
		Detail:   "site resolves over HTTPS with no mixed content on the homepage",
	}})
}
