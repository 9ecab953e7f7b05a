// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.

// Package parked classifies a raw homepage as a cross-domain redirect
// hijack or a for-sale/parked placeholder. Both checks are pure; the
// orchestrator aborts all secondary fetches on either classification.
package parked

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// SnippetSize bounds how much homepage HTML the detectors inspect.
const SnippetSize = 8192

// recognized two-part suffixes for the brand-label heuristic, used when
// the public suffix list cannot be consulted (bare hosts, parse noise).
var twoPartTLDs = map[string]bool{
	"co.uk": true, "org.uk": true, "ac.uk": true,
	"com.au": true, "net.au": true, "org.au": true,
	"co.nz": true, "co.jp": true, "co.kr": true,
	"com.br": true, "com.mx": true, "co.za": true,
	"co.in": true, "com.sg": true,
}

var parkingPaths = []string{"/lander", "/parking", "/park", "/sedoparking"}

var parkingHosts = []string{
	"sedoparking.com", "sedo.com", "parkingcrew.net", "bodis.com",
	"dan.com", "afternic.com", "hugedomains.com", "undeveloped.com",
	"parklogic.com", "above.com", "skenzo.com", "domainnamesales.com",
	"cashparking.com", "smartname.com", "trafficz.com", "dopa.com",
	"voodoo.com",
}

var parkedPhrases = []string{
	"this domain is for sale",
	"domain for sale",
	"buy this domain",
	"purchase this domain",
	"inquire about this domain",
	"parked by",
	"domain parking",
	"this web page is parked",
	"is parked free",
	"domain has expired",
	"this domain has expired",
	"courtesy of godaddy",
}

var (
	absoluteJSRedirect = regexp.MustCompile(`window\.location(?:\.href)?\s*=\s*["'](https?://[^"']+)["']`)
	relativeJSRedirect = regexp.MustCompile(`window\.location(?:\.href)?\s*=\s*["'](/[^"']*)["']`)
)

// HijackResult reports a cross-domain redirect away from the requested
// domain, via HTTP redirects or an embedded JS location assignment.
type HijackResult struct {
	Hijacked     bool
	RedirectedTo string
}

// ParkResult reports a parked/for-sale classification. Reason names the
// first matching signal.
type ParkResult struct {
	IsParked bool
	Reason   string
}

// BrandLabel extracts the brand-name label of a host: the label
// immediately before the public suffix, www-stripped.
func BrandLabel(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	host = strings.TrimPrefix(host, "www.")
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = registrable
	}
	parts := strings.Split(host, ".")
	if len(parts) >= 3 {
		suffix := parts[len(parts)-2] + "." + parts[len(parts)-1]
		if twoPartTLDs[suffix] {
			return parts[len(parts)-3]
		}
	}
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return host
}

// RegistrableDomain returns the www-stripped eTLD+1 of a host, falling
// back to the stripped host itself when the suffix list has no answer.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	host = strings.TrimPrefix(host, "www.")
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return registrable
	}
	return host
}

// sameSite reports whether two hosts belong to the same brand: equal
// registrable domains, or failing that, an equal brand label (a TLD
// migration is not a hijack).
func sameSite(requested, other string) bool {
	if RegistrableDomain(requested) == RegistrableDomain(other) {
		return true
	}
	return BrandLabel(requested) == BrandLabel(other)
}

// CheckHijack classifies the homepage response. finalURL is the URL the
// fetch ultimately landed on after HTTP redirects ("" when none); body
// is raw homepage HTML, of which only the first SnippetSize bytes are
// inspected for an embedded JS redirect.
func CheckHijack(requestedDomain, finalURL, body string) HijackResult {
	if finalURL != "" {
		if u, err := url.Parse(finalURL); err == nil && u.Hostname() != "" {
			if !sameSite(requestedDomain, u.Hostname()) {
				return HijackResult{Hijacked: true, RedirectedTo: finalURL}
			}
		}
	}

	snippet := clip(body, SnippetSize)
	if m := absoluteJSRedirect.FindStringSubmatch(snippet); m != nil {
		if u, err := url.Parse(m[1]); err == nil && u.Hostname() != "" {
			if !sameSite(requestedDomain, u.Hostname()) {
				return HijackResult{Hijacked: true, RedirectedTo: m[1]}
			}
		}
	}

	return HijackResult{}
}

// CheckParked classifies homepage HTML as a parked/for-sale page.
// Signals run in fixed precedence; the first match wins.
func CheckParked(body string) ParkResult {
	snippet := clip(body, SnippetSize)
	lower := strings.ToLower(snippet)

	if m := relativeJSRedirect.FindStringSubmatch(snippet); m != nil {
		target := strings.ToLower(m[1])
		for _, p := range parkingPaths {
			if strings.HasPrefix(target, p) {
				return ParkResult{IsParked: true, Reason: "JS redirect to parking path " + m[1]}
			}
		}
	}

	for _, h := range parkingHosts {
		if strings.Contains(lower, h) {
			return ParkResult{IsParked: true, Reason: "parking service reference: " + h}
		}
	}

	for _, phrase := range parkedPhrases {
		if strings.Contains(lower, phrase) {
			return ParkResult{IsParked: true, Reason: "parked-page text: \"" + phrase + "\""}
		}
	}

	return ParkResult{}
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
