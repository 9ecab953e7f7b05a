// Copyright (c) 2025-2026 AEO Content Inc.
// Licensed under BUSL-1.1 — See LICENSE for terms.
package htmlinfo

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse wraps a body string into a goquery document. goquery's parser
// never fails on malformed markup short of a reader error.
func Parse(body string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// VisibleText strips scripts, styles and markup from an HTML body and
// returns the whitespace-normalized text a reader would see before any
// JavaScript runs.
func VisibleText(body string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(body))
	var sb strings.Builder
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			break
		}
		switch tt {
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if isInvisibleTag(string(tn)) {
				skipDepth++
			}
		case html.EndTagToken:
			tn, _ := tokenizer.TagName()
			if isInvisibleTag(string(tn)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text == "" {
				continue
			}
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
	}
	return sb.String()
}

func isInvisibleTag(name string) bool {
	switch name {
	case "script", "style", "noscript", "template", "svg", "head":
		return true
	}
	return false
}

// WordCount counts whitespace-separated words in the visible text of an
// HTML body.
func WordCount(body string) int {
	return len(strings.Fields(VisibleText(body)))
}

// LooksLikeHTML reports whether a body served for a plain-text or XML
// resource is actually a generic HTML page. Many hosts answer unknown
// paths with a 200 and their app shell; such a response must count as
// "resource not found".
func LooksLikeHTML(body string) bool {
	trimmed := strings.TrimSpace(body)
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
		return true
	}
	head := lower
	if len(head) > 200 {
		head = head[:200]
	}
	return strings.Contains(head, "<head")
}
