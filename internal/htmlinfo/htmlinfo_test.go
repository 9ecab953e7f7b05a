package htmlinfo_test

import (
	"strings"
	"testing"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
)

func TestVisibleTextSkipsScriptsAndStyles(t *testing.T) {
	body := `<html><head><title>Hidden</title><style>body{color:red}</style></head>
		<body><script>var x = "invisible";</script><p>Hello</p><noscript>enable js</noscript><p>world</p></body></html>`

	got := htmlinfo.VisibleText(body)
	if got != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", got)
	}
}

func TestVisibleTextNormalizesWhitespace(t *testing.T) {
	body := "<p>  one  </p>\n\n<p>\ttwo</p>"
	if got := htmlinfo.VisibleText(body); got != "one two" {
		t.Errorf("expected %q, got %q", "one two", got)
	}
}

func TestWordCount(t *testing.T) {
	body := `<body><h1>Five words in this heading</h1><script>ignored()</script></body>`
	if got := htmlinfo.WordCount(body); got != 5 {
		t.Errorf("expected 5 words, got %d", got)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	cases := []struct {
		name string
		body string
		want bool
	}{
		{"doctype", "<!DOCTYPE html><html><body></body></html>", true},
		{"html prefix", "<html lang=\"en\"><body></body></html>", true},
		{"leading whitespace", "\n\n  <!doctype HTML>", true},
		{"head within 200 chars", "<?xml version=\"1.0\"?><head><title>x</title></head>", true},
		{"plain markdown", "# My Site\n\n> A description\n\n- [Docs](/docs)", false},
		{"robots directives", "User-agent: *\nAllow: /", false},
		{"rss feed", "<?xml version=\"1.0\"?><rss><channel></channel></rss>", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := htmlinfo.LooksLikeHTML(tc.body); got != tc.want {
				t.Errorf("LooksLikeHTML(%q) = %v, want %v", tc.body, got, tc.want)
			}
		})
	}
}

func TestLooksLikeHTMLHeadBeyondWindow(t *testing.T) {
	body := strings.Repeat("a", 300) + "<head>"
	if htmlinfo.LooksLikeHTML(body) {
		t.Error("<head> beyond the inspection window should not count")
	}
}

func TestParseToleratesMalformedMarkup(t *testing.T) {
	doc, err := htmlinfo.Parse("<div><p>unclosed")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if doc.Find("p").Length() != 1 {
		t.Error("expected the unclosed paragraph to be recovered")
	}
}
