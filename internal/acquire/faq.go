package acquire

import (
	"context"

	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// faqPaths is the FAQ fallback chain: /faq first, then four alternates.
// Each step is only attempted after the previous one failed.
var faqPaths = []string{"/faq", "/faqs", "/faq.html", "/support/faq", "/help/faq"}

func (o *Orchestrator) fetchFAQ(ctx context.Context, base string) *snapshot.FetchedDocument {
	urls := make([]string, 0, len(faqPaths))
	for _, p := range faqPaths {
		urls = append(urls, base+p)
	}
	doc := o.Client.FetchFirst(ctx, urls, func(d *snapshot.FetchedDocument) bool {
		return d.StatusCode == 200 && d.Body != ""
	})
	if doc != nil {
		doc.Category = snapshot.CategoryFAQ
	}
	return doc
}
