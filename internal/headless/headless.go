// Package headless re-fetches SPA shells through a real browser. The
// capability is strictly best-effort: launch, navigation or extraction
// failures all degrade to "unavailable" and never surface as errors.
package headless

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// NavigationTimeout bounds one headless page load. Browser startup and
// rendering are slower than a plain fetch, so this is deliberately
// longer than the fetch timeout.
const NavigationTimeout = 25 * time.Second

type Renderer struct {
	enabled bool
	timeout time.Duration
}

func New(enabled bool) *Renderer {
	return &Renderer{enabled: enabled, timeout: NavigationTimeout}
}

// Render navigates to pageURL in a headless browser and returns the
// post-JavaScript document HTML. ok is false when the capability is
// disabled or any step failed; the caller keeps the original document.
func (r *Renderer) Render(ctx context.Context, pageURL string) (html string, ok bool) {
	if r == nil || !r.enabled {
		return "", false
	}

	defer func() {
		// A missing or broken Chrome install can surface as a panic
		// deep inside the allocator. Absence of the capability is not
		// an error condition.
		if rec := recover(); rec != nil {
			slog.Debug("headless render panicked", "url", pageURL, "panic", rec)
			html, ok = "", false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var rendered string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	)
	if err != nil {
		slog.Debug("headless render unavailable", "url", pageURL, "error", err)
		return "", false
	}
	return rendered, true
}
