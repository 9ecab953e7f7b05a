package criteria

import (
	"fmt"

	"github.com/AEO-Content-Inc/aeorank/internal/htmlinfo"
	"github.com/AEO-Content-Inc/aeorank/internal/spa"
	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// EvaluateRenderingAccess scores whether the site's content is readable
// without executing JavaScript. Most AI crawlers do not render.
func EvaluateRenderingAccess(snap *snapshot.DomainSnapshot) Result {
	const id, label = "rendering_access", "Server-rendered content"

	if !snap.Homepage.Present() {
		return notFound(id, label, "homepage could not be fetched", "")
	}

	if snap.HeadlessRendered {
		return finish(id, label, 6, []Finding{{
			Severity:    SeverityWarning,
			Detail:      "homepage is a client-side shell; this audit recovered content via a headless browser, but most AI crawlers will not",
			Remediation: "Enable server-side rendering or prerendering so the initial response carries the content",
		}})
	}

	cls := spa.Classify(snap.Homepage.Body)
	visible := len(htmlinfo.VisibleText(snap.Homepage.Body))

	if !cls.IsShell {
		if visible < spa.VisibleTextThreshold {
			return finish(id, label, 5, []Finding{{
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("homepage exposes only %d characters of visible text", visible),
				Remediation: "Serve the substantive copy in the initial HTML response",
			}})
		}
		return finish(id, label, 10, []Finding{{
			Severity: SeverityInfo,
			Detail:   "homepage content is readable without JavaScript",
		}})
	}

	framework := cls.Framework
	if framework == "" {
		framework = "unidentified framework"
	}

	return finish(id, label, 2, []Finding{{
		Severity:    SeverityHigh,
		Detail:      fmt.Sprintf("homepage is an unrendered client-side shell (%s) — AI crawlers see an empty page", framework),
		Remediation: "Enable server-side rendering or prerendering; without it the site is invisible to non-rendering crawlers",
	}})
}
