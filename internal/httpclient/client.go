package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/AEO-Content-Inc/aeorank/internal/snapshot"
)

// UserAgent identifies every outbound request the auditor makes.
const UserAgent = "AEORankBot/1.0 (+https://aeorank.ai/bot)"

// MaxBodyChars caps how much of a response body is retained.
const MaxBodyChars = 500_000

// DefaultTimeout bounds a single plain fetch. There are no retries; one
// attempt under this timeout is the whole budget.
const DefaultTimeout = 12 * time.Second

// Client is a size-capped, rate-limited HTTP fetcher with a fixed
// user-agent and a redirect ceiling.
type Client struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string

	// AllowPrivateTargets disables the SSRF guard. Only set by tests
	// fetching from loopback servers.
	AllowPrivateTargets bool
}

func New() *Client {
	return NewWithTimeout(DefaultTimeout)
}

func NewWithTimeout(timeout time.Duration) *Client {
	c := &Client{
		limiter:   rate.NewLimiter(rate.Limit(8), 16),
		userAgent: UserAgent,
	}
	c.client = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			IdleConnTimeout:     30 * time.Second,
			DisableKeepAlives:   false,
			MaxIdleConnsPerHost: 5,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return fmt.Errorf("too many redirects")
			}
			if !c.AllowPrivateTargets && !ValidateURLTarget(req.URL.String()) {
				return fmt.Errorf("SSRF protection: redirect target resolves to private IP")
			}
			return nil
		},
	}
	return c
}

// Get performs one GET and returns the capped body plus status and the
// final URL after redirects. A non-200 status is not an error; network
// failures are.
func (c *Client) Get(ctx context.Context, rawURL string) (*snapshot.FetchedDocument, error) {
	if !c.AllowPrivateTargets && !ValidateURLTarget(rawURL) {
		return nil, fmt.Errorf("SSRF protection: URL target resolves to private/reserved IP range")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyChars))
	if err != nil {
		return nil, err
	}

	doc := &snapshot.FetchedDocument{
		URL:        rawURL,
		StatusCode: resp.StatusCode,
		Body:       string(body),
	}
	if resp.Request != nil && resp.Request.URL != nil {
		final := resp.Request.URL.String()
		if final != rawURL {
			doc.FinalURL = final
		}
	}
	return doc, nil
}

// FetchFirst tries each URL in order and returns the first document the
// accept predicate approves. Later candidates are only attempted after
// the previous one fails, so a success never wastes requests.
func (c *Client) FetchFirst(ctx context.Context, urls []string, accept func(*snapshot.FetchedDocument) bool) *snapshot.FetchedDocument {
	for _, u := range urls {
		doc, err := c.Get(ctx, u)
		if err != nil {
			continue
		}
		if accept == nil {
			if doc.StatusCode == 200 && doc.Body != "" {
				return doc
			}
			continue
		}
		if accept(doc) {
			return doc
		}
	}
	return nil
}

func IsPrivateIP(ipStr string) bool {
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}

	if ip.IsPrivate() || ip.IsLoopback() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		if ip4[0] == 100 && ip4[1] >= 64 && ip4[1] <= 127 {
			return true
		}
		if ip4[0] == 192 && ip4[1] == 0 && ip4[2] == 0 {
			return true
		}
		if ip4[0] == 198 && (ip4[1] == 18 || ip4[1] == 19) {
			return true
		}
	}

	return false
}

func ValidateURLTarget(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	hostname := parsed.Hostname()
	if hostname == "" {
		return false
	}

	addrs, err := net.LookupHost(hostname)
	if err != nil {
		return false
	}
	if len(addrs) == 0 {
		return false
	}

	for _, addr := range addrs {
		if IsPrivateIP(addr) {
			return false
		}
	}
	return true
}
