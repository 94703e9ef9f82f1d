// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"
)

func init() {
	Providers.Register("duckduckgo", func(_ context.Context, _ map[string]string) (Provider, error) {
		return NewDuckDuckGoProvider(), nil
	})
}

const (
	ddgEndpoint  = "https://html.duckduckgo.com/html/"
	ddgUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0"
)

// DuckDuckGoProvider performs web searches by scraping the DuckDuckGo HTML
// endpoint. No API key is required. Requests are rate limited to 1 QPS per
// provider instance to stay polite toward the scraped endpoint.
type DuckDuckGoProvider struct {
	endpoint   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewDuckDuckGoProvider creates a DuckDuckGo provider with a 10s timeout.
func NewDuckDuckGoProvider() *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		endpoint:   ddgEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Search fetches and parses one page of DuckDuckGo HTML results.
func (d *DuckDuckGoProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", strings.TrimSpace(query))
	q.Set("kl", "wt-wt")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", ddgUserAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return parseResults(doc, maxResults), nil
}

// parseResults walks the parsed document collecting result blocks in document
// order. A block missing either the title link or the snippet is skipped;
// collection stops once maxResults distinct URLs are gathered.
func parseResults(doc *html.Node, maxResults int) []Result {
	var results []Result
	seen := map[string]bool{}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if maxResults > 0 && len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && hasClass(n, "result") {
			if r, ok := extractResult(n); ok && !seen[r.URL] {
				seen[r.URL] = true
				results = append(results, r)
			}
			// Result blocks do not nest; no need to descend further.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return results
}

// extractResult pulls title, URL, snippet and domain out of one result block.
func extractResult(block *html.Node) (Result, bool) {
	link := findByClass(block, "a", "result__a")
	snippet := findByClass(block, "", "result__snippet")
	if link == nil || snippet == nil {
		return Result{}, false
	}

	rawURL := attr(link, "href")
	title := nodeText(link)
	if rawURL == "" || title == "" {
		return Result{}, false
	}

	resolved := resolveRedirect(rawURL)
	domain := ""
	if u, err := url.Parse(resolved); err == nil {
		domain = u.Host
	}

	return Result{
		Title:   title,
		URL:     resolved,
		Snippet: nodeText(snippet),
		Domain:  domain,
	}, true
}

// resolveRedirect decodes DuckDuckGo's redirect wrapper, which encodes the
// destination in the uddg query parameter. Any decode failure falls back to
// the raw URL unchanged; one bad redirect never fails the whole search.
func resolveRedirect(raw string) string {
	if !strings.Contains(raw, "uddg=") {
		return raw
	}
	parseable := raw
	if strings.HasPrefix(parseable, "//") {
		parseable = "https:" + parseable
	}
	u, err := url.Parse(parseable)
	if err != nil {
		return raw
	}
	dest := u.Query().Get("uddg")
	if dest == "" {
		return raw
	}
	return dest
}

// hasClass reports whether the node's class attribute contains the given
// class token.
func hasClass(n *html.Node, class string) bool {
	for _, tok := range strings.Fields(attr(n, "class")) {
		if tok == class {
			return true
		}
	}
	return false
}

// findByClass returns the first descendant with the given tag (any tag when
// empty) carrying the class token.
func findByClass(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && (tag == "" || n.Data == tag) && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates the visible text of a node's subtree with collapsed
// whitespace.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
