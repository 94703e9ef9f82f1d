// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

// Package websearch provides pluggable web search backends. The default
// DuckDuckGo backend scrapes the HTML endpoint and needs no API key; the
// Brave and Tavily backends call their respective search APIs.
package websearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mthenault/golem/pkg/provider"
)

// Providers is the registry of web search backends. Implementations
// self-register via init().
var Providers = provider.NewRegistry[Provider]("web_search")

// Result represents a single web search result. URL is always the final
// destination, never a search-engine redirect wrapper; Domain is derived
// from the URL host.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Domain  string
}

// Provider performs web searches against an external engine.
type Provider interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// Normalize fills in missing domains, drops duplicate URLs and truncates
// the list to max entries, preserving order.
func Normalize(results []Result, max int) []Result {
	seen := make(map[string]bool, len(results))
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.URL == "" || seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		if r.Domain == "" {
			if u, err := url.Parse(r.URL); err == nil {
				r.Domain = u.Host
			}
		}
		out = append(out, r)
		if max > 0 && len(out) >= max {
			break
		}
	}
	return out
}

// NoResults is the exact report text produced when a search yields nothing.
const NoResults = "No results found."

// FormatReport renders results as a markdown report: a header line followed
// by one numbered entry per result with the title as a link, the domain
// italicized, and the snippet.
func FormatReport(results []Result) string {
	if len(results) == 0 {
		return NoResults
	}

	var sb strings.Builder
	sb.WriteString("## Search Results")
	for i, r := range results {
		fmt.Fprintf(&sb, "\n%d. **[%s](%s)**\n*%s*\n%s\n", i+1, r.Title, r.URL, r.Domain, r.Snippet)
	}
	return sb.String()
}

// SearchReport runs a search and renders the report. It never fails: a
// provider error is embedded in the returned text so callers can hand it
// to a model as-is.
func SearchReport(ctx context.Context, p Provider, query string, maxResults int) string {
	results, err := p.Search(ctx, query, maxResults)
	if err != nil {
		return fmt.Sprintf("Web search failed: %v", err)
	}
	return FormatReport(results)
}
