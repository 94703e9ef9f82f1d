// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mthenault/golem/pkg/websearch"
)

// WebSearch returns the web search tool. It never fails: provider errors
// degrade into a report the model can read and route around.
func WebSearch(provider websearch.Provider, maxResults int) Spec {
	return Spec{
		Name:        "web_search",
		Description: "Search the web and return a ranked list of results with titles, URLs and snippets. A 'site:example.com' prefix narrows intent.",
		Params: []Param{
			{Name: "query", Type: "string", Description: "Search query. May start with 'site:<domain>' to express a domain preference.", Required: true},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			query, domain := splitSiteFilter(args.String("query"))
			report := websearch.SearchReport(ctx, provider, query, maxResults)
			if domain != "" {
				report += fmt.Sprintf("\nDomain filter: %s", domain)
			}
			return report, nil
		},
	}
}

// splitSiteFilter splits the query at the first "site:" occurrence. The
// text before it is searched; the text after it is surfaced in the report
// for the model's benefit, the search itself runs unrestricted.
func splitSiteFilter(query string) (cleaned, domain string) {
	before, after, found := strings.Cut(query, "site:")
	if !found {
		return strings.TrimSpace(query), ""
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
