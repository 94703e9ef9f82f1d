// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mthenault/golem/pkg/wikipedia"
)

// maxWikiDocs caps how many articles a single wiki_search returns.
const maxWikiDocs = 2

// DocumentLoader retrieves encyclopedia articles matching a query, most
// relevant first.
type DocumentLoader interface {
	Search(ctx context.Context, query string, maxDocs int) ([]wikipedia.Document, error)
}

// WikiSearch returns the encyclopedia lookup tool.
func WikiSearch(loader DocumentLoader) Spec {
	return Spec{
		Name:        "wiki_search",
		Description: "Look up a topic on Wikipedia and return the introduction of the most relevant articles.",
		Params: []Param{
			{Name: "query", Type: "string", Description: "Topic or question to look up.", Required: true},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			query := args.String("query")
			docs, err := loader.Search(ctx, query, maxWikiDocs)
			if err != nil {
				return "", err
			}
			if len(docs) == 0 {
				return fmt.Sprintf("No Wikipedia articles found for '%s'.", query), nil
			}
			sections := make([]string, 0, len(docs))
			for _, doc := range docs {
				sections = append(sections, fmt.Sprintf("Source: %s\n%s", doc.Source, doc.Text))
			}
			return strings.Join(sections, "\n\n"), nil
		},
	}
}
