// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"fmt"

	"github.com/mthenault/golem/pkg/webpage"
)

// PageLoader fetches a web page and returns its visible text.
type PageLoader interface {
	Load(ctx context.Context, rawURL string) (string, error)
}

// WebPageTextExtractor returns the page-reader tool. The URL is validated
// before any network activity so malformed input fails fast.
func WebPageTextExtractor(loader PageLoader) Spec {
	return Spec{
		Name:        "web_page_text_extractor",
		Description: "Fetch a web page by URL and return its visible text content. Use after web_search to read a promising result.",
		Params: []Param{
			{Name: "url", Type: "string", Description: "Absolute http or https URL of the page to read.", Required: true},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			rawURL, err := webpage.ValidateURL(args.String("url"))
			if err != nil {
				return "", err
			}
			text, err := loader.Load(ctx, rawURL)
			if err != nil {
				return "", fmt.Errorf("failed to extract content from %s: %v", rawURL, err)
			}
			if text == "" {
				return fmt.Sprintf("[Tool: web_page_text_extractor] No content found at %s", rawURL), nil
			}
			return fmt.Sprintf("[Tool: web_page_text_extractor]\n%s", text), nil
		},
	}
}
