// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

// Package wikipedia loads article extracts from the MediaWiki API.
package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Document is one loaded article: its canonical URL and plain-text extract.
type Document struct {
	Source string
	Title  string
	Text   string
}

// Client searches Wikipedia and loads article extracts.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client against the English Wikipedia API.
func NewClient() *Client {
	return &Client{
		endpoint:   "https://en.wikipedia.org/w/api.php",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns up to maxDocs articles matching the query, in search
// relevance order, each with its source URL and intro extract.
func (c *Client) Search(ctx context.Context, query string, maxDocs int) ([]Document, error) {
	if maxDocs <= 0 {
		maxDocs = 2
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("generator", "search")
	q.Set("gsrsearch", query)
	q.Set("gsrlimit", strconv.Itoa(maxDocs))
	q.Set("prop", "extracts|info")
	q.Set("explaintext", "1")
	q.Set("exintro", "1")
	q.Set("inprop", "url")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed wikiQueryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	pages := make([]wikiPage, 0, len(parsed.Query.Pages))
	for _, p := range parsed.Query.Pages {
		pages = append(pages, p)
	}
	// The pages object is keyed by page id; the generator records search
	// relevance in the index field.
	sort.Slice(pages, func(i, j int) bool { return pages[i].Index < pages[j].Index })

	if len(pages) > maxDocs {
		pages = pages[:maxDocs]
	}

	docs := make([]Document, 0, len(pages))
	for _, p := range pages {
		docs = append(docs, Document{
			Source: p.FullURL,
			Title:  p.Title,
			Text:   p.Extract,
		})
	}
	return docs, nil
}

type wikiPage struct {
	Title   string `json:"title"`
	Index   int    `json:"index"`
	Extract string `json:"extract"`
	FullURL string `json:"fullurl"`
}

type wikiQueryResponse struct {
	Query struct {
		Pages map[string]wikiPage `json:"pages"`
	} `json:"query"`
}
