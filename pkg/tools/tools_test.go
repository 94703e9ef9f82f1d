// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mthenault/golem/pkg/core/api"
	"github.com/mthenault/golem/pkg/websearch"
	"github.com/mthenault/golem/pkg/wikipedia"
	"github.com/mthenault/golem/pkg/wolfram"
)

func dispatch(t *testing.T, spec Spec, args string) string {
	t.Helper()
	r, err := NewRegistry(spec)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	msg := r.Dispatch(context.Background(), api.ToolCall{
		ID:       "call_1",
		Function: api.ToolCallFunction{Name: spec.Name, Arguments: args},
	})
	return msg.Content
}

func TestCalculator(t *testing.T) {
	tests := []struct {
		name string
		args string
		want string
	}{
		{"add", `{"operation":"add","a":2,"b":3}`, "5"},
		{"sum alias", `{"operation":"sum","a":2,"b":3}`, "5"},
		{"subtract", `{"operation":"subtract","a":2,"b":3}`, "-1"},
		{"multiply", `{"operation":"multiply","a":2.5,"b":4}`, "10"},
		{"divide", `{"operation":"divide","a":7,"b":2}`, "3.5"},
		{"div alias", `{"operation":"div","a":7,"b":2}`, "3.5"},
		{"modulus", `{"operation":"modulus","a":7,"b":3}`, "1"},
		{"mod alias", `{"operation":"mod","a":7,"b":3}`, "1"},
		{"case and space insensitive", `{"operation":" Add ","a":1,"b":1}`, "2"},
		{"divide by zero", `{"operation":"divide","a":1,"b":0}`, "[Tool: calculator ERROR] Cannot divide by zero."},
		{"modulus by zero", `{"operation":"mod","a":1,"b":0}`, "[Tool: calculator ERROR] Cannot divide by zero."},
		{
			"unsupported operation",
			`{"operation":"power","a":2,"b":8}`,
			"[Tool: calculator ERROR] Unsupported operation: power. Use one of: add, subtract, multiply, divide, modulus or try the 'wolfram_query' tool for complex math.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dispatch(t, Calculator(), tt.args); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

type stubSolver struct {
	answer string
	err    error
	query  string
}

func (s *stubSolver) Query(ctx context.Context, query string) (string, error) {
	s.query = query
	return s.answer, s.err
}

func TestWolframQuery(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		got := dispatch(t, WolframQuery(nil), `{"query":"2^10"}`)
		want := "[Tool: wolfram_query ERROR] missing WOLFRAM_APP_ID environment variable"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("success", func(t *testing.T) {
		solver := &stubSolver{answer: "1024"}
		got := dispatch(t, WolframQuery(solver), `{"query":"2^10"}`)
		if got != "[Tool: wolfram_query] 1024" {
			t.Errorf("unexpected output: %q", got)
		}
		if solver.query != "2^10" {
			t.Errorf("solver received query %q", solver.query)
		}
	})

	t.Run("no result", func(t *testing.T) {
		solver := &stubSolver{err: wolfram.ErrNoResult}
		got := dispatch(t, WolframQuery(solver), `{"query":"meaning of life"}`)
		want := "[Tool: wolfram_query] No result for query: 'meaning of life'."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("transport error", func(t *testing.T) {
		solver := &stubSolver{err: errors.New("connection refused")}
		got := dispatch(t, WolframQuery(solver), `{"query":"2^10"}`)
		if got != "[Tool: wolfram_query ERROR] connection refused" {
			t.Errorf("unexpected output: %q", got)
		}
	})
}

type stubWiki struct {
	docs    []wikipedia.Document
	err     error
	maxDocs int
}

func (s *stubWiki) Search(ctx context.Context, query string, maxDocs int) ([]wikipedia.Document, error) {
	s.maxDocs = maxDocs
	return s.docs, s.err
}

func TestWikiSearch(t *testing.T) {
	t.Run("joins documents with sources", func(t *testing.T) {
		wiki := &stubWiki{docs: []wikipedia.Document{
			{Source: "https://en.wikipedia.org/wiki/Go", Title: "Go", Text: "Go is a language."},
			{Source: "https://en.wikipedia.org/wiki/Gopher", Title: "Gopher", Text: "A rodent."},
		}}
		got := dispatch(t, WikiSearch(wiki), `{"query":"go"}`)
		want := "Source: https://en.wikipedia.org/wiki/Go\nGo is a language.\n\nSource: https://en.wikipedia.org/wiki/Gopher\nA rodent."
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
		if wiki.maxDocs != maxWikiDocs {
			t.Errorf("expected cap %d, got %d", maxWikiDocs, wiki.maxDocs)
		}
	})

	t.Run("no articles", func(t *testing.T) {
		got := dispatch(t, WikiSearch(&stubWiki{}), `{"query":"xyzzy"}`)
		if got != "No Wikipedia articles found for 'xyzzy'." {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("loader error", func(t *testing.T) {
		wiki := &stubWiki{err: errors.New("api unavailable")}
		got := dispatch(t, WikiSearch(wiki), `{"query":"go"}`)
		if got != "[Tool: wiki_search ERROR] api unavailable" {
			t.Errorf("unexpected output: %q", got)
		}
	})
}

type stubPages struct {
	text string
	err  error
	url  string
}

func (s *stubPages) Load(ctx context.Context, rawURL string) (string, error) {
	s.url = rawURL
	return s.text, s.err
}

func TestWebPageTextExtractor(t *testing.T) {
	t.Run("invalid url fails before fetch", func(t *testing.T) {
		pages := &stubPages{text: "should not be reached"}
		got := dispatch(t, WebPageTextExtractor(pages), `{"url":"not-a-url"}`)
		if got != "[Tool: web_page_text_extractor ERROR] invalid URL: not-a-url" {
			t.Errorf("unexpected output: %q", got)
		}
		if pages.url != "" {
			t.Errorf("loader was called with %q", pages.url)
		}
	})

	t.Run("success", func(t *testing.T) {
		pages := &stubPages{text: "Page body."}
		got := dispatch(t, WebPageTextExtractor(pages), `{"url":"https://example.com/a"}`)
		if got != "[Tool: web_page_text_extractor]\nPage body." {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("empty page", func(t *testing.T) {
		pages := &stubPages{}
		got := dispatch(t, WebPageTextExtractor(pages), `{"url":"https://example.com/empty"}`)
		if got != "[Tool: web_page_text_extractor] No content found at https://example.com/empty" {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		pages := &stubPages{err: errors.New("connection reset")}
		got := dispatch(t, WebPageTextExtractor(pages), `{"url":"https://example.com/a"}`)
		want := "[Tool: web_page_text_extractor ERROR] failed to extract content from https://example.com/a: connection reset"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

type stubSearch struct {
	results []websearch.Result
	err     error
	query   string
	max     int
}

func (s *stubSearch) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	s.query = query
	s.max = maxResults
	return s.results, s.err
}

func TestWebSearch(t *testing.T) {
	t.Run("formats report", func(t *testing.T) {
		search := &stubSearch{results: []websearch.Result{
			{Title: "Go", URL: "https://go.dev", Snippet: "The Go language.", Domain: "go.dev"},
		}}
		got := dispatch(t, WebSearch(search, 5), `{"query":"golang"}`)
		if !strings.HasPrefix(got, "## Search Results") {
			t.Errorf("report missing header: %q", got)
		}
		if !strings.Contains(got, "https://go.dev") {
			t.Errorf("report missing result URL: %q", got)
		}
		if search.max != 5 {
			t.Errorf("expected max 5, got %d", search.max)
		}
	})

	t.Run("site filter is advisory", func(t *testing.T) {
		search := &stubSearch{}
		got := dispatch(t, WebSearch(search, 5), `{"query":"generics tutorial site:go.dev"}`)
		if search.query != "generics tutorial" {
			t.Errorf("expected filter stripped from query, got %q", search.query)
		}
		if !strings.Contains(got, websearch.NoResults) {
			t.Errorf("expected empty report, got %q", got)
		}
		if !strings.HasSuffix(got, "\nDomain filter: go.dev") {
			t.Errorf("missing domain annotation: %q", got)
		}
	})

	t.Run("provider failure degrades to text", func(t *testing.T) {
		search := &stubSearch{err: errors.New("rate limited")}
		got := dispatch(t, WebSearch(search, 5), `{"query":"golang"}`)
		if got != "Web search failed: rate limited" {
			t.Errorf("unexpected output: %q", got)
		}
	})
}

func TestSplitSiteFilter(t *testing.T) {
	tests := []struct {
		query, wantQuery, wantDomain string
	}{
		{"plain query", "plain query", ""},
		{"emmanuel macron age site:lemonde.fr", "emmanuel macron age", "lemonde.fr"},
		{"site:go.dev generics tutorial", "", "go.dev generics tutorial"},
		{"site:go.dev", "", "go.dev"},
		{"  terms  site:go.dev  ", "terms", "go.dev"},
		{"SITE:go.dev terms", "SITE:go.dev terms", ""},
	}

	for _, tt := range tests {
		gotQuery, gotDomain := splitSiteFilter(tt.query)
		if gotQuery != tt.wantQuery || gotDomain != tt.wantDomain {
			t.Errorf("splitSiteFilter(%q) = (%q, %q), want (%q, %q)",
				tt.query, gotQuery, gotDomain, tt.wantQuery, tt.wantDomain)
		}
	}
}

func TestDefaultRegistry(t *testing.T) {
	r, err := DefaultRegistry(Deps{
		Search:           &stubSearch{},
		SearchMaxResults: 5,
		Wikipedia:        &stubWiki{},
		Pages:            &stubPages{},
	})
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}

	defs := r.Definitions()
	want := []string{"calculator", "wolfram_query", "wiki_search", "web_search", "web_page_text_extractor"}
	if len(defs) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(defs))
	}
	for i, name := range want {
		if defs[i].Function.Name != name {
			t.Errorf("tool %d: expected %q, got %q", i, name, defs[i].Function.Name)
		}
	}
}
