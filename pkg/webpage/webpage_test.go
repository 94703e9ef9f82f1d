// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package webpage

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "http with host", in: "http://example.com/page", want: "http://example.com/page"},
		{name: "https with host", in: "https://Example.COM/Page", want: "https://example.com/page"},
		{name: "surrounding whitespace", in: "  https://example.com  ", want: "https://example.com"},
		{name: "ftp scheme rejected", in: "ftp://example.com/file", wantErr: true},
		{name: "empty string rejected", in: "", wantErr: true},
		{name: "missing host rejected", in: "https:///path-only", wantErr: true},
		{name: "bare path rejected", in: "just-words", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateURL(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	page := `<html><head><style>body{color:red}</style>
<script>alert("x")</script></head>
<body><h1>Title</h1><p>First paragraph.</p><noscript>enable js</noscript></body></html>`

	text := ExtractText([]byte(page))
	if !strings.Contains(text, "Title") || !strings.Contains(text, "First paragraph.") {
		t.Errorf("expected visible text, got %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color:red") || strings.Contains(text, "enable js") {
		t.Errorf("expected script/style/noscript stripped, got %q", text)
	}
}

func TestLoader_Load(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("User-Agent"), "Mozilla") {
			t.Errorf("expected browser user-agent, got %q", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, "<html><body><p>hello page</p></body></html>")
	}))
	defer server.Close()

	loader := NewLoader(5 * time.Second)
	text, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "hello page" {
		t.Errorf("expected 'hello page', got %q", text)
	}
}

func TestLoader_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	loader := NewLoader(5 * time.Second)
	if _, err := loader.Load(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestLoader_TruncatesLongPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>")
		for i := 0; i < 10000; i++ {
			fmt.Fprint(w, "padding words here ")
		}
		fmt.Fprint(w, "</p></body></html>")
	}))
	defer server.Close()

	loader := NewLoader(5 * time.Second)
	text, err := loader.Load(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(text, "[TRUNCATED]") {
		t.Error("expected truncation marker on oversized page")
	}
	if len(text) > maxTextBytes+64 {
		t.Errorf("expected text capped near %d bytes, got %d", maxTextBytes, len(text))
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	// "日" is 3 bytes; a cap of 4 lands mid-rune and must back up.
	text := "日本語"
	got := truncate(text, 4)
	if !strings.HasPrefix(got, "日") || strings.HasPrefix(got, "日本") {
		t.Errorf("expected cut after first rune, got %q", got)
	}
	if !strings.HasSuffix(got, "[TRUNCATED]") {
		t.Errorf("expected truncation marker, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated text is not valid UTF-8: %q", got)
	}

	if got := truncate("short", 10); got != "short" {
		t.Errorf("expected text under cap unchanged, got %q", got)
	}
}
