// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

// Package webpage fetches a web page and reduces it to visible plain text.
package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// maxTextBytes caps extracted text so one page cannot flood the model context.
const maxTextBytes = 32 * 1024

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0"

// ValidateURL trims and lowercases a raw URL and checks that it has an
// http/https scheme and a non-empty host. It runs before any network I/O.
func ValidateURL(raw string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %s", cleaned)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", cleaned)
	}
	return cleaned, nil
}

// Loader downloads pages and extracts their text content.
type Loader struct {
	httpClient *http.Client
}

// NewLoader creates a Loader with the given request timeout.
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Loader{httpClient: &http.Client{Timeout: timeout}}
}

// Load fetches the URL and returns its visible text. The URL is expected to
// have passed ValidateURL already.
func (l *Loader) Load(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", pageURL, err)
	}

	return truncate(ExtractText(body), maxTextBytes), nil
}

// truncate caps text at max bytes, backing up to a rune boundary so the
// cut never emits invalid UTF-8.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "\n[TRUNCATED]"
}

// ExtractText strips HTML tags and returns the visible text content.
// Script, style and noscript elements are skipped entirely. Malformed HTML
// falls back to the raw input.
func ExtractText(content []byte) string {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return strings.TrimSpace(string(content))
	}

	var sb strings.Builder
	extractTextFromNode(doc, &sb)
	return strings.TrimSpace(sb.String())
}

func extractTextFromNode(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractTextFromNode(c, sb)
	}
}
