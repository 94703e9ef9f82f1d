// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

// Package wolfram is a minimal client for the Wolfram Alpha Short Answers
// API, which returns a single plain-text result per query.
package wolfram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoResult is returned when the API has no answer for a query.
var ErrNoResult = errors.New("wolfram: no result")

// Client calls the Wolfram Alpha Short Answers API.
type Client struct {
	appID      string
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Wolfram Alpha client for the given application ID.
func NewClient(appID string) *Client {
	return &Client{
		appID:      appID,
		endpoint:   "https://api.wolframalpha.com/v1/result",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Query submits a free-text expression and returns the first textual result.
// Returns ErrNoResult when the API cannot answer.
func (c *Client) Query(ctx context.Context, expression string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("appid", c.appID)
	q.Set("i", expression)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wolfram request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	// The Short Answers API signals "no result" with 501.
	if resp.StatusCode == http.StatusNotImplemented {
		return "", ErrNoResult
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wolfram returned status %d: %s", resp.StatusCode, string(body))
	}

	answer := strings.TrimSpace(string(body))
	if answer == "" {
		return "", ErrNoResult
	}
	return answer, nil
}
