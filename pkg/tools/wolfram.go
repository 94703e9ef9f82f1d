// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mthenault/golem/pkg/wolfram"
)

// MathSolver answers a natural-language math or factual query with a short
// plain-text result.
type MathSolver interface {
	Query(ctx context.Context, query string) (string, error)
}

// WolframQuery returns the computational-knowledge tool. A nil solver means
// no credential was configured; the tool reports that on first use instead
// of failing at startup.
func WolframQuery(solver MathSolver) Spec {
	return Spec{
		Name:        "wolfram_query",
		Description: "Answer complex math, unit conversion, and factual computation queries via Wolfram Alpha. Use for anything beyond basic arithmetic.",
		Params: []Param{
			{Name: "query", Type: "string", Description: "The question, in plain English or mathematical notation.", Required: true},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			if solver == nil {
				return "", errors.New("missing WOLFRAM_APP_ID environment variable")
			}
			query := args.String("query")
			answer, err := solver.Query(ctx, query)
			if errors.Is(err, wolfram.ErrNoResult) {
				return fmt.Sprintf("[Tool: wolfram_query] No result for query: '%s'.", query), nil
			}
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("[Tool: wolfram_query] %s", answer), nil
		},
	}
}
