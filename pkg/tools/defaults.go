// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import "github.com/mthenault/golem/pkg/websearch"

// Deps carries the collaborators the default tool set is built from.
// Wolfram may be nil when no credential is configured.
type Deps struct {
	Search           websearch.Provider
	SearchMaxResults int
	Wolfram          MathSolver
	Wikipedia        DocumentLoader
	Pages            PageLoader
}

// DefaultRegistry assembles the standard five-tool registry.
func DefaultRegistry(deps Deps) (*Registry, error) {
	return NewRegistry(
		Calculator(),
		WolframQuery(deps.Wolfram),
		WikiSearch(deps.Wikipedia),
		WebSearch(deps.Search, deps.SearchMaxResults),
		WebPageTextExtractor(deps.Pages),
	)
}
