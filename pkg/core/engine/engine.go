// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine runs the tool-augmented conversation loop: it alternates
// between model turns and tool execution until the model produces a final
// answer or the turn budget runs out.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mthenault/golem/pkg/core/api"
	"github.com/mthenault/golem/pkg/observability/logging"
	"github.com/mthenault/golem/pkg/tools"
)

// ErrTurnLimit reports that the model was still requesting tools when the
// turn budget ran out. The partial transcript is preserved in the Result.
var ErrTurnLimit = errors.New("turn limit reached without a final answer")

// runState tracks where the loop is between transitions.
type runState int

const (
	stateAwaitingModel runState = iota
	stateAwaitingTools
	stateDone
	stateFailed
)

// Config holds the per-engine settings.
type Config struct {
	Model        string
	MaxTurns     int
	SystemPrompt string
}

// Engine drives one question through the model/tool loop. It is stateless
// across runs; every Run starts a fresh transcript.
type Engine struct {
	llm      api.ChatCompletionClient
	registry *tools.Registry
	cfg      Config
	logger   *logging.Logger
}

// Result is the outcome of one run.
type Result struct {
	// FinalAnswer is the assistant's terminal message content. Empty when
	// the run failed before producing one.
	FinalAnswer string
	// ToolsUsed lists the distinct tool names invoked, sorted.
	ToolsUsed []string
	// Turns counts the model calls made.
	Turns int
	// Transcript is the full message history including tool results.
	Transcript []api.Message
}

// New creates an engine. The registry may be empty but not nil.
func New(llm api.ChatCompletionClient, registry *tools.Registry, cfg Config, logger *logging.Logger) (*Engine, error) {
	if llm == nil {
		return nil, fmt.Errorf("chat completion client is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.MaxTurns <= 0 {
		return nil, fmt.Errorf("max turns must be positive, got %d", cfg.MaxTurns)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{llm: llm, registry: registry, cfg: cfg, logger: logger}, nil
}

// Run answers one user input. A turn-limit overrun returns ErrTurnLimit
// alongside the partial Result; transport and model errors fail the run.
func (e *Engine) Run(ctx context.Context, userInput string) (Result, error) {
	runID := uuid.NewString()
	log := e.logger.With("run_id", runID, "model", e.cfg.Model)
	log.Debug("run started")

	messages := []api.Message{
		{Role: "system", Content: e.cfg.SystemPrompt},
		{Role: "user", Content: userInput},
	}
	defs := e.registry.Definitions()
	toolsUsed := map[string]struct{}{}

	var (
		state       = stateAwaitingModel
		turns       int
		finalAnswer string
		runErr      error
	)

	for state == stateAwaitingModel || state == stateAwaitingTools {
		switch state {
		case stateAwaitingModel:
			if turns >= e.cfg.MaxTurns {
				log.Warn("turn limit reached", "turns", turns)
				state = stateFailed
				runErr = ErrTurnLimit
				continue
			}
			turns++

			resp, err := e.llm.CreateChatCompletion(ctx, &api.ChatCompletionRequest{
				Model:    e.cfg.Model,
				Messages: messages,
				Tools:    defs,
			})
			if err != nil {
				state = stateFailed
				runErr = fmt.Errorf("chat completion: %w", err)
				continue
			}
			if len(resp.Choices) == 0 {
				state = stateFailed
				runErr = fmt.Errorf("model returned no choices")
				continue
			}

			msg := resp.Choices[0].Message
			messages = append(messages, msg)
			if len(msg.ToolCalls) > 0 {
				log.Debug("model requested tools", "turn", turns, "calls", len(msg.ToolCalls))
				state = stateAwaitingTools
			} else {
				finalAnswer = msg.Content
				state = stateDone
			}

		case stateAwaitingTools:
			calls := messages[len(messages)-1].ToolCalls
			results := e.dispatchAll(ctx, calls)
			for _, call := range calls {
				toolsUsed[call.Function.Name] = struct{}{}
			}
			messages = append(messages, results...)
			state = stateAwaitingModel
		}
	}

	result := Result{
		FinalAnswer: finalAnswer,
		ToolsUsed:   sortedKeys(toolsUsed),
		Turns:       turns,
		Transcript:  messages,
	}
	if state == stateFailed {
		log.Debug("run failed", "turns", turns, "error", runErr)
		return result, runErr
	}
	log.Debug("run finished", "turns", turns, "tools_used", result.ToolsUsed)
	return result, nil
}

// dispatchAll executes the calls of one assistant turn concurrently and
// returns exactly one tool message per call, ordered by ascending call id
// so the transcript is deterministic regardless of completion order.
func (e *Engine) dispatchAll(ctx context.Context, calls []api.ToolCall) []api.Message {
	results := make([]api.Message, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			if gctx.Err() != nil {
				results[i] = api.Message{
					Role:       "tool",
					Content:    fmt.Sprintf("[Tool: %s ERROR] cancelled", call.Function.Name),
					ToolCallID: call.ID,
				}
				return nil
			}
			results[i] = e.registry.Dispatch(gctx, call)
			return nil
		})
	}
	// Workers never return errors; Wait is only a join point.
	_ = g.Wait()

	sort.Slice(results, func(a, b int) bool {
		return results[a].ToolCallID < results[b].ToolCallID
	})
	return results
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
