// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"fmt"
	"time"
)

// MockChatCompletionClient is a mock implementation for testing.
// Scripted turns are served in order; once exhausted (or when none were
// scripted) it echoes the user message back as a plain answer.
type MockChatCompletionClient struct {
	Turns []Message // scripted assistant messages, one per call
	Calls int       // number of CreateChatCompletion invocations
}

// NewMockChatCompletionClient creates a new mock client
func NewMockChatCompletionClient(turns ...Message) *MockChatCompletionClient {
	return &MockChatCompletionClient{Turns: turns}
}

// CreateChatCompletion implements ChatCompletionClient.CreateChatCompletion
func (m *MockChatCompletionClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	call := m.Calls
	m.Calls++

	var msg Message
	if call < len(m.Turns) {
		msg = m.Turns[call]
	} else {
		userMessage := ""
		for _, mm := range req.Messages {
			if mm.Role == "user" {
				userMessage = mm.Content
				break
			}
		}
		msg = Message{Role: "assistant", Content: fmt.Sprintf("Mock response to: %s", userMessage)}
	}

	finishReason := "stop"
	if len(msg.ToolCalls) > 0 {
		finishReason = "tool_calls"
	}

	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-mock-%d", call),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index:        0,
				Message:      msg,
				FinishReason: finishReason,
			},
		},
		Usage: Usage{
			PromptTokens:     estimateTokens(req),
			CompletionTokens: len(msg.Content) / 4,
			TotalTokens:      estimateTokens(req) + len(msg.Content)/4,
		},
	}, nil
}

// estimateTokens provides a rough token estimate (4 chars per token)
func estimateTokens(req *ChatCompletionRequest) int {
	total := 0
	for _, m := range req.Messages {
		total += len(m.Content)
	}
	return total / 4
}
