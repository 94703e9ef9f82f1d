// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

// Package tools defines the agent's callable tools and the registry that
// dispatches model-issued tool calls to them.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mthenault/golem/pkg/core/api"
)

// Param describes one argument in a tool's schema.
type Param struct {
	Name        string
	Type        string // "string" or "number"
	Description string
	Required    bool
}

// Args holds the decoded arguments of one tool call.
type Args map[string]interface{}

// String returns the named string argument, or "".
func (a Args) String(name string) string {
	s, _ := a[name].(string)
	return s
}

// Number returns the named numeric argument, or 0.
func (a Args) Number(name string) float64 {
	f, _ := a[name].(float64)
	return f
}

// Handler executes a tool call. A returned error becomes a structured error
// message in the tool result; it never aborts the agent loop.
type Handler func(ctx context.Context, args Args) (string, error)

// Spec declares one tool: its unique name, the description shown to the
// model, the argument schema and the handler.
type Spec struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

// Registry is a fixed, named set of tools. It is read-only after
// construction and safe for concurrent dispatch.
type Registry struct {
	specs map[string]Spec
	order []string
}

// NewRegistry builds a registry from specs. Duplicate names are an error.
func NewRegistry(specs ...Spec) (*Registry, error) {
	r := &Registry{specs: make(map[string]Spec, len(specs))}
	for _, s := range specs {
		if _, exists := r.specs[s.Name]; exists {
			return nil, fmt.Errorf("tool %q already registered", s.Name)
		}
		r.specs[s.Name] = s
		r.order = append(r.order, s.Name)
	}
	return r, nil
}

// Definitions renders the registry as chat-completion tool definitions, in
// registration order.
func (r *Registry) Definitions() []api.Tool {
	defs := make([]api.Tool, 0, len(r.order))
	for _, name := range r.order {
		s := r.specs[name]
		defs = append(defs, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.schema(),
			},
		})
	}
	return defs
}

// Dispatch executes one tool call and returns exactly one tool message
// tagged with the originating call id. Unknown tools, invalid arguments and
// handler failures all produce structured error text, never a Go error.
func (r *Registry) Dispatch(ctx context.Context, call api.ToolCall) api.Message {
	result := func(content string) api.Message {
		return api.Message{Role: "tool", Content: content, ToolCallID: call.ID}
	}

	name := call.Function.Name
	spec, ok := r.specs[name]
	if !ok {
		return result(fmt.Sprintf("[Tool: %s ERROR] unknown tool %q (available: %v)", name, name, r.order))
	}

	args, err := spec.decodeArgs(call.Function.Arguments)
	if err != nil {
		return result(fmt.Sprintf("[Tool: %s ERROR] %v", name, err))
	}

	output, err := spec.Handler(ctx, args)
	if err != nil {
		return result(fmt.Sprintf("[Tool: %s ERROR] %v", name, err))
	}
	return result(output)
}

// decodeArgs unmarshals the raw JSON arguments and validates them against
// the declared schema.
func (s Spec) decodeArgs(raw string) (Args, error) {
	args := Args{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %v", err)
		}
	}
	for _, p := range s.Params {
		v, present := args[p.Name]
		if !present {
			if p.Required {
				return nil, fmt.Errorf("missing required argument %q", p.Name)
			}
			continue
		}
		switch p.Type {
		case "string":
			if _, ok := v.(string); !ok {
				return nil, fmt.Errorf("argument %q must be a string", p.Name)
			}
		case "number":
			if _, ok := v.(float64); !ok {
				return nil, fmt.Errorf("argument %q must be a number", p.Name)
			}
		}
	}
	return args, nil
}

// schema renders the params as a JSON schema object for the model.
func (s Spec) schema() map[string]interface{} {
	properties := map[string]interface{}{}
	var required []string
	for _, p := range s.Params {
		properties[p.Name] = map[string]interface{}{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
