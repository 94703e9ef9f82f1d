// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var errDivideByZero = errors.New("Cannot divide by zero.")

// Calculator returns the arithmetic tool. It covers the basic binary
// operations; anything beyond that is the territory of wolfram_query.
func Calculator() Spec {
	return Spec{
		Name:        "calculator",
		Description: "Perform basic arithmetic on two numbers. Supported operations: add, subtract, multiply, divide, modulus.",
		Params: []Param{
			{Name: "operation", Type: "string", Description: "One of: add, subtract, multiply, divide, modulus.", Required: true},
			{Name: "a", Type: "number", Description: "First operand.", Required: true},
			{Name: "b", Type: "number", Description: "Second operand.", Required: true},
		},
		Handler: func(ctx context.Context, args Args) (string, error) {
			result, err := calculate(args.String("operation"), args.Number("a"), args.Number("b"))
			if err != nil {
				return "", err
			}
			return strconv.FormatFloat(result, 'g', -1, 64), nil
		},
	}
}

func calculate(operation string, a, b float64) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(operation)) {
	case "add", "sum":
		return a + b, nil
	case "subtract":
		return a - b, nil
	case "multiply":
		return a * b, nil
	case "divide", "div":
		if b == 0 {
			return 0, errDivideByZero
		}
		return a / b, nil
	case "modulus", "mod":
		if b == 0 {
			return 0, errDivideByZero
		}
		return math.Mod(a, b), nil
	default:
		return 0, fmt.Errorf("Unsupported operation: %s. Use one of: add, subtract, multiply, divide, modulus or try the 'wolfram_query' tool for complex math.", operation)
	}
}
