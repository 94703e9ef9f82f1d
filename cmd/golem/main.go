// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mthenault/golem/pkg/core/api"
	"github.com/mthenault/golem/pkg/core/config"
	"github.com/mthenault/golem/pkg/core/engine"
	"github.com/mthenault/golem/pkg/observability/logging"
	"github.com/mthenault/golem/pkg/tools"
	"github.com/mthenault/golem/pkg/webpage"
	"github.com/mthenault/golem/pkg/websearch"
	"github.com/mthenault/golem/pkg/wikipedia"
	"github.com/mthenault/golem/pkg/wolfram"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

// defaultSystemPrompt is used when no prompt file is available.
const defaultSystemPrompt = `You are a helpful research assistant with access to tools.
Use the tools when a question needs calculation, current information, or
facts you are not certain about. Prefer web_search followed by
web_page_text_extractor for current events, wiki_search for encyclopedic
topics, and calculator or wolfram_query for math. Answer concisely and
cite sources when you used them.`

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	promptPath := flag.String("prompt", "", "Path to the system prompt file (overrides config)")
	maxTurns := flag.Int("max-turns", 0, "Maximum model turns per question (overrides config)")
	model := flag.String("model", "", "Model identifier (overrides config)")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("golem\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		return 0
	}

	logger := logging.New(logging.Config{Level: *logLevel, Format: "text"})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Debug("No config file, using defaults", "path", *configPath, "error", err)
		cfg = config.Default()
	}
	if *promptPath != "" {
		cfg.Agent.PromptFile = *promptPath
	}
	if *maxTurns > 0 {
		cfg.Agent.MaxTurns = *maxTurns
	}
	if *model != "" {
		cfg.Agent.Model = *model
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	question, err := readQuestion(flag.Args(), os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	systemPrompt := defaultSystemPrompt
	if data, err := os.ReadFile(cfg.Agent.PromptFile); err == nil {
		systemPrompt = strings.TrimSpace(string(data))
	} else if *promptPath != "" {
		// An explicitly requested prompt file must exist.
		fmt.Fprintf(os.Stderr, "failed to read prompt file: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry, err := buildRegistry(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build tools: %v\n", err)
		return 1
	}

	llm := api.NewOpenAIClient(cfg.Agent.ModelEndpoint, cfg.Agent.APIKey)
	eng, err := engine.New(llm, registry, engine.Config{
		Model:        cfg.Agent.Model,
		MaxTurns:     cfg.Agent.MaxTurns,
		SystemPrompt: systemPrompt,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build engine: %v\n", err)
		return 1
	}

	logger.Info("Answering question",
		"model", cfg.Agent.Model,
		"search_provider", cfg.Search.Provider,
		"max_turns", cfg.Agent.MaxTurns)

	result, err := eng.Run(ctx, question)
	switch {
	case errors.Is(err, engine.ErrTurnLimit):
		fmt.Fprintf(os.Stderr, "no final answer after %d turns\n", result.Turns)
		printToolsUsed(result.ToolsUsed)
		return 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		return 1
	}

	fmt.Println(result.FinalAnswer)
	printToolsUsed(result.ToolsUsed)
	return 0
}

// readQuestion takes the question from the positional arguments, or from
// stdin when none were given.
func readQuestion(args []string, stdin io.Reader) (string, error) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read question from stdin: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return "", errors.New("no question given: pass it as arguments or on stdin")
	}
	return question, nil
}

// buildRegistry wires the tool set from configuration. The Wolfram solver
// is optional; the tool itself reports the missing credential when called.
func buildRegistry(ctx context.Context, cfg *config.Config) (*tools.Registry, error) {
	search, err := websearch.Providers.New(ctx, cfg.Search.Provider, map[string]string{
		"api_key": cfg.Search.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}

	var solver tools.MathSolver
	if cfg.Tools.WolframAppID != "" {
		solver = wolfram.NewClient(cfg.Tools.WolframAppID)
	}

	return tools.DefaultRegistry(tools.Deps{
		Search:           search,
		SearchMaxResults: cfg.Search.MaxResults,
		Wolfram:          solver,
		Wikipedia:        wikipedia.NewClient(),
		Pages:            webpage.NewLoader(cfg.Tools.FetchTimeout),
	})
}

func printToolsUsed(names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Printf("\nTools used: %s\n", strings.Join(names, ", "))
}
