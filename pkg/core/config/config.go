// Copyright Golem Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the main configuration
type Config struct {
	Agent  AgentConfig  `yaml:"agent"`
	Search SearchConfig `yaml:"search"`
	Tools  ToolsConfig  `yaml:"tools"`
}

// AgentConfig contains the model backend and loop configuration
type AgentConfig struct {
	ModelEndpoint string        `yaml:"model_endpoint"` // e.g. "https://openrouter.ai/api/v1"
	APIKey        string        `yaml:"api_key"`
	Model         string        `yaml:"model"`      // e.g. "anthropic/claude-3.7-sonnet"
	MaxTurns      int           `yaml:"max_turns"`  // model invocations per run
	PromptFile    string        `yaml:"prompt_file"`
	Timeout       time.Duration `yaml:"timeout"`
}

// SearchConfig selects and configures the web search provider
type SearchConfig struct {
	Provider   string        `yaml:"provider"`    // "duckduckgo" (default), "brave" or "tavily"
	APIKey     string        `yaml:"api_key"`     // required for brave/tavily
	MaxResults int           `yaml:"max_results"` // default 5
	Timeout    time.Duration `yaml:"timeout"`     // default 10s
}

// ToolsConfig contains per-tool credentials and limits
type ToolsConfig struct {
	WolframAppID string        `yaml:"wolfram_app_id"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // page extraction, default 10s
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns default configuration
func Default() *Config {
	cfg := &Config{}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)
	return cfg
}

// Validate checks startup-time requirements. A missing model credential is a
// configuration error: no run can proceed without it.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Agent.APIKey) == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is not set")
	}
	return nil
}

// applyEnvOverrides loads environment variables on top of file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPENROUTER_API_KEY"); v != "" {
		cfg.Agent.APIKey = v
	}
	if v := os.Getenv("OPENROUTER_API_ENDPOINT"); v != "" {
		cfg.Agent.ModelEndpoint = v
	}
	if v := os.Getenv("WOLFRAM_APP_ID"); v != "" {
		cfg.Tools.WolframAppID = v
	}
	// Search API keys select a provider only when the file left the choice
	// open; an explicitly configured provider is never overridden, and each
	// provider only picks up its own key.
	braveKey := os.Getenv("BRAVE_API_KEY")
	tavilyKey := os.Getenv("TAVILY_API_KEY")
	if cfg.Search.Provider == "" {
		switch {
		case braveKey != "":
			cfg.Search.Provider = "brave"
		case tavilyKey != "":
			cfg.Search.Provider = "tavily"
		}
	}
	switch cfg.Search.Provider {
	case "brave":
		if braveKey != "" {
			cfg.Search.APIKey = braveKey
		}
	case "tavily":
		if tavilyKey != "" {
			cfg.Search.APIKey = tavilyKey
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Agent.ModelEndpoint == "" {
		cfg.Agent.ModelEndpoint = "https://openrouter.ai/api/v1"
	}
	if cfg.Agent.Model == "" {
		cfg.Agent.Model = "anthropic/claude-3.7-sonnet"
	}
	if cfg.Agent.MaxTurns <= 0 {
		cfg.Agent.MaxTurns = 10
	}
	if cfg.Agent.PromptFile == "" {
		cfg.Agent.PromptFile = "system_prompt.txt"
	}
	if cfg.Agent.Timeout <= 0 {
		cfg.Agent.Timeout = 60 * time.Second
	}
	if cfg.Search.Provider == "" {
		cfg.Search.Provider = "duckduckgo"
	}
	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = 5
	}
	if cfg.Search.Timeout <= 0 {
		cfg.Search.Timeout = 10 * time.Second
	}
	if cfg.Tools.FetchTimeout <= 0 {
		cfg.Tools.FetchTimeout = 10 * time.Second
	}
}
