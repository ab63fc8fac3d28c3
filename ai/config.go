// Copyright 2025 Sellarium Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for the text-generation service.
type Config struct {
	// Host is the base URL for the generation service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	Host string

	// Model is the model identifier to use for extraction calls.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	Model string

	// MaxOutputTokens bounds the length of generated responses.
	// Default: 1024
	MaxOutputTokens int

	// RequestsPerSecond throttles calls to the generation service.
	// Default: 4
	RequestsPerSecond float64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the generation service host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithModel sets the generation model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithMaxOutputTokens sets the response length bound.
func WithMaxOutputTokens(tokens int) ConfigOption {
	return func(c *Config) {
		c.MaxOutputTokens = tokens
	}
}

// WithRequestsPerSecond sets the call rate limit.
func WithRequestsPerSecond(rps float64) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = rps
	}
}

// DefaultConfig returns a Config with sensible defaults for local
// OpenAI-compatible services.
func DefaultConfig() *Config {
	return &Config{
		Host:              "http://localhost:11434/v1",
		Model:             "qwen2.5:3b",
		MaxOutputTokens:   1024,
		RequestsPerSecond: 4,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form. It adds the
// /v1 suffix to the host if missing, which most OpenAI-compatible APIs
// (Ollama, LocalAI, vLLM, etc) require.
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Model == "" {
		return errors.New("ai config: Model is required")
	}
	if c.MaxOutputTokens <= 0 {
		return errors.New("ai config: MaxOutputTokens must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("ai config: RequestsPerSecond must be positive")
	}
	return nil
}
