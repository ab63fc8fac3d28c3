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


package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sellarium/catagraph/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

// Generator implements ai.TextGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client  llms.Model
	limiter *rate.Limiter
	logger  *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken("none"),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		logger:  slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new text generator using the provided configuration.
//
// Returns ai.TextGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.TextGenerator, error) {
	return newGenerator(config)
}

// GenerateText performs one generation call and returns the raw response
// text. Rate limiting and the caller's context deadline both apply before
// the request goes out.
func (g *Generator) GenerateText(ctx context.Context, req ai.GenerateRequest) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}

	content := make([]llms.MessageContent, 0, 2)
	if system := buildSystemMessage(req); system != "" {
		content = append(content, llms.MessageContent{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(system),
			},
		})
	}
	content = append(content, llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(req.Prompt),
		},
	})

	opts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
	}
	if req.TopP > 0 {
		opts = append(opts, llms.WithTopP(req.TopP))
	}
	if req.MaxOutputTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxOutputTokens))
	}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}

	response, err := g.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		g.logger.Debug("generation call failed", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		g.logger.Debug("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}

// buildSystemMessage combines the response schema and the corrective hint
// into one system instruction.
func buildSystemMessage(req ai.GenerateRequest) string {
	var parts []string
	if req.SystemHint != "" {
		parts = append(parts, req.SystemHint)
	}
	if req.ResponseSchema != "" {
		parts = append(parts, "Your output must exactly follow this JSON schema:\n"+req.ResponseSchema)
	}
	return strings.Join(parts, "\n\n")
}
