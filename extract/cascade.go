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


package extract

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sellarium/catagraph/ai"
	"github.com/sellarium/catagraph/core"
)

const (
	// DefaultAttemptTimeout bounds a single generation call. Local models
	// under load routinely take several seconds per response.
	DefaultAttemptTimeout = 14 * time.Second

	// DefaultBackoff is the base pause between tier attempts, jittered to
	// avoid lockstep retries across concurrent workers.
	DefaultBackoff = 400 * time.Millisecond
)

// Tier is one rung of the extraction cascade. Later tiers trade prompt
// richness for parseability: a smaller description budget and a stricter
// schema make a struggling model more likely to emit valid JSON.
type Tier struct {
	Name           string
	DescriptionCap int
	Schema         SchemaLevel
	SystemHint     string
}

// DefaultTiers returns the standard three-rung cascade.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "full", DescriptionCap: DefaultDescriptionCap, Schema: SchemaNone},
		{Name: "minimal", DescriptionCap: 600, Schema: SchemaMinimal, SystemHint: StrictFormatHint},
		{Name: "tiny", DescriptionCap: 450, Schema: SchemaTiny, SystemHint: StrictFormatHint},
	}
}

// Cascade runs tiered extraction attempts against a text generator, falling
// through progressively stricter prompts until one yields a validated
// extraction, then salvaging fragments from the raw responses as a last
// resort.
type Cascade struct {
	generator      ai.TextGenerator
	tiers          []Tier
	attemptTimeout time.Duration
	backoff        time.Duration
	logger         *slog.Logger
}

// CascadeOption customizes a Cascade.
type CascadeOption func(*Cascade)

// WithAttemptTimeout bounds each generation call.
func WithAttemptTimeout(d time.Duration) CascadeOption {
	return func(c *Cascade) {
		if d > 0 {
			c.attemptTimeout = d
		}
	}
}

// WithBackoff sets the base pause between tier attempts.
func WithBackoff(d time.Duration) CascadeOption {
	return func(c *Cascade) {
		if d >= 0 {
			c.backoff = d
		}
	}
}

// WithTiers replaces the default tier ladder.
func WithTiers(tiers []Tier) CascadeOption {
	return func(c *Cascade) {
		if len(tiers) > 0 {
			c.tiers = tiers
		}
	}
}

// WithCascadeLogger sets the logger used for per-tier diagnostics.
func WithCascadeLogger(logger *slog.Logger) CascadeOption {
	return func(c *Cascade) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCascade creates a cascade over the given generator.
func NewCascade(generator ai.TextGenerator, opts ...CascadeOption) (*Cascade, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	c := &Cascade{
		generator:      generator,
		tiers:          DefaultTiers(),
		attemptTimeout: DefaultAttemptTimeout,
		backoff:        DefaultBackoff,
		logger:         slog.Default().With("component", "cascade"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.tiers) == 0 {
		return nil, ErrNoTiers
	}

	return c, nil
}

// Extract runs the cascade for one product. The returned Result always
// carries the per-tier failure trail; Extraction is nil only when every
// tier and the salvage scan came up empty. Cancellation of ctx stops the
// cascade between attempts.
func (c *Cascade) Extract(ctx context.Context, product *core.Product) *Result {
	started := time.Now()
	result := &Result{}

	// The longest raw response is the best salvage candidate: a truncated
	// full-tier answer usually holds more entity pairs than a tiny-tier one.
	var longestRaw string

	for i, tier := range c.tiers {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				break
			}
		}

		raw, ex, failure := c.attempt(ctx, tier, product)
		if len(raw) > len(longestRaw) {
			longestRaw = raw
		}
		if failure != nil {
			result.Failures = append(result.Failures, *failure)
			c.logger.Debug("tier failed",
				"product_id", product.ID,
				"tier", tier.Name,
				"reason", string(failure.Reason),
				"elapsed", failure.Elapsed)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		result.Extraction = ex
		result.Tier = tier.Name
		result.Elapsed = time.Since(started)
		return result
	}

	if ex := Salvage(longestRaw, product.ID); ex != nil {
		c.logger.Debug("salvaged entities from raw response",
			"product_id", product.ID,
			"entities", len(ex.Entities))
		result.Extraction = ex
		result.Tier = "salvage"
		result.Salvaged = true
	}

	result.Elapsed = time.Since(started)
	return result
}

// attempt runs one tier: normalize, prompt, generate, recover, validate.
func (c *Cascade) attempt(ctx context.Context, tier Tier, product *core.Product) (string, *Extraction, *TierFailure) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
	defer cancel()

	normalized := Normalize(product, tier.DescriptionCap)
	req := ai.GenerateRequest{
		Prompt:         BuildPrompt(normalized),
		Temperature:    0,
		ResponseSchema: SchemaFor(tier.Schema),
		SystemHint:     tier.SystemHint,
	}

	attemptStart := time.Now()
	raw, err := c.generator.GenerateText(attemptCtx, req)
	elapsed := time.Since(attemptStart)
	if err != nil {
		reason := FailError
		if errors.Is(err, context.DeadlineExceeded) {
			reason = FailTimeout
		}
		return "", nil, &TierFailure{Tier: tier.Name, Reason: reason, Elapsed: elapsed, Detail: err.Error()}
	}

	doc, err := RecoverJSON(raw)
	if err != nil {
		return raw, nil, &TierFailure{Tier: tier.Name, Reason: FailInvalidJSON, Elapsed: elapsed, Detail: err.Error()}
	}

	ex, err := Validate(doc, product.ID)
	if err != nil {
		return raw, nil, &TierFailure{Tier: tier.Name, Reason: FailSchemaInvalid, Elapsed: elapsed, Detail: err.Error()}
	}

	return raw, ex, nil
}

// pause sleeps the jittered backoff, honoring cancellation.
func (c *Cascade) pause(ctx context.Context) error {
	if c.backoff <= 0 {
		return ctx.Err()
	}
	delay := c.backoff/2 + time.Duration(rand.Int63n(int64(c.backoff)))
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
