package ai

import "context"

// GenerateRequest describes one text-generation call. The transport makes
// no promise that the response is JSON; callers parse and repair the raw
// text themselves. Timeouts are caller-enforced through the context.
type GenerateRequest struct {
	// Prompt is the full user prompt.
	Prompt string

	// Model overrides the configured model when non-empty.
	Model string

	// Temperature and TopP are sampling parameters. Zero values are passed
	// through as-is (extraction runs at temperature 0).
	Temperature float64
	TopP        float64

	// MaxOutputTokens overrides the configured response bound when positive.
	MaxOutputTokens int

	// ResponseSchema, when non-empty, is a schema the model is asked to
	// follow. Sent as part of the system message; not enforced by the
	// transport.
	ResponseSchema string

	// SystemHint is an extra system instruction (e.g. corrective formatting
	// rules on escalation tiers).
	SystemHint string
}

// TextGenerator produces free-form text from a prompt.
// Implementations must be thread-safe for concurrent use.
type TextGenerator interface {
	// GenerateText performs one generation call and returns the raw response
	// text. The text is expected, but not guaranteed, to be valid JSON.
	GenerateText(ctx context.Context, req GenerateRequest) (string, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management.
type Provider interface {
	// Generator returns the text-generation service.
	// The returned TextGenerator is safe for concurrent use.
	Generator() TextGenerator

	// Close releases resources held by the provider and its services.
	Close() error
}
