package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellarium/catagraph/ai"
	"github.com/sellarium/catagraph/ai/mock"
	"github.com/sellarium/catagraph/core"
)

func cascadeTestProduct() *core.Product {
	return &core.Product{
		ID:          "p1",
		Title:       "Night Serum",
		Description: "Ingredients: Niacinamide, Zinc PCA",
		Tags:        []string{"skincare"},
	}
}

const validResponse = `{"product":{"id":"p1"},"entities":[{"name":"Niacinamide","type":"ingredient"},{"name":"Zinc PCA","type":"ingredient"}],"specs":[],"flags":[]}`

func newTestCascade(t *testing.T, gen ai.TextGenerator) *Cascade {
	t.Helper()
	c, err := NewCascade(gen, WithBackoff(0), WithAttemptTimeout(time.Second))
	require.NoError(t, err)
	return c
}

func TestCascade_FirstTierSucceeds(t *testing.T) {
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		return validResponse, nil
	}

	result := newTestCascade(t, gen).Extract(context.Background(), cascadeTestProduct())

	require.True(t, result.OK())
	assert.Equal(t, "full", result.Tier)
	assert.False(t, result.Salvaged)
	assert.Empty(t, result.Failures)
	assert.Len(t, result.Extraction.Entities, 2)
	assert.Equal(t, 1, gen.CallCount())
}

func TestCascade_EscalatesOnMalformedJSON(t *testing.T) {
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		// First attempt is garbage; the stricter tiers get valid output.
		if req.ResponseSchema == "" {
			return "I'm sorry, I can't produce JSON right now.", nil
		}
		return validResponse, nil
	}

	result := newTestCascade(t, gen).Extract(context.Background(), cascadeTestProduct())

	require.True(t, result.OK())
	assert.Equal(t, "minimal", result.Tier)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, FailInvalidJSON, result.Failures[0].Reason)
	assert.Equal(t, 2, gen.CallCount())
}

func TestCascade_EscalationTightensThePrompt(t *testing.T) {
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		return "not json", nil
	}

	product := cascadeTestProduct()
	product.Description = strings.Repeat("A very long product description. ", 60)
	newTestCascade(t, gen).Extract(context.Background(), product)

	requests := gen.Requests()
	require.Len(t, requests, 3)
	assert.Empty(t, requests[0].ResponseSchema)
	assert.NotEmpty(t, requests[1].ResponseSchema)
	assert.NotEmpty(t, requests[2].ResponseSchema)
	assert.Equal(t, StrictFormatHint, requests[1].SystemHint)
	// Later tiers see less description text.
	assert.Greater(t, len(requests[0].Prompt), len(requests[2].Prompt))
}

func TestCascade_SalvageAfterExhaustion(t *testing.T) {
	truncated := `{"product":{"id":"p1"},"entities":[{"name":"Niacinamide","type":"ingredient"`
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		return truncated, nil
	}

	result := newTestCascade(t, gen).Extract(context.Background(), cascadeTestProduct())

	require.True(t, result.OK())
	assert.Equal(t, "salvage", result.Tier)
	assert.True(t, result.Salvaged)
	assert.Len(t, result.Failures, 3, "every tier failed before salvage")
	require.Len(t, result.Extraction.Entities, 1)
	assert.Equal(t, "Niacinamide", result.Extraction.Entities[0].Name)
}

func TestCascade_AllTimeouts(t *testing.T) {
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		return "", context.DeadlineExceeded
	}

	result := newTestCascade(t, gen).Extract(context.Background(), cascadeTestProduct())

	assert.False(t, result.OK())
	require.Len(t, result.Failures, 3)
	for _, f := range result.Failures {
		assert.Equal(t, FailTimeout, f.Reason)
	}
}

func TestCascade_TransportErrors(t *testing.T) {
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		return "", errors.New("connection refused")
	}

	result := newTestCascade(t, gen).Extract(context.Background(), cascadeTestProduct())

	assert.False(t, result.OK())
	require.Len(t, result.Failures, 3)
	assert.Equal(t, FailError, result.Failures[0].Reason)
}

func TestCascade_SchemaInvalidReason(t *testing.T) {
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		return `{"entities": "not an array"}`, nil
	}

	result := newTestCascade(t, gen).Extract(context.Background(), cascadeTestProduct())

	assert.False(t, result.OK())
	require.NotEmpty(t, result.Failures)
	assert.Equal(t, FailSchemaInvalid, result.Failures[0].Reason)
}

func TestCascade_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := mock.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, req ai.GenerateRequest) (string, error) {
		cancel()
		return "", ctx.Err()
	}

	result := newTestCascade(t, gen).Extract(ctx, cascadeTestProduct())

	assert.False(t, result.OK())
	assert.Equal(t, 1, gen.CallCount(), "no further tiers after cancellation")
}

func TestNewCascade_Validation(t *testing.T) {
	_, err := NewCascade(nil)
	assert.ErrorIs(t, err, ErrGeneratorRequired)

	_, err = NewCascade(mock.NewMockTextGenerator(), WithTiers(nil))
	require.NoError(t, err, "empty option input keeps the defaults")
}
