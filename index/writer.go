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


package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/sellarium/catagraph/core"
	"github.com/sellarium/catagraph/extract"
	"github.com/sellarium/catagraph/storage"
)

const (
	// DefaultBatchCap bounds the number of operations in one graph commit.
	DefaultBatchCap = 400

	// DefaultWriteRetries is how many times a failed flush is retried.
	DefaultWriteRetries = 3

	// DefaultWriteRetryDelay is the base backoff between flush retries.
	DefaultWriteRetryDelay = 250 * time.Millisecond
)

// Writer turns extraction results into graph documents and commits them.
// Each product's writes go out as one atomic batch: its Link document plus
// an upsert per entity. A batch rejected with a merge conflict is retried
// with the conflicting op, and only that op, flagged for plain overwrite
// instead of merge; any other storage error is surfaced after retries.
type Writer struct {
	graph      storage.GraphRepository
	batchCap   int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithBatchCap bounds operations per commit.
func WithBatchCap(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.batchCap = n
		}
	}
}

// WithWriteRetries sets the flush retry count.
func WithWriteRetries(n int) WriterOption {
	return func(w *Writer) {
		if n > 0 {
			w.maxRetries = n
		}
	}
}

// WithWriteRetryDelay sets the base backoff between flush retries.
func WithWriteRetryDelay(d time.Duration) WriterOption {
	return func(w *Writer) {
		if d > 0 {
			w.retryDelay = d
		}
	}
}

// WithWriterLogger sets the logger.
func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWriter creates a Writer over a graph repository.
func NewWriter(graph storage.GraphRepository, opts ...WriterOption) (*Writer, error) {
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}

	w := &Writer{
		graph:      graph,
		batchCap:   DefaultBatchCap,
		maxRetries: DefaultWriteRetries,
		retryDelay: DefaultWriteRetryDelay,
		logger:     slog.Default().With("component", "writer"),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// WriteExtraction persists one extraction result. status and confidence are
// stamped on every entity written, reflecting how the extraction was
// obtained. Returns whether any stored bytes actually changed: re-indexing
// an unchanged product reports wrote=false.
func (w *Writer) WriteExtraction(ctx context.Context, merchant string, ex *extract.Extraction, status core.EntityStatus, confidence float64) (bool, error) {
	if merchant == "" {
		return false, ErrEmptyMerchant
	}

	ops := w.buildOps(merchant, ex, status, confidence)
	if len(ops) == 0 {
		return false, nil
	}

	written := 0
	for start := 0; start < len(ops); start += w.batchCap {
		end := start + w.batchCap
		if end > len(ops) {
			end = len(ops)
		}

		n, err := w.flush(ctx, &storage.GraphBatch{Merchant: merchant, Ops: ops[start:end]})
		if err != nil {
			return written > 0, fmt.Errorf("flushing batch for product %s: %w", ex.ProductID, err)
		}
		written += n
	}

	return written > 0, nil
}

// flush commits one batch, downgrading the single conflicting entity merge
// to an overwrite when the store reports a merge conflict. The other ops in
// the batch keep merging, so an unrelated corrupt document cannot wipe
// their accumulated example sets.
func (w *Writer) flush(ctx context.Context, batch *storage.GraphBatch) (int, error) {
	written := 0
	err := RetryWithBackoff(ctx, func() error {
		n, err := w.graph.ApplyBatch(ctx, batch)
		for err != nil {
			var conflict *storage.MergeConflictError
			if !errors.As(err, &conflict) || !w.markOverwrite(batch, conflict.Slug) {
				break
			}
			w.logger.Warn("merge conflict, retrying op as overwrite",
				"merchant", batch.Merchant, "slug", conflict.Slug, "error", err)
			n, err = w.graph.ApplyBatch(ctx, batch)
		}
		if err != nil {
			return err
		}
		written = n
		return nil
	}, w.maxRetries, w.retryDelay)
	return written, err
}

// markOverwrite flags the entity op for slug. Returns false when the batch
// has no such op or it is already flagged, which stops the conflict loop.
func (w *Writer) markOverwrite(batch *storage.GraphBatch, slug string) bool {
	for i := range batch.Ops {
		if op := batch.Ops[i]; op.Entity != nil && op.Entity.Slug == slug && !op.Overwrite {
			batch.Ops[i].Overwrite = true
			return true
		}
	}
	return false
}

// buildOps converts an extraction into graph operations: one entity upsert
// per distinct slug (specs become entities of type "spec"), then the Link
// replacement. Duplicate slugs within one extraction collapse onto the
// first occurrence.
func (w *Writer) buildOps(merchant string, ex *extract.Extraction, status core.EntityStatus, confidence float64) []storage.GraphOp {
	now := time.Now().UTC()
	seen := make(map[string]bool)
	slugs := make([]string, 0, len(ex.Entities))
	evidence := make(map[string][]string)
	ops := make([]storage.GraphOp, 0, len(ex.Entities)+len(ex.Specs)+1)

	for _, ent := range ex.Entities {
		slug := core.Slugify(ent.Name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		slugs = append(slugs, slug)
		if len(ent.Evidence) > 0 {
			evidence[slug] = ent.Evidence
		}

		ops = append(ops, storage.GraphOp{Entity: &core.Entity{
			Merchant:   merchant,
			Slug:       slug,
			Name:       ent.Name,
			Type:       ent.Type,
			Synonyms:   ent.Synonyms,
			Fact:       ent.Fact,
			Cautions:   ent.Cautions,
			Status:     status,
			Confidence: confidence,
			Examples:   []string{ex.ProductID},
			InsertedAt: now,
			UpdatedAt:  now,
		}})
	}

	for _, spec := range ex.Specs {
		slug := core.Slugify(spec.Name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		slugs = append(slugs, slug)

		ops = append(ops, storage.GraphOp{Entity: &core.Entity{
			Merchant:   merchant,
			Slug:       slug,
			Name:       spec.Name,
			Type:       "spec",
			Fact:       specFact(spec),
			Status:     status,
			Confidence: confidence,
			Examples:   []string{ex.ProductID},
			InsertedAt: now,
			UpdatedAt:  now,
		}})
	}

	if len(ops) == 0 {
		return nil
	}

	sort.Strings(slugs)
	ops = append(ops, storage.GraphOp{Link: &core.Link{
		Merchant:  merchant,
		ProductID: ex.ProductID,
		Slugs:     slugs,
		Evidence:  evidence,
		UpdatedAt: now,
	}})

	return ops
}

// specFact renders a spec's value as the entity fact line.
func specFact(spec extract.Spec) string {
	if spec.Unit != "" && !strings.HasSuffix(spec.Value, spec.Unit) {
		return spec.Value + " " + spec.Unit
	}
	return spec.Value
}
