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
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sellarium/catagraph/core"
	"github.com/sellarium/catagraph/extract"
	"github.com/sellarium/catagraph/storage"
)

// Pipeline orchestrates indexing a merchant's catalog: pull products, run
// the extraction cascade on each, and commit the results. Products are
// processed concurrently under the scheduler's ceiling; a failure on one
// product never aborts the rest.
type Pipeline struct {
	catalog   storage.CatalogRepository
	cascade   *extract.Cascade
	writer    *Writer
	scheduler *Scheduler

	concurrency    int
	dryRun         bool
	progressOut    io.Writer
	reportInterval int
	logger         *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithConcurrency sets the ceiling on in-flight products.
func WithConcurrency(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithDryRun runs extraction without committing anything.
func WithDryRun(dryRun bool) PipelineOption {
	return func(p *Pipeline) {
		p.dryRun = dryRun
	}
}

// WithProgress enables progress reporting to out every interval products.
func WithProgress(out io.Writer, interval int) PipelineOption {
	return func(p *Pipeline) {
		p.progressOut = out
		if interval > 0 {
			p.reportInterval = interval
		}
	}
}

// WithPipelineLogger sets the logger.
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates a pipeline over a catalog, a graph writer, and an
// extraction cascade.
func NewPipeline(catalog storage.CatalogRepository, graph storage.GraphRepository, cascade *extract.Cascade, opts ...PipelineOption) (*Pipeline, error) {
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if graph == nil {
		return nil, ErrGraphRepositoryRequired
	}
	if cascade == nil {
		return nil, ErrCascadeRequired
	}

	p := &Pipeline{
		catalog:        catalog,
		cascade:        cascade,
		concurrency:    DefaultConcurrency,
		reportInterval: 10,
		logger:         slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}

	writer, err := NewWriter(graph, WithWriterLogger(p.logger))
	if err != nil {
		return nil, err
	}
	p.writer = writer

	scheduler, err := NewScheduler(p.concurrency, p.logger)
	if err != nil {
		return nil, err
	}
	p.scheduler = scheduler

	return p, nil
}

// Summary aggregates one bootstrap run.
type Summary struct {
	Processed         int
	Written           int
	Failures          int
	Reasons           map[string]int
	AvgCascadeLatency time.Duration
}

// ProductOutcome reports how one product was indexed.
type ProductOutcome struct {
	ProductID string
	Tier      string
	Salvaged  bool
	Wrote     bool
	Entities  int
	Failures  []extract.TierFailure
	Elapsed   time.Duration
}

// Bootstrap indexes up to limit products of a merchant's catalog
// (limit <= 0 means all). Per-product failures are counted in the summary,
// never propagated; the returned error covers only catalog access.
func (p *Pipeline) Bootstrap(ctx context.Context, merchant string, limit int) (*Summary, error) {
	if merchant == "" {
		return nil, ErrEmptyMerchant
	}

	products, err := p.catalog.GetProducts(ctx, merchant, limit)
	if err != nil {
		return nil, err
	}

	p.logger.Info("bootstrap starting",
		"merchant", merchant,
		"products", len(products),
		"concurrency", p.scheduler.Cap(),
		"dry_run", p.dryRun)

	var tracker *ProgressTracker
	if p.progressOut != nil {
		tracker = NewProgressTracker(p.progressOut, len(products), p.reportInterval)
		tracker.Start()
	}

	summary := &Summary{Reasons: make(map[string]int)}
	var (
		mu           sync.Mutex
		totalLatency time.Duration
	)

	p.scheduler.ForEach(ctx, len(products), func(ctx context.Context, i int) error {
		outcome, err := p.indexOne(ctx, merchant, products[i])

		mu.Lock()
		if err != nil {
			summary.Failures++
			summary.Reasons[string(extract.FailError)]++
		} else {
			summary.Processed++
			if outcome.Wrote {
				summary.Written++
			}
			for _, f := range outcome.Failures {
				summary.Reasons[string(f.Reason)]++
			}
			totalLatency += outcome.Elapsed
		}
		mu.Unlock()

		if tracker != nil {
			tracker.Increment(1)
		}
		return err
	})

	if tracker != nil {
		tracker.Finish()
	}
	if summary.Processed > 0 {
		summary.AvgCascadeLatency = totalLatency / time.Duration(summary.Processed)
	}

	p.logger.Info("bootstrap finished",
		"merchant", merchant,
		"processed", summary.Processed,
		"written", summary.Written,
		"failures", summary.Failures)

	return summary, nil
}

// IndexProduct re-indexes a single product by id.
func (p *Pipeline) IndexProduct(ctx context.Context, merchant, productID string) (*ProductOutcome, error) {
	if merchant == "" {
		return nil, ErrEmptyMerchant
	}

	product, err := p.catalog.GetProduct(ctx, merchant, productID)
	if err != nil {
		return nil, err
	}

	return p.indexOne(ctx, merchant, product)
}

// indexOne runs the cascade for one product and commits the outcome. A
// cascade that exhausts every tier falls back to the heuristic baseline, so
// the only error path left is persistence itself.
func (p *Pipeline) indexOne(ctx context.Context, merchant string, product *core.Product) (*ProductOutcome, error) {
	result := p.cascade.Extract(ctx, product)

	var (
		ex         *extract.Extraction
		status     core.EntityStatus
		confidence float64
	)
	if result.OK() {
		ex = result.Extraction
		status = core.EntityStatusLLM
		confidence = tierConfidence(result.Tier)
	} else {
		ex = extract.HeuristicBaseline(product)
		status = core.EntityStatusStub
		confidence = tierConfidence("")
		result.Tier = "heuristic"
		p.logger.Debug("cascade exhausted, using heuristic baseline",
			"product_id", product.ID,
			"entities", len(ex.Entities))
	}

	outcome := &ProductOutcome{
		ProductID: product.ID,
		Tier:      result.Tier,
		Salvaged:  result.Salvaged,
		Entities:  len(ex.Entities),
		Failures:  result.Failures,
		Elapsed:   result.Elapsed,
	}

	if p.dryRun {
		return outcome, nil
	}

	wrote, err := p.writer.WriteExtraction(ctx, merchant, ex, status, confidence)
	if err != nil {
		p.logger.Error("persisting extraction failed",
			"product_id", product.ID, "error", err)
		return nil, err
	}
	outcome.Wrote = wrote

	return outcome, nil
}

// tierConfidence maps the producing tier to the confidence stamped on its
// entities. Lower tiers saw less of the product text, and salvage saw only
// fragments, so their claims are weaker.
func tierConfidence(tier string) float64 {
	switch tier {
	case "full":
		return 0.9
	case "minimal":
		return 0.8
	case "tiny":
		return 0.7
	case "salvage":
		return 0.5
	default:
		return 0.3
	}
}

// Release shuts down the worker pool. The pipeline must not be used
// afterwards.
func (p *Pipeline) Release() {
	p.scheduler.Release()
}
