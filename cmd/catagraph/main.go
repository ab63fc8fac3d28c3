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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/sellarium/catagraph"
	"github.com/sellarium/catagraph/ai"
	"github.com/sellarium/catagraph/core"
	"github.com/sellarium/catagraph/index"
)

func main() {
	// Missing .env is fine; flags and real env still apply. Loaded before
	// the app runs so EnvVars-backed flags can see it.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "catagraph",
		Usage: "Entity extraction and knowledge graph indexing for merchant catalogs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "bootstrap",
				Usage:  "Index a merchant's whole catalog",
				Action: bootstrapCommand,
				Flags: append(storeFlags(), append(llmFlags(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of products to index (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Run extraction without committing anything",
					},
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Maximum products indexed in parallel",
						Value: index.DefaultConcurrency,
					},
					&cli.DurationFlag{
						Name:  "attempt-timeout",
						Usage: "Timeout per LLM generation attempt",
						Value: 14 * time.Second,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N products",
						Value: 10,
					})...),
			},
			{
				Name:      "index",
				Usage:     "Re-index a single product",
				ArgsUsage: "<product-id>",
				Action:    indexCommand,
				Flags: append(storeFlags(), append(llmFlags(),
					&cli.DurationFlag{
						Name:  "attempt-timeout",
						Usage: "Timeout per LLM generation attempt",
						Value: 14 * time.Second,
					})...),
			},
			{
				Name:      "seed",
				Usage:     "Load product documents from a JSON file into the catalog",
				ArgsUsage: "<products.json>",
				Action:    seedCommand,
				Flags:     storeFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "merchant",
			Aliases:  []string{"m"},
			Usage:    "Merchant id",
			Required: true,
		},
	}
}

func llmFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "llm-host",
			Usage:   "LLM service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"CATAGRAPH_LLM_HOST"},
		},
		&cli.StringFlag{
			Name:    "llm-model",
			Usage:   "LLM model name",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"CATAGRAPH_LLM_MODEL"},
		},
		&cli.Float64Flag{
			Name:  "llm-rps",
			Usage: "Request rate ceiling against the LLM service",
			Value: 4,
		},
	}
}

func openDatabase(c *cli.Context) (*catagraph.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("llm-host")),
		ai.WithModel(c.String("llm-model")),
		ai.WithRequestsPerSecond(c.Float64("llm-rps")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid LLM configuration: %w", err)
	}

	db, err := catagraph.NewDatabase(c.String("db"), catagraph.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func bootstrapCommand(c *cli.Context) error {
	ctx := context.Background()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIndexPipeline(c.Duration("attempt-timeout"),
		index.WithConcurrency(c.Int("concurrency")),
		index.WithDryRun(c.Bool("dry-run")),
		index.WithProgress(os.Stderr, c.Int("report-interval")),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	summary, err := pipeline.Bootstrap(ctx, c.String("merchant"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	printSummary(summary)
	return nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	productID := c.Args().First()
	if productID == "" {
		return fmt.Errorf("product id argument is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIndexPipeline(c.Duration("attempt-timeout"))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	outcome, err := pipeline.IndexProduct(ctx, c.String("merchant"), productID)
	if err != nil {
		return fmt.Errorf("indexing %s failed: %w", productID, err)
	}

	fmt.Fprintf(os.Stderr, "Product:  %s\n", outcome.ProductID)
	fmt.Fprintf(os.Stderr, "Tier:     %s\n", outcome.Tier)
	fmt.Fprintf(os.Stderr, "Entities: %d\n", outcome.Entities)
	fmt.Fprintf(os.Stderr, "Wrote:    %t\n", outcome.Wrote)
	fmt.Fprintf(os.Stderr, "Elapsed:  %s\n", outcome.Elapsed.Round(time.Millisecond))
	for _, f := range outcome.Failures {
		fmt.Fprintf(os.Stderr, "  tier %s failed: %s (%s)\n", f.Tier, f.Reason, f.Detail)
	}
	return nil
}

// seedProduct is the JSON shape of one catalog document in a seed file.
type seedProduct struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Specs       map[string]string `json:"specs"`
}

func seedCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("products file argument is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read products file: %w", err)
	}

	var seeds []seedProduct
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("failed to parse products file: %w", err)
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	products := make([]*core.Product, 0, len(seeds))
	for _, s := range seeds {
		if s.ID == "" {
			return fmt.Errorf("product with empty id in %s", path)
		}
		products = append(products, &core.Product{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Tags:        s.Tags,
			Specs:       s.Specs,
		})
	}

	if err := db.CatalogRepository().AddProducts(ctx, c.String("merchant"), products...); err != nil {
		return fmt.Errorf("failed to store products: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Seeded %d products for merchant %s\n", len(products), c.String("merchant"))
	return nil
}

func printSummary(s *index.Summary) {
	fmt.Fprintf(os.Stderr, "Processed: %d\n", s.Processed)
	fmt.Fprintf(os.Stderr, "Written:   %d\n", s.Written)
	fmt.Fprintf(os.Stderr, "Failures:  %d\n", s.Failures)
	fmt.Fprintf(os.Stderr, "Avg cascade latency: %s\n", s.AvgCascadeLatency.Round(time.Millisecond))
	if len(s.Reasons) > 0 {
		reasons := make([]string, 0, len(s.Reasons))
		for r := range s.Reasons {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)
		fmt.Fprintln(os.Stderr, "Tier failure reasons:")
		for _, r := range reasons {
			fmt.Fprintf(os.Stderr, "  %s: %d\n", r, s.Reasons[r])
		}
	}
}

func setup(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
