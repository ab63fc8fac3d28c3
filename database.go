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


package catagraph

import (
	"log/slog"
	"time"

	"github.com/sellarium/catagraph/ai"
	"github.com/sellarium/catagraph/ai/openai"
	"github.com/sellarium/catagraph/extract"
	"github.com/sellarium/catagraph/index"
	"github.com/sellarium/catagraph/storage"
	"github.com/sellarium/catagraph/storage/badger"
)

// Database bundles the catalog store, the entity graph, and the LLM
// provider behind one handle. It is the embedding entry point; the CLI is a
// thin wrapper over it.
type Database struct {
	backend     *badger.Backend
	catalogRepo storage.CatalogRepository
	graphRepo   storage.GraphRepository
	provider    ai.Provider
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig overrides the default LLM service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// NewDatabase opens the store at filePath and wires up repositories and the
// LLM provider.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	catalogRepo, err := badger.NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	graphRepo, err := badger.NewGraphRepository(backend)
	if err != nil {
		catalogRepo.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		graphRepo.Close()
		catalogRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:     backend,
		catalogRepo: catalogRepo,
		graphRepo:   graphRepo,
		provider:    provider,
		logger:      slog.Default(),
	}, nil
}

// Close releases the provider, repositories, and backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.graphRepo.Close(); err != nil {
		db.logger.Error("error closing graph repository", "err", err)
		return err
	}
	if err := db.catalogRepo.Close(); err != nil {
		db.logger.Error("error closing catalog repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// CatalogRepository returns the product catalog store.
func (db *Database) CatalogRepository() storage.CatalogRepository {
	return db.catalogRepo
}

// GraphRepository returns the entity graph store.
func (db *Database) GraphRepository() storage.GraphRepository {
	return db.graphRepo
}

// NewIndexPipeline builds an indexing pipeline over this database's stores
// and LLM provider. attemptTimeout <= 0 uses the cascade default.
func (db *Database) NewIndexPipeline(attemptTimeout time.Duration, opts ...index.PipelineOption) (*index.Pipeline, error) {
	cascadeOpts := []extract.CascadeOption{}
	if attemptTimeout > 0 {
		cascadeOpts = append(cascadeOpts, extract.WithAttemptTimeout(attemptTimeout))
	}

	cascade, err := extract.NewCascade(db.provider.Generator(), cascadeOpts...)
	if err != nil {
		return nil, err
	}

	return index.NewPipeline(db.catalogRepo, db.graphRepo, cascade, opts...)
}
