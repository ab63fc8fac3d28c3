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


// Package storage provides the storage abstraction layer for catagraph.
//
// Two repository interfaces cover the pipeline's document families:
//
//   - CatalogRepository: per-merchant product documents (read side)
//   - GraphRepository: entity documents keyed by merchant + slug, and link
//     documents keyed by merchant + product id
//
// Public constructors in backend packages return these interfaces rather
// than concrete types, so the pipeline never couples to a specific store
// and tests can substitute in-memory implementations.
//
// Writes flow through GraphBatch, an atomically committed operation list.
// Entity operations merge with stored documents using the core merge rules;
// link operations replace wholesale. A stored document that cannot be merged
// surfaces as ErrMergeConflict so the caller can retry with an overwrite.
//
// All repository implementations must be thread-safe and accept
// context.Context for cancellation.
package storage
