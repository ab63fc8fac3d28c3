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


// Package index drives catalog indexing end to end: it schedules products
// onto a bounded worker pool, runs the extraction cascade on each, and
// commits the resulting entity and link documents in atomic, idempotent
// batches. Indexing a product never hard-fails on model trouble — the
// cascade degrades through salvage down to a heuristic baseline — so the
// only errors a run surfaces are storage errors.
package index
