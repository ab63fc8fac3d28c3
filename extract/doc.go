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


// Package extract turns raw product records into structured entity
// extractions via a tiered LLM cascade.
//
// A cascade attempt normalizes the product text, builds a prompt, calls the
// text generator, recovers JSON from the (often malformed) response, and
// validates the result into the canonical Extraction shape. When a tier
// fails, the next tier retries with a shorter description budget and a
// stricter schema; after all tiers fail, a salvage scan pulls name/type
// pairs out of the longest raw response. HeuristicBaseline provides a
// model-free floor that never fails.
package extract
