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


// Package ai provides abstractions for the hosted language-model service
// used by the extraction pipeline.
//
// The central interface is TextGenerator: one prompt in, raw text out. The
// transport deliberately makes no JSON guarantee — the extract package owns
// parsing, repair and validation of whatever comes back.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//     via langchaingo, with client-side rate limiting
//   - ai/mock: test doubles for unit testing without a model service
//
// Public constructors in implementation packages return interface types
// (ai.TextGenerator, ai.Provider) to keep callers decoupled from the
// concrete transport; mock constructors return concrete types so tests can
// inject behavior and assert call counts.
package ai
