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


package openai

import "github.com/sellarium/catagraph/ai"

// Provider aggregates the OpenAI-backed AI services.
type Provider struct {
	generator *Generator
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider backed by an OpenAI-compatible service.
//
// Returns ai.Provider interface to enforce abstraction.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	generator, err := newGenerator(config)
	if err != nil {
		return nil, err
	}
	return &Provider{generator: generator}, nil
}

// Generator returns the text-generation service.
func (p *Provider) Generator() ai.TextGenerator {
	return p.generator
}

// Close releases resources. The underlying HTTP client needs no explicit
// shutdown.
func (p *Provider) Close() error {
	return nil
}
