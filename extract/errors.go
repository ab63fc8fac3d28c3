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


package extract

import "errors"

var (
	// ErrInvalidJSON is returned when no parse or repair sequence produced
	// valid JSON from the model's response.
	ErrInvalidJSON = errors.New("invalid_json")

	// ErrSchemaInvalid is returned when a response parsed as JSON but its
	// structure cannot be coerced into an extraction.
	ErrSchemaInvalid = errors.New("schema_invalid")

	// ErrGeneratorRequired is returned when a text generator is not provided.
	ErrGeneratorRequired = errors.New("text generator required")

	// ErrNoTiers is returned when a cascade is configured with no tiers.
	ErrNoTiers = errors.New("at least one cascade tier required")
)
