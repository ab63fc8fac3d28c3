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


package core

import "fmt"

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - Merchant must not be empty
//   - Slug must be non-empty and at most MaxSlugLen characters
//   - Name and Type must not be empty
//
// NOT validated (maintained by the persistence writer):
//   - Examples (grows monotonically across runs)
//   - Timestamps (set by the repository)
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if entity.Merchant == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyMerchant)
	}

	if entity.Slug == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptySlug)
	}

	if len(entity.Slug) > MaxSlugLen {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrSlugTooLong)
	}

	if entity.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityName)
	}

	if entity.Type == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityType)
	}

	return nil
}

// ValidateLink validates a Link according to domain rules.
//
// Validation rules:
//   - Merchant and ProductID must not be empty
//   - every listed slug must be non-empty and at most MaxSlugLen characters
func ValidateLink(link *Link) error {
	if link == nil {
		return fmt.Errorf("%w: link is nil", ErrInvalidLink)
	}

	if link.Merchant == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLink, ErrEmptyMerchant)
	}

	if link.ProductID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLink, ErrEmptyProductID)
	}

	for _, slug := range link.Slugs {
		if slug == "" {
			return fmt.Errorf("%w: %w", ErrInvalidLink, ErrEmptySlug)
		}
		if len(slug) > MaxSlugLen {
			return fmt.Errorf("%w: %w: %q", ErrInvalidLink, ErrSlugTooLong, slug)
		}
	}

	return nil
}
