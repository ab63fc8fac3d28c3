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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidLink indicates a Link failed validation.
	ErrInvalidLink = errors.New("invalid link")

	// ErrEmptySlug indicates the entity Slug field is empty.
	ErrEmptySlug = errors.New("slug cannot be empty")

	// ErrSlugTooLong indicates the entity Slug exceeds MaxSlugLen.
	ErrSlugTooLong = errors.New("slug exceeds maximum length")

	// ErrEmptyEntityName indicates the entity Name field is empty.
	ErrEmptyEntityName = errors.New("entity name cannot be empty")

	// ErrEmptyEntityType indicates the entity Type field is empty.
	ErrEmptyEntityType = errors.New("entity type cannot be empty")

	// ErrEmptyMerchant indicates the merchant identifier is empty.
	ErrEmptyMerchant = errors.New("merchant cannot be empty")

	// ErrEmptyProductID indicates the product identifier is empty.
	ErrEmptyProductID = errors.New("product id cannot be empty")
)
