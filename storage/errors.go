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


package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that the requested document was not found.
	ErrNotFound = errors.New("document not found")

	// ErrMergeConflict indicates a stored document could not be combined
	// with the incoming write (e.g. the stored bytes no longer decode).
	// Callers may retry the operation as a plain overwrite.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrTransactionFailed indicates that a transaction failed.
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrEmptyBatch indicates an empty batch was submitted for commit.
	ErrEmptyBatch = errors.New("empty batch")
)

// MergeConflictError identifies the entity document that could not be
// merged, so a caller can retry just that operation as an overwrite
// instead of downgrading the whole batch.
type MergeConflictError struct {
	Merchant string
	Slug     string
	Err      error
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("%v: entity %s/%s: %v", ErrMergeConflict, e.Merchant, e.Slug, e.Err)
}

func (e *MergeConflictError) Unwrap() []error {
	return []error{ErrMergeConflict, e.Err}
}
