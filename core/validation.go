// Copyright 2025 Poiesic Systems
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

import (
	"fmt"
	"time"
)

// ValidateCandidate validates a Candidate according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//
// Empty text is allowed here: such a candidate still gets ranked, it just
// never receives an embedding and scores 0.
func ValidateCandidate(candidate Candidate) error {
	if candidate.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyCandidateID)
	}
	return nil
}

// ValidateCatalogEntry validates a CatalogEntry according to domain rules.
//
// Validation rules:
//   - CandidateID must not be empty
//   - Text must not be empty
//   - InsertedAt must not be in the future
//
// NOT validated:
//   - ID (0 is replaced by a content hash on insert)
//   - Source (free-form)
func ValidateCatalogEntry(entry *CatalogEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry is nil", ErrInvalidCatalogEntry)
	}

	if entry.CandidateID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogEntry, ErrEmptyCandidateID)
	}

	if entry.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogEntry, ErrEmptyText)
	}

	if !IsValidTimestamp(entry.InsertedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidCatalogEntry, ErrInvalidTimestamp)
	}

	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
