// Copyright 2026 Arbor Labs
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

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - Tier must be a known value
//   - EmbeddingStatus must be a known value
//
// NOT validated (populated by the pipeline):
//   - ContentHash (derived from Content at ingestion)
//   - ID (0 is valid before database sequences assign one)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	if err := ValidateTier(doc.Tier); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if err := ValidateEmbeddingStatus(doc.EmbeddingStatus); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - DocumentId must be set
//   - Content must not be empty
//   - Index must be non-negative
//   - CharStart/CharEnd must form a non-empty, ordered span
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.DocumentId == 0 {
		return fmt.Errorf("%w: document id is not set", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.Index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidChunk, chunk.Index)
	}

	if chunk.CharStart < 0 || chunk.CharEnd <= chunk.CharStart {
		return fmt.Errorf("%w: bad span [%d,%d)", ErrInvalidChunk, chunk.CharStart, chunk.CharEnd)
	}

	return nil
}

// ValidateEmbedding validates an Embedding according to domain rules.
//
// Validation rules:
//   - DocumentId must be set
//   - Vector must have at least one component
//
// ChunkId is NOT validated: 0 is the document-level embedding.
func ValidateEmbedding(emb *Embedding) error {
	if emb == nil {
		return fmt.Errorf("%w: embedding is nil", ErrInvalidEmbedding)
	}

	if emb.DocumentId == 0 {
		return fmt.Errorf("%w: document id is not set", ErrInvalidEmbedding)
	}

	if len(emb.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmbedding, ErrEmptyVector)
	}

	return nil
}

// ValidateHub validates a SuggestedHub according to domain rules.
//
// Validation rules:
//   - SuggestedTitle must not be empty
//   - MemberDocIds must not be empty
//   - Status must be a known value
func ValidateHub(hub *SuggestedHub) error {
	if hub == nil {
		return fmt.Errorf("%w: hub is nil", ErrInvalidHub)
	}

	if hub.SuggestedTitle == "" {
		return fmt.Errorf("%w: suggested title cannot be empty", ErrInvalidHub)
	}

	if len(hub.MemberDocIds) == 0 {
		return fmt.Errorf("%w: no member documents", ErrInvalidHub)
	}

	if err := ValidateCurationStatus(hub.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHub, err)
	}

	return nil
}

// ValidateJourney validates a SuggestedJourney according to domain rules.
//
// Validation rules:
//   - HubId must be set
//   - SuggestedTitle must not be empty
//   - NodeDocIds must not be empty
//   - Status must be a known value
func ValidateJourney(journey *SuggestedJourney) error {
	if journey == nil {
		return fmt.Errorf("%w: journey is nil", ErrInvalidJourney)
	}

	if journey.HubId == 0 {
		return fmt.Errorf("%w: hub id is not set", ErrInvalidJourney)
	}

	if journey.SuggestedTitle == "" {
		return fmt.Errorf("%w: suggested title cannot be empty", ErrInvalidJourney)
	}

	if len(journey.NodeDocIds) == 0 {
		return fmt.Errorf("%w: no node documents", ErrInvalidJourney)
	}

	if err := ValidateCurationStatus(journey.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJourney, err)
	}

	return nil
}

// ValidateTier validates that a Tier has a known value.
func ValidateTier(tier Tier) error {
	switch tier {
	case TierSapling, TierTree, TierGrove:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidTier, tier)
	}
}

// ValidateEmbeddingStatus validates that an EmbeddingStatus has a known value.
func ValidateEmbeddingStatus(status EmbeddingStatus) error {
	switch status {
	case EmbeddingPending, EmbeddingProcessing, EmbeddingComplete, EmbeddingError:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidEmbeddingStatus, status)
	}
}

// ValidateCurationStatus validates that a CurationStatus has a known value.
func ValidateCurationStatus(status CurationStatus) error {
	switch status {
	case CurationSuggested, CurationApproved, CurationRejected:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidCurationStatus, status)
	}
}
