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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidEmbedding indicates an Embedding failed validation.
	ErrInvalidEmbedding = errors.New("invalid embedding")

	// ErrInvalidHub indicates a SuggestedHub failed validation.
	ErrInvalidHub = errors.New("invalid hub")

	// ErrInvalidJourney indicates a SuggestedJourney failed validation.
	ErrInvalidJourney = errors.New("invalid journey")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyVector indicates an embedding vector has no components.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrInvalidTier indicates an unrecognized Tier value or name.
	ErrInvalidTier = errors.New("invalid tier")

	// ErrInvalidEmbeddingStatus indicates an unrecognized EmbeddingStatus
	// value or name.
	ErrInvalidEmbeddingStatus = errors.New("invalid embedding status")

	// ErrInvalidCurationStatus indicates an unrecognized CurationStatus
	// value or name.
	ErrInvalidCurationStatus = errors.New("invalid curation status")

	// ErrInvalidRunStage indicates an unrecognized RunStage value.
	ErrInvalidRunStage = errors.New("invalid run stage")
)
