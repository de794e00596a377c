package discovery

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrEmbeddingRepositoryRequired is returned when an embedding repository is not provided.
	ErrEmbeddingRepositoryRequired = errors.New("embedding repository required")

	// ErrHubRepositoryRequired is returned when a hub repository is not provided.
	ErrHubRepositoryRequired = errors.New("hub repository required")

	// ErrJourneyRepositoryRequired is returned when a journey repository is not provided.
	ErrJourneyRepositoryRequired = errors.New("journey repository required")

	// ErrRunRepositoryRequired is returned when a run repository is not provided.
	ErrRunRepositoryRequired = errors.New("run repository required")
)
