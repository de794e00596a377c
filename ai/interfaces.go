package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// QueryExpander rewrites terse search queries into fuller statements before
// embedding. Short queries carry little semantic signal on their own; an
// expanded restatement embeds closer to the documents it should match.
// Implementations must be thread-safe for concurrent use.
type QueryExpander interface {
	// ExpandQuery returns an expanded restatement of the query.
	// Returns an error if the expansion service fails; callers are expected
	// to fall back to the original query.
	ExpandQuery(ctx context.Context, query string) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// QueryExpander instances, ensuring they share configuration and resources
// appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// QueryExpander returns the query expansion service.
	// The returned QueryExpander is safe for concurrent use.
	QueryExpander() QueryExpander

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
