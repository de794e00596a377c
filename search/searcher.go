package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arborlabs/arbor/ai"
	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
)

// Searcher provides semantic similarity search over document-level embeddings,
// with optional LLM query expansion for terse queries.
type Searcher struct {
	documents  storage.DocumentRepository
	embeddings storage.EmbeddingRepository
	embedder   ai.Embedder
	expander   ai.QueryExpander
	logger     *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	documents storage.DocumentRepository,
	embeddings storage.EmbeddingRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Searcher, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	s := &Searcher{
		documents:  documents,
		embeddings: embeddings,
		embedder:   provider.Embedder(),
		expander:   provider.QueryExpander(),
		logger:     slog.Default().With("component", "searcher"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Options holds optional search parameters.
type Options struct {
	Limit     int     // Maximum results. Default: 10
	Threshold float32 // Minimum similarity. Default: 0.5
	Expand    bool    // Allow query expansion. Default: true
}

// DefaultOptions returns the default search parameters.
func DefaultOptions() *Options {
	return &Options{
		Limit:     10,
		Threshold: 0.5,
		Expand:    true,
	}
}

// Result is one search hit.
type Result struct {
	Id         core.ID
	Title      string
	Snippet    string
	Similarity float32
}

// Response holds the results of one search, including the expanded query when
// expansion was applied.
type Response struct {
	Query         string
	ExpandedQuery string
	Results       []Result
}

// Search finds documents semantically similar to the query, ordered by
// similarity descending. When opts is nil the defaults apply.
//
// Expansion failures never abort the search; the raw query is used instead.
func (s *Searcher) Search(ctx context.Context, query string, opts *Options) (*Response, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	resp := &Response{Query: query}

	text := query
	if opts.Expand && shouldExpandQuery(query) {
		expanded, err := s.expander.ExpandQuery(ctx, query)
		switch {
		case err != nil:
			s.logger.Warn("query expansion failed, using raw query", "err", err)
		case !saneExpansion(query, expanded):
			s.logger.Debug("rejecting query expansion", "expanded_length", len(expanded))
		default:
			text = expanded
			resp.ExpandedQuery = expanded
		}
	}

	vector, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		s.logger.Error("error generating embedding for query", "err", err)
		return nil, err
	}

	matches, err := s.embeddings.NearestDocuments(ctx, vector, limit, opts.Threshold)
	if err != nil {
		s.logger.Error("error querying for similar documents", "err", err)
		return nil, err
	}

	resp.Results = make([]Result, 0, len(matches))
	for _, match := range matches {
		resp.Results = append(resp.Results, Result{
			Id:         match.Id,
			Title:      match.Title,
			Snippet:    snippet(match.Content),
			Similarity: match.Similarity,
		})
	}

	s.logger.Debug("search finished",
		"hits", len(resp.Results), "expanded", resp.ExpandedQuery != "")

	return resp, nil
}

// FindSimilarDocuments finds documents similar to an existing document using
// its own document-level embedding as the query vector. The source document
// is excluded from the results. Returns storage.ErrNotFound when the source
// document does not exist and ErrDocumentNotEmbedded when it has no
// document-level embedding yet.
func (s *Searcher) FindSimilarDocuments(ctx context.Context, id core.ID, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}

	if _, err := s.documents.GetDocument(ctx, id); err != nil {
		return nil, err
	}

	emb, err := s.embeddings.GetDocumentEmbedding(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: document %d", ErrDocumentNotEmbedded, id)
		}
		return nil, err
	}

	// Ask for one extra: the document matches itself at similarity 1
	matches, err := s.embeddings.NearestDocuments(ctx, emb.Vector, limit+1, 0)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, limit)
	for _, match := range matches {
		if match.Id == id {
			continue
		}
		if len(results) >= limit {
			break
		}
		results = append(results, Result{
			Id:         match.Id,
			Title:      match.Title,
			Snippet:    snippet(match.Content),
			Similarity: match.Similarity,
		})
	}

	return results, nil
}
