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


package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
)

const clusterAlgorithm = "greedy-cosine"

// ClusterOptions control a clustering run.
type ClusterOptions struct {
	// MinClusterSize is the smallest cluster worth keeping. Candidate
	// clusters below this size are discarded and their members released.
	MinClusterSize int

	// SimilarityThreshold is the minimum cosine similarity to the seed
	// document for cluster membership.
	SimilarityThreshold float32
}

// DefaultClusterOptions returns the standard clustering parameters.
func DefaultClusterOptions() *ClusterOptions {
	return &ClusterOptions{
		MinClusterSize:      2,
		SimilarityThreshold: 0.7,
	}
}

// ClusterResult summarizes a clustering run.
type ClusterResult struct {
	HubsCreated int
	RunId       core.ID
}

// Clusterer groups embedded documents into suggested hubs by greedy
// single-pass cosine clustering.
type Clusterer struct {
	documents  storage.DocumentRepository
	embeddings storage.EmbeddingRepository
	hubs       storage.HubRepository
	runs       storage.RunRepository
	logger     *slog.Logger
}

// ClustererOption configures a Clusterer.
type ClustererOption func(*Clusterer)

// WithClustererLogger sets the logger.
func WithClustererLogger(logger *slog.Logger) ClustererOption {
	return func(c *Clusterer) {
		c.logger = logger
	}
}

// NewClusterer creates a clusterer over the given repositories.
func NewClusterer(documents storage.DocumentRepository, embeddings storage.EmbeddingRepository, hubs storage.HubRepository, runs storage.RunRepository, opts ...ClustererOption) (*Clusterer, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if embeddings == nil {
		return nil, ErrEmbeddingRepositoryRequired
	}
	if hubs == nil {
		return nil, ErrHubRepositoryRequired
	}
	if runs == nil {
		return nil, ErrRunRepositoryRequired
	}

	c := &Clusterer{
		documents:  documents,
		embeddings: embeddings,
		hubs:       hubs,
		runs:       runs,
		logger:     slog.Default().With("component", "clusterer"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// clusterItem pairs a document with its unit-length document vector.
type clusterItem struct {
	doc    *core.Document
	vector []float32
}

// ClusterDocuments runs one clustering pass over every non-archived document
// that has a document-level embedding and records it as a PipelineRun.
//
// Documents are visited in creation order. Each unassigned document seeds a
// candidate cluster of all unassigned documents within the similarity
// threshold of the seed. Candidates below MinClusterSize are discarded and
// their members stay available to later seeds. Individual hub write failures
// are recorded in the run's errors without aborting the pass.
func (c *Clusterer) ClusterDocuments(ctx context.Context, opts *ClusterOptions) (*ClusterResult, error) {
	if opts == nil {
		opts = DefaultClusterOptions()
	}
	minSize := opts.MinClusterSize
	if minSize <= 0 {
		minSize = 2
	}

	run, err := c.runs.StartRun(ctx, core.StageCluster)
	if err != nil {
		return nil, fmt.Errorf("starting cluster run: %w", err)
	}

	items, err := c.loadItems(ctx)
	if err != nil {
		return nil, c.failRun(ctx, run, err)
	}
	run.DocumentsProcessed = len(items)

	hubsCreated := 0
	if len(items) >= minSize {
		assigned := make([]bool, len(items))
		for i := range items {
			if assigned[i] {
				continue
			}
			members := []int{i}
			for j := range items {
				if j == i || assigned[j] {
					continue
				}
				if core.CosineSimilarity(items[i].vector, items[j].vector) >= opts.SimilarityThreshold {
					members = append(members, j)
				}
			}
			if len(members) < minSize {
				continue
			}
			for _, m := range members {
				assigned[m] = true
			}

			hub := buildHub(items, members, len(items))
			if _, err := c.hubs.AddHub(ctx, hub); err != nil {
				run.Errors = append(run.Errors, fmt.Sprintf("hub %q: %v", hub.SuggestedTitle, err))
				c.logger.Warn("failed to store suggested hub",
					"title", hub.SuggestedTitle,
					"error", err)
				continue
			}
			hubsCreated++
		}
	}

	run.ClustersCreated = hubsCreated
	run.Status = core.RunComplete
	run.CompletedAt = time.Now()
	if _, err := c.runs.UpdateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("completing cluster run: %w", err)
	}

	c.logger.Info("clustering complete",
		"documents", len(items),
		"hubs", hubsCreated)

	return &ClusterResult{HubsCreated: hubsCreated, RunId: run.Id}, nil
}

// loadItems joins document-level embeddings with their documents, skipping
// archived documents, ordered by creation time then id.
func (c *Clusterer) loadItems(ctx context.Context) ([]clusterItem, error) {
	embs, err := c.embeddings.ListDocumentEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing document embeddings: %w", err)
	}
	if len(embs) == 0 {
		return nil, nil
	}

	ids := make([]core.ID, len(embs))
	vectors := make(map[core.ID][]float32, len(embs))
	for i, emb := range embs {
		ids[i] = emb.DocumentId
		vectors[emb.DocumentId] = emb.Vector
	}

	docs, err := c.documents.GetDocuments(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("loading embedded documents: %w", err)
	}

	items := make([]clusterItem, 0, len(docs))
	for _, doc := range docs {
		if doc.Archived {
			continue
		}
		items = append(items, clusterItem{doc: doc, vector: vectors[doc.Id]})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].doc.CreatedAt.Equal(items[j].doc.CreatedAt) {
			return items[i].doc.Id < items[j].doc.Id
		}
		return items[i].doc.CreatedAt.Before(items[j].doc.CreatedAt)
	})
	return items, nil
}

// buildHub assembles a SuggestedHub from the member items: centroid, mean
// member-to-centroid similarity as quality, and a title from member titles.
func buildHub(items []clusterItem, members []int, inputCount int) *core.SuggestedHub {
	memberIds := make([]core.ID, len(members))
	vectors := make([][]float32, len(members))
	titles := make([]string, len(members))
	for i, m := range members {
		memberIds[i] = items[m].doc.Id
		vectors[i] = items[m].vector
		titles[i] = items[m].doc.Title
	}

	centroid := core.Centroid(vectors)
	var quality float32
	for _, v := range vectors {
		quality += core.CosineSimilarity(v, centroid)
	}
	quality /= float32(len(vectors))

	return &core.SuggestedHub{
		SuggestedTitle: suggestHubTitle(titles),
		MemberDocIds:   memberIds,
		Centroid:       centroid,
		ClusterQuality: quality,
		Algorithm:      clusterAlgorithm,
		InputDocCount:  inputCount,
		Status:         core.CurationSuggested,
	}
}

// failRun marks the run as aborted and returns the cause.
func (c *Clusterer) failRun(ctx context.Context, run *core.PipelineRun, cause error) error {
	run.Status = core.RunError
	run.Errors = append(run.Errors, cause.Error())
	run.CompletedAt = time.Now()
	if _, err := c.runs.UpdateRun(ctx, run); err != nil {
		c.logger.Warn("failed to record run failure", "run", run.Id, "error", err)
	}
	return cause
}
