package discovery

import (
	"context"
	"testing"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepos(t *testing.T) *badger.Repositories {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return repos
}

func addEmbeddedDocument(t *testing.T, repos *badger.Repositories, title, content string, vector []float32) *core.Document {
	t.Helper()
	ctx := context.Background()

	doc, err := repos.Documents.AddDocument(ctx, &core.Document{
		Title:           title,
		Content:         content,
		ContentHash:     core.ContentHash(content),
		Tier:            core.TierSapling,
		SourceType:      "upload",
		EmbeddingStatus: core.EmbeddingComplete,
	})
	require.NoError(t, err)

	require.NoError(t, repos.Embedding.PutEmbedding(ctx, &core.Embedding{
		DocumentId: doc.Id,
		Vector:     vector,
	}))
	return doc
}

func newTestClusterer(t *testing.T, repos *badger.Repositories) *Clusterer {
	t.Helper()
	c, err := NewClusterer(repos.Documents, repos.Embedding, repos.Hubs, repos.Runs)
	require.NoError(t, err)
	return c
}

func TestNewClusterer(t *testing.T) {
	repos := newTestRepos(t)

	t.Run("valid", func(t *testing.T) {
		c, err := NewClusterer(repos.Documents, repos.Embedding, repos.Hubs, repos.Runs)
		require.NoError(t, err)
		require.NotNil(t, c)
	})

	t.Run("nil document repository", func(t *testing.T) {
		_, err := NewClusterer(nil, repos.Embedding, repos.Hubs, repos.Runs)
		assert.Equal(t, ErrDocumentRepositoryRequired, err)
	})

	t.Run("nil embedding repository", func(t *testing.T) {
		_, err := NewClusterer(repos.Documents, nil, repos.Hubs, repos.Runs)
		assert.Equal(t, ErrEmbeddingRepositoryRequired, err)
	})

	t.Run("nil hub repository", func(t *testing.T) {
		_, err := NewClusterer(repos.Documents, repos.Embedding, nil, repos.Runs)
		assert.Equal(t, ErrHubRepositoryRequired, err)
	})

	t.Run("nil run repository", func(t *testing.T) {
		_, err := NewClusterer(repos.Documents, repos.Embedding, repos.Hubs, nil)
		assert.Equal(t, ErrRunRepositoryRequired, err)
	})
}

// Three tightly related documents and two outliers at the default threshold
// should form exactly one hub containing the related three.
func TestClusterer_ClusterDocuments(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a := addEmbeddedDocument(t, repos, "Graph pruning basics", "a", []float32{1, 0, 0})
	b := addEmbeddedDocument(t, repos, "Advanced graph pruning", "b", []float32{0.95, 0.05, 0})
	c := addEmbeddedDocument(t, repos, "Pruning large graphs", "c", []float32{0.9, 0.1, 0})
	addEmbeddedDocument(t, repos, "Sourdough starters", "d", []float32{0, 1, 0})
	addEmbeddedDocument(t, repos, "Bicycle maintenance", "e", []float32{0, 0, 1})

	clusterer := newTestClusterer(t, repos)
	result, err := clusterer.ClusterDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.HubsCreated)

	hubs, err := repos.Hubs.ListHubs(ctx)
	require.NoError(t, err)
	require.Len(t, hubs, 1)

	hub := hubs[0]
	assert.Equal(t, []core.ID{a.Id, b.Id, c.Id}, hub.MemberDocIds)
	assert.Equal(t, "Hub: Pruning & Graph", hub.SuggestedTitle)
	assert.Equal(t, "greedy-cosine", hub.Algorithm)
	assert.Equal(t, 5, hub.InputDocCount)
	assert.Equal(t, core.CurationSuggested, hub.Status)
	assert.Greater(t, hub.ClusterQuality, float32(0.9))
	assert.Len(t, hub.Centroid, 3)

	run, err := repos.Runs.GetRun(ctx, result.RunId)
	require.NoError(t, err)
	assert.Equal(t, core.StageCluster, run.Stage)
	assert.Equal(t, core.RunComplete, run.Status)
	assert.Equal(t, 5, run.DocumentsProcessed)
	assert.Equal(t, 1, run.ClustersCreated)
	assert.False(t, run.CompletedAt.IsZero())
	assert.Empty(t, run.Errors)
}

func TestClusterer_ClusterDocuments_TooFewEmbedded(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	addEmbeddedDocument(t, repos, "Lone document", "alone", []float32{1, 0, 0})

	clusterer := newTestClusterer(t, repos)
	result, err := clusterer.ClusterDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.HubsCreated)

	run, err := repos.Runs.GetRun(ctx, result.RunId)
	require.NoError(t, err)
	assert.Equal(t, core.RunComplete, run.Status)
	assert.Equal(t, 1, run.DocumentsProcessed)
	assert.Equal(t, 0, run.ClustersCreated)
}

func TestClusterer_ClusterDocuments_EmptyCorpus(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	clusterer := newTestClusterer(t, repos)
	result, err := clusterer.ClusterDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.HubsCreated)

	run, err := repos.Runs.GetRun(ctx, result.RunId)
	require.NoError(t, err)
	assert.Equal(t, core.RunComplete, run.Status)
	assert.Equal(t, 0, run.DocumentsProcessed)
}

// A discarded candidate cluster must release its members so later seeds can
// recruit them.
func TestClusterer_ClusterDocuments_DiscardedSeedReleased(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	// Unit vectors at 0, 20 and 40 degrees: adjacent pairs sit at cosine
	// 0.94, the outer pair at 0.77. The a seed gathers only {a, b}, which
	// misses the minimum size and is discarded; the b seed then recruits
	// both released neighbors.
	a := addEmbeddedDocument(t, repos, "First", "a", []float32{1, 0, 0})
	b := addEmbeddedDocument(t, repos, "Second", "b", []float32{0.9397, 0.342, 0})
	c := addEmbeddedDocument(t, repos, "Third", "c", []float32{0.766, 0.6428, 0})

	clusterer := newTestClusterer(t, repos)
	result, err := clusterer.ClusterDocuments(ctx, &ClusterOptions{
		MinClusterSize:      3,
		SimilarityThreshold: 0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.HubsCreated)

	hubs, err := repos.Hubs.ListHubs(ctx)
	require.NoError(t, err)
	require.Len(t, hubs, 1)
	assert.Equal(t, []core.ID{b.Id, a.Id, c.Id}, hubs[0].MemberDocIds)
}

func TestClusterer_ClusterDocuments_SkipsArchived(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a := addEmbeddedDocument(t, repos, "Kept one", "a", []float32{1, 0, 0})
	b := addEmbeddedDocument(t, repos, "Archived one", "b", []float32{0.95, 0.05, 0})
	c := addEmbeddedDocument(t, repos, "Kept two", "c", []float32{0.9, 0.1, 0})

	b.Archived = true
	_, err := repos.Documents.UpdateDocument(ctx, b)
	require.NoError(t, err)

	clusterer := newTestClusterer(t, repos)
	result, err := clusterer.ClusterDocuments(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.HubsCreated)

	hubs, err := repos.Hubs.ListHubs(ctx)
	require.NoError(t, err)
	require.Len(t, hubs, 1)
	assert.Equal(t, []core.ID{a.Id, c.Id}, hubs[0].MemberDocIds)

	run, err := repos.Runs.GetRun(ctx, result.RunId)
	require.NoError(t, err)
	assert.Equal(t, 2, run.DocumentsProcessed)
}
