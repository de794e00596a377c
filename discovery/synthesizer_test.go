package discovery

import (
	"context"
	"testing"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addTestHub(t *testing.T, repos *badger.Repositories, status core.CurationStatus, memberIds ...core.ID) *core.SuggestedHub {
	t.Helper()

	hub, err := repos.Hubs.AddHub(context.Background(), &core.SuggestedHub{
		SuggestedTitle: "Hub: Pruning & Graph",
		MemberDocIds:   memberIds,
		Centroid:       []float32{1, 0, 0},
		ClusterQuality: 0.9,
		Algorithm:      "greedy-cosine",
		InputDocCount:  len(memberIds),
		Status:         status,
	})
	require.NoError(t, err)
	return hub
}

func newTestSynthesizer(t *testing.T, repos *badger.Repositories) *Synthesizer {
	t.Helper()
	s, err := NewSynthesizer(repos.Embedding, repos.Hubs, repos.Journeys, repos.Runs)
	require.NoError(t, err)
	return s
}

func TestNewSynthesizer(t *testing.T) {
	repos := newTestRepos(t)

	t.Run("valid", func(t *testing.T) {
		s, err := NewSynthesizer(repos.Embedding, repos.Hubs, repos.Journeys, repos.Runs)
		require.NoError(t, err)
		require.NotNil(t, s)
	})

	t.Run("nil embedding repository", func(t *testing.T) {
		_, err := NewSynthesizer(nil, repos.Hubs, repos.Journeys, repos.Runs)
		assert.Equal(t, ErrEmbeddingRepositoryRequired, err)
	})

	t.Run("nil hub repository", func(t *testing.T) {
		_, err := NewSynthesizer(repos.Embedding, nil, repos.Journeys, repos.Runs)
		assert.Equal(t, ErrHubRepositoryRequired, err)
	})

	t.Run("nil journey repository", func(t *testing.T) {
		_, err := NewSynthesizer(repos.Embedding, repos.Hubs, nil, repos.Runs)
		assert.Equal(t, ErrJourneyRepositoryRequired, err)
	})

	t.Run("nil run repository", func(t *testing.T) {
		_, err := NewSynthesizer(repos.Embedding, repos.Hubs, repos.Journeys, nil)
		assert.Equal(t, ErrRunRepositoryRequired, err)
	})
}

// The path starts at the first stored member and walks to the nearest
// unvisited neighbor at each step.
func TestSynthesizer_SynthesizeJourneys(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a := addEmbeddedDocument(t, repos, "Start", "a", []float32{1, 0, 0})
	b := addEmbeddedDocument(t, repos, "Far", "b", []float32{0, 1, 0})
	c := addEmbeddedDocument(t, repos, "Close", "c", []float32{0.9, 0.1, 0})
	hub := addTestHub(t, repos, core.CurationApproved, a.Id, b.Id, c.Id)

	synth := newTestSynthesizer(t, repos)
	result, err := synth.SynthesizeJourneys(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.JourneysCreated)

	journeys, err := repos.Journeys.ListHubJourneys(ctx, hub.Id)
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	journey := journeys[0]
	assert.Equal(t, []core.ID{a.Id, c.Id, b.Id}, journey.NodeDocIds)
	assert.Equal(t, "Journey: Pruning & Graph", journey.SuggestedTitle)
	assert.Equal(t, "nearest-neighbor", journey.SynthesisMethod)
	assert.Equal(t, core.CurationSuggested, journey.Status)

	run, err := repos.Runs.GetRun(ctx, result.RunId)
	require.NoError(t, err)
	assert.Equal(t, core.StageSynthesize, run.Stage)
	assert.Equal(t, core.RunComplete, run.Status)
	assert.Equal(t, 1, run.JourneysCreated)
	assert.Equal(t, 3, run.DocumentsProcessed)
	assert.Empty(t, run.Errors)
}

func TestSynthesizer_SynthesizeJourneys_SuggestedHubs(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a := addEmbeddedDocument(t, repos, "One", "a", []float32{1, 0, 0})
	b := addEmbeddedDocument(t, repos, "Two", "b", []float32{0.9, 0.1, 0})
	addTestHub(t, repos, core.CurationSuggested, a.Id, b.Id)

	synth := newTestSynthesizer(t, repos)

	t.Run("skipped by default", func(t *testing.T) {
		result, err := synth.SynthesizeJourneys(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, result.JourneysCreated)
	})

	t.Run("included on request", func(t *testing.T) {
		result, err := synth.SynthesizeJourneys(ctx, &SynthesizeOptions{IncludeSuggested: true})
		require.NoError(t, err)
		assert.Equal(t, 1, result.JourneysCreated)
	})
}

func TestSynthesizer_SynthesizeJourneys_TooFewEmbedded(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a := addEmbeddedDocument(t, repos, "Only embedded", "a", []float32{1, 0, 0})
	doc, err := repos.Documents.AddDocument(ctx, &core.Document{
		Title:           "No vector",
		Content:         "b",
		ContentHash:     core.ContentHash("b"),
		Tier:            core.TierSapling,
		SourceType:      "upload",
		EmbeddingStatus: core.EmbeddingPending,
	})
	require.NoError(t, err)
	addTestHub(t, repos, core.CurationApproved, a.Id, doc.Id)

	synth := newTestSynthesizer(t, repos)
	result, err := synth.SynthesizeJourneys(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.JourneysCreated)

	run, err := repos.Runs.GetRun(ctx, result.RunId)
	require.NoError(t, err)
	assert.Equal(t, core.RunComplete, run.Status)
	assert.Empty(t, run.Errors)
}

// Members without a document vector keep their stored order at the end of
// the path, so every member appears exactly once.
func TestSynthesizer_SynthesizeJourneys_VectorlessMembers(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	a := addEmbeddedDocument(t, repos, "First", "a", []float32{1, 0, 0})
	doc, err := repos.Documents.AddDocument(ctx, &core.Document{
		Title:           "Unembedded",
		Content:         "x",
		ContentHash:     core.ContentHash("x"),
		Tier:            core.TierSapling,
		SourceType:      "upload",
		EmbeddingStatus: core.EmbeddingPending,
	})
	require.NoError(t, err)
	c := addEmbeddedDocument(t, repos, "Second", "c", []float32{0.9, 0.1, 0})
	hub := addTestHub(t, repos, core.CurationApproved, a.Id, doc.Id, c.Id)

	synth := newTestSynthesizer(t, repos)
	result, err := synth.SynthesizeJourneys(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.JourneysCreated)

	journeys, err := repos.Journeys.ListHubJourneys(ctx, hub.Id)
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.Equal(t, []core.ID{a.Id, c.Id, doc.Id}, journeys[0].NodeDocIds)
}

func TestSynthesizer_SynthesizeJourneys_NoHubs(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	synth := newTestSynthesizer(t, repos)
	result, err := synth.SynthesizeJourneys(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.JourneysCreated)

	run, err := repos.Runs.GetRun(ctx, result.RunId)
	require.NoError(t, err)
	assert.Equal(t, core.RunComplete, run.Status)
}
