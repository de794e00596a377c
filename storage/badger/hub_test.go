package badger

import (
	"context"
	"testing"

	"github.com/arborlabs/arbor/core"
	"github.com/arborlabs/arbor/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(title string, memberIds ...core.ID) *core.SuggestedHub {
	return &core.SuggestedHub{
		SuggestedTitle: title,
		MemberDocIds:   memberIds,
		ClusterQuality: 0.8,
		Algorithm:      "greedy-cosine",
		InputDocCount:  len(memberIds),
		Status:         core.CurationSuggested,
	}
}

func TestHubRepository_AddHub(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		hub, err := repos.Hubs.AddHub(ctx, newTestHub("Hub: graphs", 1, 2, 3))
		require.NoError(t, err)
		assert.NotZero(t, hub.Id)
		assert.False(t, hub.ComputedAt.IsZero())
		assert.Equal(t, hub.ComputedAt, hub.UpdatedAt)
	})

	t.Run("rejects invalid hub", func(t *testing.T) {
		_, err := repos.Hubs.AddHub(ctx, &core.SuggestedHub{})
		assert.ErrorIs(t, err, core.ErrInvalidHub)
	})
}

func TestHubRepository_GetHub(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	added, err := repos.Hubs.AddHub(ctx, newTestHub("Hub: storage", 4, 5))
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		hub, err := repos.Hubs.GetHub(ctx, added.Id)
		require.NoError(t, err)
		assert.Equal(t, added.Id, hub.Id)
		assert.Equal(t, []core.ID{4, 5}, hub.MemberDocIds)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repos.Hubs.GetHub(ctx, core.ID(99999))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestHubRepository_ListHubs(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	first, err := repos.Hubs.AddHub(ctx, newTestHub("Hub: first", 1, 2))
	require.NoError(t, err)
	second, err := repos.Hubs.AddHub(ctx, newTestHub("Hub: second", 3, 4))
	require.NoError(t, err)
	third, err := repos.Hubs.AddHub(ctx, newTestHub("Hub: third", 5, 6))
	require.NoError(t, err)

	_, err = repos.Hubs.UpdateHubStatus(ctx, second.Id, core.CurationApproved, "")
	require.NoError(t, err)

	t.Run("newest first", func(t *testing.T) {
		hubs, err := repos.Hubs.ListHubs(ctx)
		require.NoError(t, err)
		require.Len(t, hubs, 3)
		assert.Equal(t, third.Id, hubs[0].Id)
		assert.Equal(t, second.Id, hubs[1].Id)
		assert.Equal(t, first.Id, hubs[2].Id)
	})

	t.Run("status filter", func(t *testing.T) {
		hubs, err := repos.Hubs.ListHubs(ctx, core.CurationApproved)
		require.NoError(t, err)
		require.Len(t, hubs, 1)
		assert.Equal(t, second.Id, hubs[0].Id)
	})

	t.Run("multiple statuses", func(t *testing.T) {
		hubs, err := repos.Hubs.ListHubs(ctx, core.CurationApproved, core.CurationSuggested)
		require.NoError(t, err)
		assert.Len(t, hubs, 3)
	})
}

func TestHubRepository_UpdateHubStatus(t *testing.T) {
	repos := newTestRepos(t)
	ctx := context.Background()

	added, err := repos.Hubs.AddHub(ctx, newTestHub("Hub: curation", 1, 2))
	require.NoError(t, err)

	t.Run("status only", func(t *testing.T) {
		hub, err := repos.Hubs.UpdateHubStatus(ctx, added.Id, core.CurationRejected, "")
		require.NoError(t, err)
		assert.Equal(t, core.CurationRejected, hub.Status)
		assert.Empty(t, hub.TitleOverride)
		assert.Equal(t, "Hub: curation", hub.Title())
	})

	t.Run("with title override", func(t *testing.T) {
		hub, err := repos.Hubs.UpdateHubStatus(ctx, added.Id, core.CurationApproved, "Graph Theory")
		require.NoError(t, err)
		assert.Equal(t, core.CurationApproved, hub.Status)
		assert.Equal(t, "Graph Theory", hub.TitleOverride)
		assert.Equal(t, "Graph Theory", hub.Title())

		fetched, err := repos.Hubs.GetHub(ctx, added.Id)
		require.NoError(t, err)
		assert.Equal(t, "Graph Theory", fetched.Title())
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := repos.Hubs.UpdateHubStatus(ctx, added.Id, core.CurationStatus(0), "")
		assert.ErrorIs(t, err, core.ErrInvalidCurationStatus)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repos.Hubs.UpdateHubStatus(ctx, core.ID(99999), core.CurationApproved, "")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}
