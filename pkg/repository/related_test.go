package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidscope/vidscope/pkg/domain"
)

func testResources() []domain.RelatedResource {
	return []domain.RelatedResource{
		{
			Title:       "Understanding B-trees",
			URL:         "https://example.com/btrees",
			Description: "An article on B-tree internals",
			Source:      "example.com",
			Favicon:     "https://example.com/favicon.ico",
		},
		{
			Title:  "Index tuning guide",
			URL:    "https://docs.example.org/indexes",
			Source: "docs.example.org",
		},
	}
}

func TestRelatedRepository_SaveAndGet(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Related.Save(ctx, "vid1", testResources()))

	resources, err := repos.Related.Get(ctx, "vid1")
	require.NoError(t, err)
	require.Len(t, resources, 2)
	assert.Equal(t, "Understanding B-trees", resources[0].Title)
	assert.Equal(t, "docs.example.org", resources[1].Source)
}

func TestRelatedRepository_GetMissing(t *testing.T) {
	repos := setupTestRepos(t)

	_, err := repos.Related.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelatedRepository_ExpiredEvictedOnGet(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Related.Save(ctx, "vid1", testResources()))

	old := time.Now().Add(-8 * 24 * time.Hour).UnixMilli()
	_, err := repos.DB.ExecContext(ctx, "UPDATE related_cache SET cached_at = ? WHERE video_id = ?", old, "vid1")
	require.NoError(t, err)

	_, err = repos.Related.Get(ctx, "vid1")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := repos.Related.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRelatedRepository_SizeBound(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	// fill to capacity with strictly increasing timestamps
	base := time.Now().Add(-time.Hour).UnixMilli()
	for i := 0; i < relatedMaxEntries; i++ {
		videoID := fmt.Sprintf("vid%03d", i)
		require.NoError(t, repos.Related.Save(ctx, videoID, testResources()))
		_, err := repos.DB.ExecContext(ctx,
			"UPDATE related_cache SET cached_at = ? WHERE video_id = ?", base+int64(i), videoID)
		require.NoError(t, err)
	}

	count, err := repos.Related.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, relatedMaxEntries, count)

	// one more entry pushes out the oldest
	require.NoError(t, repos.Related.Save(ctx, "newest", testResources()))

	count, err = repos.Related.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, relatedMaxEntries, count)

	_, err = repos.Related.Get(ctx, "vid000")
	assert.ErrorIs(t, err, ErrNotFound, "oldest entry should be evicted")

	_, err = repos.Related.Get(ctx, "newest")
	assert.NoError(t, err)
}

func TestRelatedRepository_SaveReplacesWithoutEviction(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Related.Save(ctx, "vid1", testResources()))

	updated := testResources()[:1]
	updated[0].Title = "Replaced"
	require.NoError(t, repos.Related.Save(ctx, "vid1", updated))

	resources, err := repos.Related.Get(ctx, "vid1")
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, "Replaced", resources[0].Title)

	count, err := repos.Related.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRelatedRepository_CleanupExpired(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repos.Related.Save(ctx, "fresh", testResources()))
	require.NoError(t, repos.Related.Save(ctx, "stale", testResources()))

	old := time.Now().Add(-8 * 24 * time.Hour).UnixMilli()
	_, err := repos.DB.ExecContext(ctx, "UPDATE related_cache SET cached_at = ? WHERE video_id = ?", old, "stale")
	require.NoError(t, err)

	removed, err := repos.Related.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	count, err := repos.Related.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
