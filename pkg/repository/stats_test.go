package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidscope/vidscope/pkg/domain"
)

func TestStatsRepository_SaveDailyAndGet(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	stats := domain.DailyStats{
		Date:         "2026-08-30",
		VideoCount:   3,
		WatchSeconds: 1800,
		ByCategory: map[string]domain.CategoryBucket{
			"educational": {Count: 2, Seconds: 1500},
			"entertain":   {Count: 1, Seconds: 300},
		},
		Channels: map[string]int{"chan1": 2, "chan2": 1},
		Tags:     []string{"databases", "go", "comedy"},
	}
	require.NoError(t, repos.Stats.SaveDaily(ctx, stats))

	got, err := repos.Stats.GetDaily(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestStatsRepository_GetDailyMissing(t *testing.T) {
	repos := setupTestRepos(t)

	_, err := repos.Stats.GetDaily(context.Background(), "1999-01-01")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsRepository_SaveDailyUpserts(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	stats := domain.DailyStats{Date: "2026-08-30", VideoCount: 1, WatchSeconds: 600}
	require.NoError(t, repos.Stats.SaveDaily(ctx, stats))

	stats.VideoCount = 2
	stats.WatchSeconds = 1200
	require.NoError(t, repos.Stats.SaveDaily(ctx, stats))

	got, err := repos.Stats.GetDaily(ctx, "2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, 2, got.VideoCount)
	assert.Equal(t, 1200, got.WatchSeconds)
}

func TestStatsRepository_ListDailyRange(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	for _, date := range []string{"2026-08-27", "2026-08-28", "2026-08-29", "2026-08-30"} {
		require.NoError(t, repos.Stats.SaveDaily(ctx, domain.DailyStats{Date: date, VideoCount: 1}))
	}

	stats, err := repos.Stats.ListDailyRange(ctx, "2026-08-28", "2026-08-29")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "2026-08-28", stats[0].Date)
	assert.Equal(t, "2026-08-29", stats[1].Date)
}

func TestStatsRepository_RecordChannelVideo(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	first := domain.ContentScores{Productivity: 80, Educational: 60, Entertainment: 20}
	require.NoError(t, repos.Stats.RecordChannelVideo(ctx, "chan1", "Tech Channel", first, now))

	got, err := repos.Stats.GetChannel(ctx, "chan1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.VideoCount)
	assert.InDelta(t, 80, got.AvgProductivity, 0.001)
	assert.InDelta(t, 60, got.AvgEducational, 0.001)
	assert.InDelta(t, 20, got.AvgEntertain, 0.001)

	// second video folds into the rolling average
	second := domain.ContentScores{Productivity: 40, Educational: 100, Entertainment: 0}
	require.NoError(t, repos.Stats.RecordChannelVideo(ctx, "chan1", "Tech Channel", second, now+1000))

	got, err = repos.Stats.GetChannel(ctx, "chan1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.VideoCount)
	assert.InDelta(t, 60, got.AvgProductivity, 0.001)
	assert.InDelta(t, 80, got.AvgEducational, 0.001)
	assert.InDelta(t, 10, got.AvgEntertain, 0.001)
	assert.Equal(t, now+1000, got.UpdatedAt)
}

func TestStatsRepository_GetChannelMissing(t *testing.T) {
	repos := setupTestRepos(t)

	_, err := repos.Stats.GetChannel(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsRepository_ListChannels(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()
	now := time.Now().UnixMilli()

	scores := domain.ContentScores{Productivity: 50}
	require.NoError(t, repos.Stats.RecordChannelVideo(ctx, "small", "Small", scores, now))
	require.NoError(t, repos.Stats.RecordChannelVideo(ctx, "big", "Big", scores, now))
	require.NoError(t, repos.Stats.RecordChannelVideo(ctx, "big", "Big", scores, now))

	channels, err := repos.Stats.ListChannels(ctx)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "big", channels[0].ChannelID, "most videos first")
	assert.Equal(t, 2, channels[0].VideoCount)
}

func TestStatsRepository_Overrides(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	// empty table reads as zero counters
	got, err := repos.Stats.GetOverrides(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.OverrideStats{}, got)

	now := time.Now().UnixMilli()
	stats := domain.OverrideStats{Total: 5, ThisWeek: 2, LastReset: now}
	require.NoError(t, repos.Stats.SaveOverrides(ctx, stats))

	got, err = repos.Stats.GetOverrides(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, got)

	// weekly reset keeps the total
	stats.ThisWeek = 0
	stats.LastReset = now + 1000
	require.NoError(t, repos.Stats.SaveOverrides(ctx, stats))

	got, err = repos.Stats.GetOverrides(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Total)
	assert.Equal(t, 0, got.ThisWeek)
}
