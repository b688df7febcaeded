package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidscope/vidscope/pkg/domain"
)

func TestSettingsRepository_DefaultsWhenEmpty(t *testing.T) {
	repos := setupTestRepos(t)

	settings, err := repos.Settings.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, settings.MinScoreThreshold)
	assert.True(t, settings.GuardianEnabled)
	assert.Equal(t, 20, settings.CheckinMinutes)
	assert.Equal(t, 50, settings.FocusSchedule.FocusThreshold)
	assert.False(t, settings.FocusSchedule.Enabled)
	assert.Empty(t, settings.BlockedTags)
}

func TestSettingsRepository_SaveAndGet(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	settings := domain.Settings{
		AboutMe:           "Backend engineer learning distributed systems",
		ManualPreferences: "no clickbait",
		BlockedTags:       []string{"drama", "reaction"},
		MinScoreThreshold: 40,
		GuardianEnabled:   true,
		CheckinMinutes:    15,
		FocusSchedule: domain.FocusSchedule{
			Enabled:        true,
			Periods:        []domain.FocusPeriod{{Days: []int{1, 2, 3, 4, 5}, StartHour: 9, EndHour: 17}},
			FocusThreshold: 60,
		},
	}
	require.NoError(t, repos.Settings.Save(ctx, settings))

	got, err := repos.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings, got)
}

func TestSettingsRepository_SaveOverwrites(t *testing.T) {
	repos := setupTestRepos(t)
	ctx := context.Background()

	first := domain.Settings{AboutMe: "first", MinScoreThreshold: 10}
	require.NoError(t, repos.Settings.Save(ctx, first))

	second := domain.Settings{AboutMe: "second", MinScoreThreshold: 20}
	require.NoError(t, repos.Settings.Save(ctx, second))

	got, err := repos.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got.AboutMe)
	assert.Equal(t, 20, got.MinScoreThreshold)
}
