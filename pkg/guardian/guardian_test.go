package guardian

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vidscope/vidscope/pkg/domain"
)

func baseSettings() domain.Settings {
	return domain.Settings{
		GuardianEnabled:   true,
		MinScoreThreshold: 30,
		FocusSchedule: domain.FocusSchedule{
			FocusThreshold: 50,
		},
	}
}

func analysisWithScores(productivity, educational, entertainment int, tags ...string) domain.VideoAnalysis {
	return domain.VideoAnalysis{
		Tags: tags,
		Scores: domain.ContentScores{
			Productivity:  productivity,
			Educational:   educational,
			Entertainment: entertainment,
		},
	}
}

// focusSettings returns settings with an always-on focus period covering the
// given time
func focusSettings(now time.Time) domain.Settings {
	s := baseSettings()
	s.FocusSchedule.Enabled = true
	s.FocusSchedule.Periods = []domain.FocusPeriod{
		{Days: []int{int(now.Weekday())}, StartHour: 0, EndHour: 24},
	}
	return s
}

func TestDecide_GuardianDisabled(t *testing.T) {
	settings := baseSettings()
	settings.GuardianEnabled = false

	d := Decide(analysisWithScores(0, 0, 0, "spam"), settings, time.Now())
	assert.False(t, d.Block)
	assert.Empty(t, d.Reason)
}

func TestDecide_BlockedTags(t *testing.T) {
	settings := baseSettings()
	settings.BlockedTags = []string{"drama", "Reaction"}

	tests := []struct {
		name    string
		tags    []string
		blocked bool
		matched []string
	}{
		{name: "exact match", tags: []string{"drama"}, blocked: true, matched: []string{"drama"}},
		{name: "case insensitive", tags: []string{"DRAMA"}, blocked: true, matched: []string{"DRAMA"}},
		{name: "substring match", tags: []string{"reaction video"}, blocked: true, matched: []string{"reaction video"}},
		{name: "multiple matches", tags: []string{"celeb drama", "reaction"}, blocked: true, matched: []string{"celeb drama", "reaction"}},
		{name: "no match", tags: []string{"programming"}, blocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analysisWithScores(80, 80, 10, tt.tags...)
			d := Decide(a, settings, time.Now())
			assert.Equal(t, tt.blocked, d.Block)
			if tt.blocked {
				assert.Equal(t, ReasonBlockedTags, d.Reason)
				assert.Equal(t, tt.matched, d.BlockedTags)
			}
		})
	}
}

func TestDecide_LowScores(t *testing.T) {
	settings := baseSettings() // threshold 30

	d := Decide(analysisWithScores(10, 20, 29), settings, time.Now())
	assert.True(t, d.Block)
	assert.Equal(t, ReasonLowScores, d.Reason)

	// one score at the threshold is enough to pass
	d = Decide(analysisWithScores(10, 20, 30), settings, time.Now())
	assert.False(t, d.Block)
}

func TestDecide_FocusThresholdApplies(t *testing.T) {
	now := time.Now()
	settings := focusSettings(now) // focus threshold 50

	// passes the normal threshold but not the focus one
	d := Decide(analysisWithScores(40, 45, 35), settings, now)
	assert.True(t, d.Block)
	assert.Equal(t, ReasonLowScores, d.Reason)
	assert.True(t, d.FocusMode)

	d = Decide(analysisWithScores(55, 10, 10), settings, now)
	assert.False(t, d.Block)
	assert.True(t, d.FocusMode)
}

func TestDecide_FocusEntertainmentBlock(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name               string
		blockEntertainment bool
		scores             [3]int // productivity, educational, entertainment
		blocked            bool
	}{
		{name: "dominant entertainment blocked", blockEntertainment: true, scores: [3]int{50, 55, 70}, blocked: true},
		{name: "toggle off", blockEntertainment: false, scores: [3]int{50, 55, 70}, blocked: false},
		{name: "below floor", blockEntertainment: true, scores: [3]int{50, 50, 59}, blocked: false},
		{name: "not dominant", blockEntertainment: true, scores: [3]int{80, 50, 70}, blocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := focusSettings(now)
			settings.FocusSchedule.BlockEntertainment = tt.blockEntertainment

			d := Decide(analysisWithScores(tt.scores[0], tt.scores[1], tt.scores[2]), settings, now)
			assert.Equal(t, tt.blocked, d.Block)
			if tt.blocked {
				assert.Equal(t, ReasonFocusEntertainment, d.Reason)
				assert.True(t, d.FocusMode)
			}
		})
	}
}

func TestDecide_PausedFocusUsesNormalThreshold(t *testing.T) {
	now := time.Now()
	settings := focusSettings(now)
	until := now.Add(time.Hour).UnixMilli()
	settings.FocusSchedule.PausedUntil = &until

	// would fail the focus threshold 50, passes the normal threshold 30
	d := Decide(analysisWithScores(40, 10, 10), settings, now)
	assert.False(t, d.Block)
	assert.False(t, d.FocusMode)
}

func TestDecide_TagCheckBeatsScores(t *testing.T) {
	settings := baseSettings()
	settings.BlockedTags = []string{"spam"}

	// both conditions hold, tag reason wins
	d := Decide(analysisWithScores(0, 0, 0, "spam"), settings, time.Now())
	assert.True(t, d.Block)
	assert.Equal(t, ReasonBlockedTags, d.Reason)
}
