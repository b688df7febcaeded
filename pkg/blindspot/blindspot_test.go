package blindspot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidscope/vidscope/pkg/domain"
)

type fakeStats struct {
	days []domain.DailyStats
	from string
	to   string
}

func (f *fakeStats) ListDailyRange(_ context.Context, from, to string) ([]domain.DailyStats, error) {
	f.from, f.to = from, to
	return f.days, nil
}

func dayWithTags(date string, tags ...string) domain.DailyStats {
	return domain.DailyStats{Date: date, Tags: tags}
}

func TestMapTagToTopic(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{tag: "technology", want: "technology"},
		{tag: "Tech News", want: "technology"},
		{tag: "ai programming", want: "technology"},
		{tag: "election coverage", want: "politics"},
		{tag: "inflation explained", want: "economics"},
		{tag: "climate change", want: "environment"},
		{tag: "cooking", want: ""},
		{tag: "  ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, mapTagToTopic(tt.tag))
		})
	}
}

func TestAnalyze_NarrowTopicReported(t *testing.T) {
	stats := &fakeStats{days: []domain.DailyStats{
		// nine tech-tagged videos, all from the startup founder angle
		dayWithTags("2026-08-01", "tech", "startup founder tech", "coding", "ai"),
		dayWithTags("2026-08-02", "tech", "programming", "software", "app reviews", "coding"),
	}}
	a := NewAnalyzer(stats)

	report, err := a.Analyze(context.Background(), 30)
	require.NoError(t, err)

	require.Len(t, report.NarrowPerspectives, 1)
	np := report.NarrowPerspectives[0]
	assert.Equal(t, "technology", np.Topic)
	assert.Equal(t, 9, np.VideoCount)
	assert.Equal(t, []string{"startup founder"}, np.Perspectives)
	assert.Len(t, np.Missing, 3)
	assert.NotContains(t, np.Missing, "startup founder")
	assert.Positive(t, report.LastAnalyzed)
}

func TestAnalyze_TopicBelowVolumeNotReported(t *testing.T) {
	stats := &fakeStats{days: []domain.DailyStats{
		dayWithTags("2026-08-01", "tech", "coding", "software"), // only 3 videos
	}}
	a := NewAnalyzer(stats)

	report, err := a.Analyze(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, report.NarrowPerspectives)
}

func TestAnalyze_DiversePerspectivesNotReported(t *testing.T) {
	stats := &fakeStats{days: []domain.DailyStats{
		dayWithTags("2026-08-01", "startup founder tech", "enterprise software", "tech", "coding"),
		dayWithTags("2026-08-02", "tech", "ai", "programming", "app"),
	}}
	a := NewAnalyzer(stats)

	report, err := a.Analyze(context.Background(), 30)
	require.NoError(t, err)
	assert.Empty(t, report.NarrowPerspectives, "two perspectives present, not narrow")
}

func TestAnalyze_NoPerspectiveMarkersReportsUnknown(t *testing.T) {
	stats := &fakeStats{days: []domain.DailyStats{
		dayWithTags("2026-08-01", "politics", "election", "government", "policy"),
		dayWithTags("2026-08-02", "politics", "election night", "government shutdown", "policy debate"),
	}}
	a := NewAnalyzer(stats)

	report, err := a.Analyze(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, report.NarrowPerspectives, 1)
	assert.Equal(t, []string{"unknown"}, report.NarrowPerspectives[0].Perspectives)
}

func TestAnalyze_TopicCoverage(t *testing.T) {
	stats := &fakeStats{days: []domain.DailyStats{
		// technology and health both reach the covered floor, economics does not
		dayWithTags("2026-08-01", "tech", "coding", "software", "medical", "fitness", "wellness", "inflation"),
	}}
	a := NewAnalyzer(stats)

	report, err := a.Analyze(context.Background(), 30)
	require.NoError(t, err)
	// 2 of 8 known topics covered
	assert.Equal(t, 25, report.TopicCoverage)
}

func TestAnalyze_WindowDefaultsTo30Days(t *testing.T) {
	stats := &fakeStats{}
	a := NewAnalyzer(stats)
	a.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	_, err := a.Analyze(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "2026-07-31", stats.from)
	assert.Equal(t, "2026-08-30", stats.to)
}
