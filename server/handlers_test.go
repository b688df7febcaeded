package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidscope/vidscope/pkg/analyzer"
	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/memory"
)

func testAnalysis() domain.VideoAnalysis {
	return domain.VideoAnalysis{
		Summary: "A deep dive into Go concurrency patterns",
		Reason:  "matches interest in systems programming",
		Tags:    []string{"golang", "concurrency"},
		Scores: domain.ContentScores{
			Productivity:  70,
			Educational:   85,
			Entertainment: 20,
			Inspiring:     40,
			Creative:      30,
		},
		Verdict: domain.VerdictWorthIt,
	}
}

func TestAnalyzeHandler(t *testing.T) {
	env := setupTestServer(t)

	analysis := testAnalysis()
	env.analyzer.AnalyzeFunc = func(ctx context.Context, req analyzer.Request) (*domain.VideoAnalysis, error) {
		assert.Equal(t, "https://youtube.com/watch?v=abc123", req.VideoURL)
		return &analysis, nil
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/videos/analyze", map[string]interface{}{
		"videoId":    "abc123",
		"videoUrl":   "https://youtube.com/watch?v=abc123",
		"videoTitle": "Go Concurrency",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["cached"])
	require.Len(t, env.analyzer.AnalyzeCalls(), 1)

	// second request served from cache, the analyzer is not called again
	code, body = env.do(t, http.MethodPost, "/api/v1/videos/analyze", map[string]interface{}{
		"videoId":  "abc123",
		"videoUrl": "https://youtube.com/watch?v=abc123",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["cached"])
	assert.Len(t, env.analyzer.AnalyzeCalls(), 1)
}

func TestAnalyzeHandler_Regenerate(t *testing.T) {
	env := setupTestServer(t)

	analysis := testAnalysis()
	env.analyzer.AnalyzeFunc = func(ctx context.Context, req analyzer.Request) (*domain.VideoAnalysis, error) {
		return &analysis, nil
	}

	code, _ := env.do(t, http.MethodPost, "/api/v1/videos/analyze", map[string]interface{}{
		"videoId":  "abc123",
		"videoUrl": "https://youtube.com/watch?v=abc123",
	})
	require.Equal(t, http.StatusOK, code)

	// regenerate drops the cache entry and runs the pipeline again
	code, body := env.do(t, http.MethodPost, "/api/v1/videos/analyze", map[string]interface{}{
		"videoId":    "abc123",
		"videoUrl":   "https://youtube.com/watch?v=abc123",
		"regenerate": true,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["cached"])
	assert.Len(t, env.analyzer.AnalyzeCalls(), 2)
}

func TestAnalyzeHandler_PassesProfileAndMemories(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	settings, err := env.repos.Settings.Get(ctx)
	require.NoError(t, err)
	settings.AboutMe = "software engineer interested in distributed systems"
	require.NoError(t, env.repos.Settings.Save(ctx, settings))
	require.NoError(t, env.repos.Memory.Add(ctx, domain.MemoryEntry{
		ID: "mem1", Type: domain.FeedbackLike, Preference: "likes deep technical dives",
		Confidence: 0.8, CreatedAt: time.Now().UnixMilli(),
	}))

	analysis := testAnalysis()
	env.analyzer.AnalyzeFunc = func(ctx context.Context, req analyzer.Request) (*domain.VideoAnalysis, error) {
		assert.Equal(t, "software engineer interested in distributed systems", req.AboutMe)
		require.Len(t, req.Memories, 1)
		assert.Equal(t, "likes deep technical dives", req.Memories[0].Preference)
		return &analysis, nil
	}

	code, _ := env.do(t, http.MethodPost, "/api/v1/videos/analyze", map[string]interface{}{
		"videoId":  "vid1",
		"videoUrl": "https://youtube.com/watch?v=vid1",
	})
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.analyzer.AnalyzeCalls(), 1)
}

func TestAnalyzeHandler_BadRequest(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodPost, "/api/v1/videos/analyze", map[string]interface{}{
		"videoId": "abc123", // no videoUrl
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
}

func TestCachedAnalysisHandler(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	code, body := env.do(t, http.MethodGet, "/api/v1/videos/abc123/cache", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["cached"])

	require.NoError(t, env.repos.Analysis.Save(ctx, "abc123", "Go Concurrency", testAnalysis()))

	code, body = env.do(t, http.MethodGet, "/api/v1/videos/abc123/cache", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["cached"])
	require.NotNil(t, body["analysis"])
	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "A deep dive into Go concurrency patterns", analysis["summary"])
}

func TestSaveFeedbackHandler_NewMemory(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	env.memEngine.ExtractFromFeedbackFunc = func(ctx context.Context, feedback domain.FeedbackType, videoID, videoTitle string, analysis domain.VideoAnalysis) ([]domain.MemoryEntry, error) {
		assert.Equal(t, domain.FeedbackLike, feedback)
		assert.Equal(t, "abc123", videoID)
		return []domain.MemoryEntry{{
			ID: "mem1", Type: domain.FeedbackLike, Preference: "likes concurrency content",
			Confidence: 0.7, CreatedAt: time.Now().UnixMilli(),
		}}, nil
	}
	env.memEngine.CheckSimilarityFunc = func(ctx context.Context, newPreference string, existing []domain.MemoryEntry) (memory.SimilarityResult, error) {
		return memory.SimilarityResult{}, nil
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/videos/abc123/feedback", map[string]interface{}{
		"videoTitle": "Go Concurrency",
		"feedback":   "like",
		"analysis":   testAnalysis(),
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	memories, err := env.repos.Memory.List(ctx)
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "likes concurrency content", memories[0].Preference)

	fb, err := env.repos.Feedback.GetForVideo(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackLike, fb.Feedback)
}

func TestSaveFeedbackHandler_MergesSimilar(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	existing := domain.MemoryEntry{
		ID: "mem1", Type: domain.FeedbackLike, Preference: "likes Go content",
		Confidence: 0.6, CreatedAt: time.Now().UnixMilli(),
		Sources: []domain.MemorySource{{VideoID: "old1", VideoTitle: "Old Video"}},
	}
	require.NoError(t, env.repos.Memory.Add(ctx, existing))

	env.memEngine.ExtractFromFeedbackFunc = func(ctx context.Context, feedback domain.FeedbackType, videoID, videoTitle string, analysis domain.VideoAnalysis) ([]domain.MemoryEntry, error) {
		return []domain.MemoryEntry{{
			ID: "mem2", Type: domain.FeedbackLike, Preference: "likes golang videos",
			Confidence: 0.8, CreatedAt: time.Now().UnixMilli(),
			Sources: []domain.MemorySource{{VideoID: "abc123", VideoTitle: "Go Concurrency"}},
		}}, nil
	}
	env.memEngine.CheckSimilarityFunc = func(ctx context.Context, newPreference string, existing []domain.MemoryEntry) (memory.SimilarityResult, error) {
		require.Len(t, existing, 1)
		return memory.SimilarityResult{
			SimilarID:        "mem1",
			Confidence:       0.9,
			MergedPreference: "likes Go and golang content",
		}, nil
	}

	code, _ := env.do(t, http.MethodPost, "/api/v1/videos/abc123/feedback", map[string]interface{}{
		"feedback": "like",
		"analysis": testAnalysis(),
	})
	require.Equal(t, http.StatusOK, code)

	memories, err := env.repos.Memory.List(ctx)
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "mem1", memories[0].ID)
	assert.Equal(t, "likes Go and golang content", memories[0].Preference)
	assert.Len(t, memories[0].Sources, 2)
}

func TestSaveFeedbackHandler_LearningFailureDegrades(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	env.memEngine.ExtractFromFeedbackFunc = func(ctx context.Context, feedback domain.FeedbackType, videoID, videoTitle string, analysis domain.VideoAnalysis) ([]domain.MemoryEntry, error) {
		return nil, context.DeadlineExceeded
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/videos/abc123/feedback", map[string]interface{}{
		"feedback": "dislike",
		"analysis": testAnalysis(),
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	// the feedback itself must survive a learning failure
	fb, err := env.repos.Feedback.GetForVideo(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, domain.FeedbackDislike, fb.Feedback)
}

func TestSaveFeedbackHandler_RecordsLikedChannel(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	env.memEngine.ExtractFromFeedbackFunc = func(ctx context.Context, feedback domain.FeedbackType, videoID, videoTitle string, analysis domain.VideoAnalysis) ([]domain.MemoryEntry, error) {
		return nil, nil
	}

	code, _ := env.do(t, http.MethodPost, "/api/v1/videos/abc123/feedback", map[string]interface{}{
		"feedback": "like",
		"analysis": testAnalysis(),
		"channelInfo": map[string]interface{}{
			"channelId":   "ch1",
			"channelName": "Go Time",
			"channelUrl":  "https://youtube.com/@gotime",
		},
	})
	require.Equal(t, http.StatusOK, code)

	ch, err := env.repos.Channels.Get(ctx, "ch1")
	require.NoError(t, err)
	assert.Equal(t, "Go Time", ch.ChannelName)
	assert.Equal(t, 1, ch.LikeCount)
}

func TestSaveFeedbackHandler_InvalidFeedback(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodPost, "/api/v1/videos/abc123/feedback", map[string]interface{}{
		"feedback": "meh",
		"analysis": testAnalysis(),
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
}

func TestGetFeedbackHandler(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	code, body := env.do(t, http.MethodGet, "/api/v1/videos/abc123/feedback", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["hasFeedback"])

	require.NoError(t, env.repos.Feedback.Save(ctx, domain.VideoFeedback{
		VideoID: "abc123", Feedback: domain.FeedbackLike, Analysis: testAnalysis(),
		Timestamp: time.Now().UnixMilli(),
	}))

	code, body = env.do(t, http.MethodGet, "/api/v1/videos/abc123/feedback", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["hasFeedback"])
	require.NotNil(t, body["feedback"])
}

func TestRelatedContentHandler(t *testing.T) {
	env := setupTestServer(t)

	env.searcher.SearchFunc = func(ctx context.Context, query string) ([]domain.RelatedResource, error) {
		return []domain.RelatedResource{
			{Title: "Go Blog", URL: "https://go.dev/blog", Source: "go.dev"},
		}, nil
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/videos/abc123/related", map[string]interface{}{
		"summary": "Go concurrency patterns explained",
		"tags":    []string{"golang"},
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["cached"])
	assert.Len(t, env.searcher.SearchCalls(), 1)

	// second request for the same video is served from cache
	code, body = env.do(t, http.MethodPost, "/api/v1/videos/abc123/related", map[string]interface{}{
		"summary": "Go concurrency patterns explained",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["cached"])
	assert.Len(t, env.searcher.SearchCalls(), 1)
}

func TestRelatedContentHandler_EmptyQuery(t *testing.T) {
	env := setupTestServer(t)

	code, body := env.do(t, http.MethodPost, "/api/v1/videos/abc123/related", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])
}

func TestListMemoriesHandler(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	require.NoError(t, env.repos.Memory.Add(ctx, domain.MemoryEntry{
		ID: "mem1", Type: domain.FeedbackLike, Preference: "likes Go", Confidence: 0.7,
		CreatedAt: time.Now().UnixMilli(),
	}))

	code, body := env.do(t, http.MethodGet, "/api/v1/memories", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["memories"], 1)
}

func TestCondenseMemoriesHandler(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	now := time.Now().UnixMilli()
	for _, id := range []string{"mem1", "mem2", "mem3"} {
		require.NoError(t, env.repos.Memory.Add(ctx, domain.MemoryEntry{
			ID: id, Type: domain.FeedbackLike, Preference: "likes " + id, Confidence: 0.6,
			CreatedAt: now,
		}))
	}

	env.memEngine.CondenseFunc = func(ctx context.Context, memories []domain.MemoryEntry) ([]domain.MemoryEntry, error) {
		require.Len(t, memories, 3)
		return []domain.MemoryEntry{{
			ID: "mem1", Type: domain.FeedbackLike, Preference: "likes all of it", Confidence: 0.8,
			CreatedAt: now,
		}}, nil
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/memories/condense", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(3), body["before"])
	assert.Equal(t, float64(1), body["after"])

	memories, err := env.repos.Memory.List(ctx)
	require.NoError(t, err)
	require.Len(t, memories, 1)
	assert.Equal(t, "likes all of it", memories[0].Preference)
}

func TestCondenseMemoriesHandler_NoReduction(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	entry := domain.MemoryEntry{
		ID: "mem1", Type: domain.FeedbackLike, Preference: "likes Go", Confidence: 0.6,
		CreatedAt: time.Now().UnixMilli(),
	}
	require.NoError(t, env.repos.Memory.Add(ctx, entry))

	env.memEngine.CondenseFunc = func(ctx context.Context, memories []domain.MemoryEntry) ([]domain.MemoryEntry, error) {
		return memories, nil
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/memories/condense", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["before"])
	assert.Equal(t, float64(1), body["after"])

	// nothing to gain, the stored set stays untouched
	memories, err := env.repos.Memory.List(ctx)
	require.NoError(t, err)
	assert.Len(t, memories, 1)
}

func TestDeleteMemoryHandler(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	require.NoError(t, env.repos.Memory.Add(ctx, domain.MemoryEntry{
		ID: "mem1", Type: domain.FeedbackLike, Preference: "likes Go", Confidence: 0.7,
		CreatedAt: time.Now().UnixMilli(),
	}))

	code, body := env.do(t, http.MethodDelete, "/api/v1/memories/mem1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, _ = env.do(t, http.MethodDelete, "/api/v1/memories/mem1", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRegenerateProfileHandler(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	settings, err := env.repos.Settings.Get(ctx)
	require.NoError(t, err)
	settings.ManualPreferences = "no clickbait"
	require.NoError(t, env.repos.Settings.Save(ctx, settings))

	env.memEngine.SynthesizeProfileFunc = func(ctx context.Context, manualPreferences string, memories []domain.MemoryEntry) (string, error) {
		assert.Equal(t, "no clickbait", manualPreferences)
		return "an engineer who avoids clickbait", nil
	}

	code, body := env.do(t, http.MethodPost, "/api/v1/profile/regenerate", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "an engineer who avoids clickbait", body["aboutMe"])

	updated, err := env.repos.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "an engineer who avoids clickbait", updated.AboutMe)
	assert.True(t, updated.AboutMeAutoGenerated)
}

func TestValidateKeysHandler(t *testing.T) {
	tests := []struct {
		name      string
		provider  string
		genErr    error
		searchErr error
		wantCode  int
		wantValid bool
	}{
		{name: "llm valid", provider: "llm", wantCode: http.StatusOK, wantValid: true},
		{name: "llm invalid", provider: "llm", genErr: context.DeadlineExceeded, wantCode: http.StatusOK, wantValid: false},
		{name: "search valid", provider: "search", wantCode: http.StatusOK, wantValid: true},
		{name: "search invalid", provider: "search", searchErr: context.DeadlineExceeded, wantCode: http.StatusOK, wantValid: false},
		{name: "unknown provider", provider: "carrier-pigeon", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServer(t)
			env.generator.GenerateFunc = func(ctx context.Context, task, prompt string) (string, error) {
				return "OK", tt.genErr
			}
			env.searcher.SearchFunc = func(ctx context.Context, query string) ([]domain.RelatedResource, error) {
				return nil, tt.searchErr
			}

			code, body := env.do(t, http.MethodPost, "/api/v1/keys/validate", map[string]interface{}{
				"provider": tt.provider,
			})
			require.Equal(t, tt.wantCode, code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, tt.wantValid, body["valid"])
			}
		})
	}
}
