package server

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/oklog/ulid/v2"

	"github.com/vidscope/vidscope/pkg/analyzer"
	"github.com/vidscope/vidscope/pkg/config"
	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/memory"
	"github.com/vidscope/vidscope/pkg/repository"
	"github.com/vidscope/vidscope/pkg/search"
)

// analyzeRequest is the analyze endpoint payload
type analyzeRequest struct {
	VideoID    string `json:"videoId"`
	VideoURL   string `json:"videoUrl"`
	VideoTitle string `json:"videoTitle"`
	Regenerate bool   `json:"regenerate"`
}

// analyzeHandler runs the full analysis pipeline for a video, cache first
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if req.VideoID == "" || req.VideoURL == "" {
		renderError(w, r, fmt.Errorf("videoId and videoUrl are required"), http.StatusBadRequest)
		return
	}

	if req.Regenerate {
		if err := s.repos.Analysis.Delete(ctx, req.VideoID); err != nil {
			lgr.Printf("[WARN] failed to drop cached analysis for %s: %v", req.VideoID, err)
		}
	} else {
		cached, err := s.repos.Analysis.Get(ctx, req.VideoID, s.config.AnalysisTTL())
		if err == nil {
			renderJSON(w, r, http.StatusOK, map[string]interface{}{
				"success":  true,
				"analysis": cached.Analysis,
				"cached":   true,
			})
			return
		}
		if !errors.Is(err, repository.ErrNotFound) {
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
	}

	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	memories, err := s.repos.Memory.List(ctx)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	analysis, err := s.analyzer.Analyze(ctx, analyzer.Request{
		VideoURL: req.VideoURL,
		AboutMe:  settings.AboutMe,
		Memories: memories,
	})
	if err != nil {
		lgr.Printf("[ERROR] analysis failed for %s: %v", req.VideoID, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := s.repos.Analysis.Save(ctx, req.VideoID, req.VideoTitle, *analysis); err != nil {
		lgr.Printf("[WARN] failed to cache analysis for %s: %v", req.VideoID, err)
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
		"cached":   false,
	})
}

// cachedAnalysisHandler returns the cached analysis for a video, if any
func (s *Server) cachedAnalysisHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	cached, err := s.repos.Analysis.Get(r.Context(), videoID, s.config.AnalysisTTL())
	if errors.Is(err, repository.ErrNotFound) {
		renderJSON(w, r, http.StatusOK, map[string]interface{}{"cached": false})
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"cached":   true,
		"analysis": cached.Analysis,
	})
}

// feedbackRequest is the feedback endpoint payload
type feedbackRequest struct {
	VideoTitle  string               `json:"videoTitle"`
	Feedback    domain.FeedbackType  `json:"feedback"`
	Analysis    domain.VideoAnalysis `json:"analysis"`
	ChannelInfo *domain.ChannelInfo  `json:"channelInfo,omitempty"`
}

// saveFeedbackHandler records a like/dislike, learns preferences from it and
// tracks the liked channel
func (s *Server) saveFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := r.PathValue("id")

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}
	if !req.Feedback.Valid() {
		renderError(w, r, fmt.Errorf("feedback must be like or dislike"), http.StatusBadRequest)
		return
	}

	fb := domain.VideoFeedback{
		VideoID:    videoID,
		VideoTitle: req.VideoTitle,
		Feedback:   req.Feedback,
		Analysis:   req.Analysis,
		Timestamp:  time.Now().UnixMilli(),
	}
	if err := s.repos.Feedback.Save(ctx, fb); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	memories, err := s.learnFromFeedback(ctx, fb)
	if err != nil {
		// feedback is saved, learning failure degrades to an empty result
		lgr.Printf("[WARN] preference learning failed for %s: %v", videoID, err)
	}

	if req.Feedback == domain.FeedbackLike && req.ChannelInfo != nil && req.ChannelInfo.ChannelID != "" {
		err := s.repos.Channels.RecordLike(ctx, req.ChannelInfo.ChannelID, req.ChannelInfo.ChannelName,
			req.ChannelInfo.ChannelURL, videoID, fb.Timestamp)
		if err != nil {
			lgr.Printf("[WARN] failed to record liked channel %s: %v", req.ChannelInfo.ChannelID, err)
		}
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"memories": memories,
	})
}

// learnFromFeedback extracts preferences from one feedback event and merges
// each into the existing memory set or adds it as new
func (s *Server) learnFromFeedback(ctx context.Context, fb domain.VideoFeedback) ([]domain.MemoryEntry, error) {
	extracted, err := s.memEngine.ExtractFromFeedback(ctx, fb.Feedback, fb.VideoID, fb.VideoTitle, fb.Analysis)
	if err != nil {
		return nil, fmt.Errorf("extract preferences: %w", err)
	}

	var stored []domain.MemoryEntry
	for _, entry := range extracted {
		existing, err := s.repos.Memory.ListByType(ctx, entry.Type)
		if err != nil {
			return stored, fmt.Errorf("list memories: %w", err)
		}

		similarity, err := s.memEngine.CheckSimilarity(ctx, entry.Preference, existing)
		if err != nil {
			lgr.Printf("[WARN] similarity check failed, storing as new: %v", err)
			similarity = memory.SimilarityResult{}
		}

		if similarity.ShouldMerge() {
			target := findMemory(existing, similarity.SimilarID)
			if target != nil {
				memory.MergeInto(target, entry, similarity.MergedPreference)
				if err := s.repos.Memory.Update(ctx, *target); err != nil {
					return stored, fmt.Errorf("update merged memory: %w", err)
				}
				stored = append(stored, *target)
				continue
			}
			lgr.Printf("[WARN] similar memory %s not found, storing as new", similarity.SimilarID)
		}

		if err := s.repos.Memory.Add(ctx, entry); err != nil {
			return stored, fmt.Errorf("add memory: %w", err)
		}
		stored = append(stored, entry)
	}
	return stored, nil
}

func findMemory(memories []domain.MemoryEntry, id string) *domain.MemoryEntry {
	for i := range memories {
		if memories[i].ID == id {
			return &memories[i]
		}
	}
	return nil
}

// getFeedbackHandler returns the recorded feedback for a video
func (s *Server) getFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	fb, err := s.repos.Feedback.GetForVideo(r.Context(), videoID)
	if errors.Is(err, repository.ErrNotFound) {
		renderJSON(w, r, http.StatusOK, map[string]interface{}{"hasFeedback": false})
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"hasFeedback": true,
		"feedback":    fb,
	})
}

// relatedRequest is the related content endpoint payload
type relatedRequest struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// relatedContentHandler finds web content related to a video, cache first
func (s *Server) relatedContentHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	videoID := r.PathValue("id")

	var req relatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	if cached, err := s.repos.Related.Get(ctx, videoID); err == nil {
		renderJSON(w, r, http.StatusOK, map[string]interface{}{
			"success":   true,
			"resources": cached,
			"cached":    true,
		})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	query := search.BuildQuery(req.Summary, req.Tags)
	if query == "" {
		renderError(w, r, fmt.Errorf("summary or tags required to build a query"), http.StatusBadRequest)
		return
	}

	resources, err := s.searcher.Search(ctx, query)
	if err != nil {
		lgr.Printf("[ERROR] related search failed for %s: %v", videoID, err)
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := s.repos.Related.Save(ctx, videoID, resources); err != nil {
		lgr.Printf("[WARN] failed to cache related resources for %s: %v", videoID, err)
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":   true,
		"resources": resources,
		"cached":    false,
	})
}

// listMemoriesHandler returns all learned memories
func (s *Server) listMemoriesHandler(w http.ResponseWriter, r *http.Request) {
	memories, err := s.repos.Memory.List(r.Context())
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success":  true,
		"memories": memories,
	})
}

// condenseMemoriesHandler merges redundant memories into a smaller set
func (s *Server) condenseMemoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	memories, err := s.repos.Memory.List(ctx)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	condensed, err := s.memEngine.Condense(ctx, memories)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	if len(condensed) < len(memories) {
		if err := s.repos.Memory.ReplaceAll(ctx, condensed); err != nil {
			renderError(w, r, err, http.StatusInternalServerError)
			return
		}
		lgr.Printf("[INFO] condensed %d memories into %d", len(memories), len(condensed))
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"before":  len(memories),
		"after":   len(condensed),
	})
}

// deleteMemoryHandler removes one memory
func (s *Server) deleteMemoryHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.repos.Memory.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		renderError(w, r, fmt.Errorf("memory not found"), http.StatusNotFound)
		return
	}
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// regenerateProfileHandler rebuilds the aboutMe text from manual preferences
// and learned memories
func (s *Server) regenerateProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := s.repos.Settings.Get(ctx)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}
	memories, err := s.repos.Memory.List(ctx)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	aboutMe, err := s.memEngine.SynthesizeProfile(ctx, settings.ManualPreferences, memories)
	if err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	settings.AboutMe = aboutMe
	settings.AboutMeAutoGenerated = true
	if err := s.repos.Settings.Save(ctx, settings); err != nil {
		renderError(w, r, err, http.StatusInternalServerError)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{
		"success": true,
		"aboutMe": aboutMe,
	})
}

// validateKeysHandler verifies that the configured API keys work
func (s *Server) validateKeysHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		Provider string `json:"provider"` // "llm" or "search"
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body"), http.StatusBadRequest)
		return
	}

	switch req.Provider {
	case "llm":
		if _, err := s.generator.Generate(ctx, config.TaskSummarization, "Reply with the word OK."); err != nil {
			renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "valid": false, "error": err.Error()})
			return
		}
	case "search":
		if _, err := s.searcher.Search(ctx, "test"); err != nil {
			renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "valid": false, "error": err.Error()})
			return
		}
	default:
		renderError(w, r, fmt.Errorf("provider must be llm or search"), http.StatusBadRequest)
		return
	}

	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "valid": true})
}

// newNoteID generates a note id, time ordered
func newNoteID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(rand.Reader, 0)).String()
}
