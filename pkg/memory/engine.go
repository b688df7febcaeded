package memory

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/vidscope/vidscope/pkg/config"
	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/llm"
)

//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . Generator

// mergeThreshold is the minimum similarity confidence for folding a new
// preference into an existing one instead of storing it separately
const mergeThreshold = 0.7

// Generator produces text completions for a named generation task
type Generator interface {
	Generate(ctx context.Context, task, prompt string) (string, error)
}

// Engine extracts preferences from feedback events and keeps the memory set
// free of near-duplicates through similarity checks and condensation.
type Engine struct {
	gen Generator
}

// NewEngine creates a memory engine on top of a text generator
func NewEngine(gen Generator) *Engine {
	return &Engine{gen: gen}
}

// newID generates a ULID for a memory entry
func newID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// extractedPreference mirrors one element of the extraction response
type extractedPreference struct {
	Preference       string  `json:"preference"`
	Confidence       float64 `json:"confidence"`
	ExtractedFrom    string  `json:"extractedFrom"`
	TimestampSeconds *int    `json:"timestampSeconds"`
}

// ExtractFromFeedback derives 1-3 specific preferences from a like or dislike
// on an analyzed video. Malformed model output yields no memories and no error.
func (e *Engine) ExtractFromFeedback(ctx context.Context, feedback domain.FeedbackType,
	videoID, videoTitle string, analysis domain.VideoAnalysis) ([]domain.MemoryEntry, error) {

	text, err := e.gen.Generate(ctx, config.TaskMemoryExtraction,
		buildExtractionPrompt(feedback, videoTitle, analysis))
	if err != nil {
		return nil, fmt.Errorf("extract preferences: %w", err)
	}

	extracted := llm.ParseOr(text, []extractedPreference{})

	now := time.Now().UnixMilli()
	memories := make([]domain.MemoryEntry, 0, len(extracted))
	for _, p := range extracted {
		if strings.TrimSpace(p.Preference) == "" {
			continue
		}
		memories = append(memories, domain.MemoryEntry{
			ID:         newID(),
			Type:       feedback,
			Preference: p.Preference,
			Confidence: p.Confidence,
			Sources: []domain.MemorySource{{
				VideoID:    videoID,
				VideoTitle: videoTitle,
				Timestamp:  p.TimestampSeconds,
				AddedAt:    now,
			}},
			ExtractedFrom: p.ExtractedFrom,
			CreatedAt:     now,
		})
	}
	return memories, nil
}

// SimilarityResult is the outcome of comparing a new preference against
// existing ones of the same type
type SimilarityResult struct {
	SimilarID        string  `json:"similarId"`
	Confidence       float64 `json:"confidence"`
	MergedPreference string  `json:"mergedPreference"`
}

// ShouldMerge reports whether the match is strong enough to merge
func (r SimilarityResult) ShouldMerge() bool {
	return r.SimilarID != "" && r.Confidence >= mergeThreshold
}

// CheckSimilarity asks the model whether the new preference duplicates an
// existing one. With no candidates there is nothing to compare and no call is
// made.
func (e *Engine) CheckSimilarity(ctx context.Context, newPreference string, existing []domain.MemoryEntry) (SimilarityResult, error) {
	if len(existing) == 0 {
		return SimilarityResult{}, nil
	}

	text, err := e.gen.Generate(ctx, config.TaskMemoryExtraction,
		buildSimilarityPrompt(newPreference, existing))
	if err != nil {
		return SimilarityResult{}, fmt.Errorf("check similarity: %w", err)
	}

	res := llm.ParseOr(text, SimilarityResult{})
	// the model may answer the literal string "null"
	if res.SimilarID == "null" {
		res.SimilarID = ""
	}
	return res, nil
}

// MergeInto folds a new memory into an existing similar one: sources are
// united (deduplicated by video), confidence takes the higher value and the
// preference text is replaced when the similarity check produced a refined
// merged wording.
func MergeInto(existing *domain.MemoryEntry, incoming domain.MemoryEntry, mergedPreference string) {
	for _, src := range incoming.Sources {
		existing.AddSource(src)
	}
	if incoming.Confidence > existing.Confidence {
		existing.Confidence = incoming.Confidence
	}
	if mergedPreference != "" {
		existing.Preference = mergedPreference
	}
	now := time.Now().UnixMilli()
	existing.UpdatedAt = &now
}

// SynthesizeProfile builds the aboutMe text from manual preferences and
// learned memories. With no memories the manual text is returned as is; with
// nothing at all the profile is empty.
func (e *Engine) SynthesizeProfile(ctx context.Context, manualPreferences string, memories []domain.MemoryEntry) (string, error) {
	hasManual := strings.TrimSpace(manualPreferences) != ""
	if len(memories) == 0 {
		if !hasManual {
			return "", nil
		}
		return manualPreferences, nil
	}

	text, err := e.gen.Generate(ctx, config.TaskMemoryExtraction,
		buildProfilePrompt(manualPreferences, memories))
	if err != nil {
		return "", fmt.Errorf("synthesize profile: %w", err)
	}
	return strings.TrimSpace(text), nil
}
