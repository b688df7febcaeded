package memory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vidscope/vidscope/pkg/config"
	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/llm"
)

// groupResult is the model's partition of preference indices plus refined
// wording per multi-item group, keyed by the comma-joined indices
type groupResult struct {
	Groups      [][]int           `json:"groups"`
	MergedTexts map[string]string `json:"mergedTexts"`
}

// Condense deduplicates the memory set by grouping semantically similar
// preferences and merging each group into one entry. Likes and dislikes are
// condensed separately and never merged with each other.
func (e *Engine) Condense(ctx context.Context, memories []domain.MemoryEntry) ([]domain.MemoryEntry, error) {
	if len(memories) <= 1 {
		return memories, nil
	}

	likes, err := e.condensePool(ctx, domain.FilterMemories(memories, domain.FeedbackLike))
	if err != nil {
		return nil, err
	}
	dislikes, err := e.condensePool(ctx, domain.FilterMemories(memories, domain.FeedbackDislike))
	if err != nil {
		return nil, err
	}

	return append(likes, dislikes...), nil
}

// condensePool merges one same-type pool. A malformed grouping response
// degrades to the identity partition, leaving the pool unchanged.
func (e *Engine) condensePool(ctx context.Context, pool []domain.MemoryEntry) ([]domain.MemoryEntry, error) {
	if len(pool) <= 1 {
		return pool, nil
	}

	text, err := e.gen.Generate(ctx, config.TaskMemoryExtraction, buildGroupingPrompt(pool))
	if err != nil {
		return nil, fmt.Errorf("group preferences: %w", err)
	}

	identity := groupResult{Groups: make([][]int, len(pool))}
	for i := range pool {
		identity.Groups[i] = []int{i}
	}
	result := llm.ParseOr(text, identity)

	condensed := make([]domain.MemoryEntry, 0, len(pool))
	seen := make(map[int]bool)

	for _, group := range result.Groups {
		// drop indices the model invented or repeated
		valid := group[:0:0]
		for _, idx := range group {
			if idx < 0 || idx >= len(pool) || seen[idx] {
				continue
			}
			seen[idx] = true
			valid = append(valid, idx)
		}
		if len(valid) == 0 {
			continue
		}
		if len(valid) == 1 {
			condensed = append(condensed, pool[valid[0]])
			continue
		}

		condensed = append(condensed, mergeGroup(pool, valid, result.MergedTexts))
	}

	// entries the partition never referenced survive unchanged
	for i, m := range pool {
		if !seen[i] {
			condensed = append(condensed, m)
		}
	}

	return condensed, nil
}

// mergeGroup folds a multi-item group into its first entry: sources united and
// deduplicated by video, confidence takes the maximum, the preference text is
// replaced by the refined wording when the model provided one.
func mergeGroup(pool []domain.MemoryEntry, group []int, mergedTexts map[string]string) domain.MemoryEntry {
	merged := pool[group[0]]
	merged.Sources = append([]domain.MemorySource(nil), merged.Sources...)

	if text, ok := mergedTexts[groupKey(group)]; ok && text != "" {
		merged.Preference = text
	}

	for _, idx := range group[1:] {
		other := pool[idx]
		for _, src := range other.Sources {
			merged.AddSource(src)
		}
		if other.Confidence > merged.Confidence {
			merged.Confidence = other.Confidence
		}
	}

	now := time.Now().UnixMilli()
	merged.UpdatedAt = &now
	return merged
}

func groupKey(group []int) string {
	parts := make([]string, len(group))
	for i, idx := range group {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}
