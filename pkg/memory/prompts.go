package memory

import (
	"fmt"
	"strings"

	"github.com/vidscope/vidscope/pkg/domain"
)

func buildExtractionPrompt(feedback domain.FeedbackType, videoTitle string, analysis domain.VideoAnalysis) string {
	action, sentiment := "DISLIKED", "dislikes"
	if feedback == domain.FeedbackLike {
		action, sentiment = "LIKED", "enjoys"
	}

	keyPoints := "none"
	if len(analysis.KeyPoints) > 0 {
		parts := make([]string, len(analysis.KeyPoints))
		for i, kp := range analysis.KeyPoints {
			parts[i] = fmt.Sprintf("[%ds] %s", kp.Seconds, kp.Title)
		}
		keyPoints = strings.Join(parts, ", ")
	}

	return fmt.Sprintf(`The user %s a video.

VIDEO TITLE: %s
SUMMARY: %s
TAGS: %s
SCORES: productivity=%d, educational=%d, entertainment=%d, inspiring=%d, creative=%d
KEY SECTIONS: %s

Based on this feedback, extract 1-3 specific preferences about what the user %s.
Be specific - not just "likes tech" but "likes deep technical tutorials on system design".
If a preference relates to a specific section, include that section's timestamp.

Respond with ONLY a JSON array:
[
  {
    "preference": "specific preference description",
    "confidence": 0.8,
    "extractedFrom": "summary",
    "timestampSeconds": 120
  }
]

extractedFrom can be: "summary", "content", or "tags"
timestampSeconds is optional - include only if preference clearly relates to a specific section`,
		action, videoTitle, analysis.Summary, strings.Join(analysis.Tags, ", "),
		analysis.Scores.Productivity, analysis.Scores.Educational, analysis.Scores.Entertainment,
		analysis.Scores.Inspiring, analysis.Scores.Creative, keyPoints, sentiment)
}

func buildSimilarityPrompt(newPreference string, existing []domain.MemoryEntry) string {
	lines := make([]string, len(existing))
	for i, m := range existing {
		lines[i] = fmt.Sprintf("- [%s] %s", m.ID, m.Preference)
	}

	return fmt.Sprintf(`Compare this new preference to existing ones. Find if any existing preference means essentially the same thing.

NEW: %q

EXISTING:
%s

If you find a similar preference (>70%% similar in meaning), respond with:
- similarId: the ID of the similar preference
- confidence: 0.7-1.0 based on how similar
- mergedPreference: a refined text that captures both preferences better

If no similar preference exists, respond with:
- similarId: null
- confidence: 0

Respond with ONLY valid JSON:
{"similarId": "the-id-or-null", "confidence": 0.8, "mergedPreference": "refined preference text"}`,
		newPreference, strings.Join(lines, "\n"))
}

func buildGroupingPrompt(memories []domain.MemoryEntry) string {
	lines := make([]string, len(memories))
	for i, m := range memories {
		lines[i] = fmt.Sprintf("%d: %s", i, m.Preference)
	}

	return fmt.Sprintf(`Group these preferences by similarity. Each group should contain preferences that mean essentially the same thing.

PREFERENCES:
%s

Rules:
- Only group preferences with very similar meaning (>70%% semantic similarity)
- Unique preferences should be in their own single-item group
- For each group with multiple items, provide a merged preference text that captures all of them better

Respond with ONLY valid JSON:
{
  "groups": [[0, 3], [1], [2, 4, 5]],
  "mergedTexts": {
    "0,3": "refined preference for group 0,3",
    "2,4,5": "refined preference for group 2,4,5"
  }
}`, strings.Join(lines, "\n"))
}

func buildProfilePrompt(manualPreferences string, memories []domain.MemoryEntry) string {
	renderList := func(entries []domain.MemoryEntry) string {
		if len(entries) == 0 {
			return "(none)"
		}
		lines := make([]string, len(entries))
		for i, m := range entries {
			lines[i] = "- " + m.Preference
		}
		return strings.Join(lines, "\n")
	}

	manual := manualPreferences
	if strings.TrimSpace(manual) == "" {
		manual = "(none)"
	}

	return fmt.Sprintf(`Synthesize a concise user profile from manual preferences and learned behaviors.

MANUAL PREFERENCES:
%s

LEARNED LIKES:
%s

LEARNED DISLIKES:
%s

Write a cohesive 2-4 sentence profile that:
1. Keeps manual preferences as foundation
2. Adds learned patterns naturally
3. Removes redundancy
4. Stays specific, not generic

Respond with ONLY the profile text.`,
		manual,
		renderList(domain.FilterMemories(memories, domain.FeedbackLike)),
		renderList(domain.FilterMemories(memories, domain.FeedbackDislike)))
}
