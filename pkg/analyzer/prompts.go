package analyzer

import (
	"fmt"
	"strings"

	"github.com/vidscope/vidscope/pkg/domain"
)

// buildMemoryContext renders learned preferences as a prompt section.
// Returns an empty string when there is nothing learned yet.
func buildMemoryContext(memories []domain.MemoryEntry) string {
	likes := domain.FilterMemories(memories, domain.FeedbackLike)
	dislikes := domain.FilterMemories(memories, domain.FeedbackDislike)
	if len(likes) == 0 && len(dislikes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nLEARNED PREFERENCES:")

	if len(likes) > 0 {
		sb.WriteString("\nThings user LIKES:")
		for _, m := range likes {
			sb.WriteString("\n- " + m.Preference)
		}
	}
	if len(dislikes) > 0 {
		sb.WriteString("\nThings user DISLIKES:")
		for _, m := range dislikes {
			sb.WriteString("\n- " + m.Preference)
		}
	}
	return sb.String()
}

func buildSummaryPrompt(content string) string {
	return fmt.Sprintf(`Based on this video content, write a 2-3 sentence summary that captures what the video is about. Focus on the main topic and value proposition.

VIDEO CONTENT:
%s

Respond with ONLY the summary text, no formatting or labels.`, content)
}

func buildTagsPrompt(content string) string {
	return fmt.Sprintf(`Based on this video content, generate up to 5 topic tags.
Use lowercase single words like: productivity, education, tech, business, lifestyle, entertainment, gaming, music, cooking, fitness, science, news, comedy, drama, vlog

VIDEO CONTENT:
%s

Respond with ONLY a JSON array of tags, e.g.: ["tech", "productivity", "tutorial"]`, content)
}

func buildKeyPointsPrompt(content string) string {
	return fmt.Sprintf(`Analyze this video content and extract the key sections/chapters with timestamps.

VIDEO CONTENT:
%s

For each major section or topic transition, provide:
- The timestamp when it starts (MM:SS or HH:MM:SS format)
- A brief title (3-6 words)
- A detailed description (1-2 sentences) of what's covered

Respond with ONLY a valid JSON array:
[
  {
    "timestamp": "0:00",
    "seconds": 0,
    "title": "Introduction",
    "description": "Overview of what the video will cover and why it matters."
  },
  {
    "timestamp": "2:35",
    "seconds": 155,
    "title": "Main Topic",
    "description": "Detailed explanation of the core concept with examples."
  }
]

Extract 3-8 key points depending on video length and complexity.`, content)
}

// buildAnalysisPrompt asks for scores and a verdict. The relevance score is
// requested only when a profile or memories exist, enjoymentConfidence only
// when memories exist.
func buildAnalysisPrompt(content, aboutMe string, memories []domain.MemoryEntry) string {
	hasProfile := strings.TrimSpace(aboutMe) != ""
	hasMemories := len(memories) > 0
	hasPreferences := hasProfile || hasMemories

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`Analyze this video content and provide scores and a verdict.

VIDEO CONTENT:
%s

Score from 0-100:
- productivity: How actionable and useful? Does it teach skills, provide tips?
- educational: How much learning value? Does it explain concepts?
- entertainment: How engaging and enjoyable? Well-produced, interesting?
- inspiring: How motivating? Does it inspire action, share success stories, encourage?
- creative: How artistic/creative? Does it showcase art, design, music, creative expression?`, content))

	if hasPreferences {
		sb.WriteString("\n- relevance: How relevant to user's interests?")
	}
	if hasMemories {
		sb.WriteString("\n- enjoymentConfidence: 0-100, confidence user will enjoy based on learned preferences")
	}
	if hasProfile {
		sb.WriteString("\n\nUSER PROFILE:\n" + aboutMe)
	}
	if hasMemories {
		sb.WriteString(buildMemoryContext(memories))
	}

	sb.WriteString(`

VERDICT RULES:
- "worth_it": highest score >= 65 AND another score >= 40
- "maybe": highest score >= 45
- "skip": otherwise

Respond with ONLY valid JSON:
{
  "scores": {
    "productivity": 0,
    "educational": 0,
    "entertainment": 0,
    "inspiring": 0,
    "creative": 0`)
	if hasPreferences {
		sb.WriteString(",\n    \"relevance\": 0")
	}
	sb.WriteString("\n  },\n  \"verdict\": \"worth_it\"")
	if hasPreferences {
		sb.WriteString(",\n  \"matchesInterests\": true")
	}
	if hasMemories {
		sb.WriteString(",\n  \"enjoymentConfidence\": 50")
	}
	sb.WriteString("\n}")

	return sb.String()
}

func buildReasonPrompt(content string, scores domain.ContentScores, verdict domain.Verdict, aboutMe string, memories []domain.MemoryEntry) string {
	hasProfile := strings.TrimSpace(aboutMe) != ""
	hasMemories := len(memories) > 0
	hasPreferences := hasProfile || hasMemories

	relevance := "N/A"
	if scores.Relevance != nil {
		relevance = fmt.Sprintf("%d", *scores.Relevance)
	}

	topic := content
	if len(topic) > 1000 {
		topic = topic[:1000]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`Explain WHY this video is or isn't relevant to this specific user based on their preferences.

VIDEO TOPIC (brief):
%s...

SCORES:
- Relevance to user: %s
- Productivity: %d
- Educational: %d

VERDICT: %s`, topic, relevance, scores.Productivity, scores.Educational, verdict))

	if hasProfile {
		sb.WriteString("\n\nUSER'S STATED INTERESTS:\n" + aboutMe)
	}
	if hasMemories {
		sb.WriteString(buildMemoryContext(memories))
	}

	sb.WriteString(`

CRITICAL: Your response must explain how this video relates to the USER'S PREFERENCES above.
- DO NOT just describe what the video contains (they already know from the summary)
- DO explain how it connects to their stated interests or learned preferences
- Reference specific things from their profile or preferences
- Be personal: "This aligns with your interest in X" or "Unlike your preference for Y, this video..."
`)

	switch verdict {
	case domain.VerdictWorthIt:
		sb.WriteString("\nExplain which of their interests this serves.")
	case domain.VerdictSkip:
		sb.WriteString("\nExplain why this doesn't match what they typically enjoy or find valuable.")
	case domain.VerdictMaybe:
		sb.WriteString("\nExplain the partial match - what aligns and what doesn't.")
	}
	if !hasPreferences {
		sb.WriteString("\nNote: No preferences set yet, so explain based on general quality/value.")
	}

	sb.WriteString("\n\nWrite 1-2 sentences. Be specific and personal. Respond with ONLY the explanation text.")
	return sb.String()
}
