// Package guardian decides whether a video should be blocked based on the
// user's settings, the video's analysis and the focus schedule.
package guardian

import (
	"strings"
	"time"

	"github.com/vidscope/vidscope/pkg/domain"
)

// block reasons reported to clients
const (
	ReasonBlockedTags        = "blocked_tags"
	ReasonLowScores          = "low_scores"
	ReasonFocusEntertainment = "focus_entertainment"
)

// entertainmentFloor is the minimum entertainment score for the
// focus-mode entertainment block to trigger
const entertainmentFloor = 60

// Decision is the outcome of a block check
type Decision struct {
	Block       bool     `json:"block"`
	Reason      string   `json:"reason"`
	BlockedTags []string `json:"blockedTags,omitempty"`
	FocusMode   bool     `json:"focusMode"`
}

// Decide evaluates the block policy for one video. Checks run in priority
// order: blocked tags, then all scores below the active threshold, then
// entertainment dominance during a focus period.
func Decide(analysis domain.VideoAnalysis, settings domain.Settings, now time.Time) Decision {
	if !settings.GuardianEnabled {
		return Decision{}
	}

	if matched := matchBlockedTags(analysis.Tags, settings.BlockedTags); len(matched) > 0 {
		return Decision{Block: true, Reason: ReasonBlockedTags, BlockedTags: matched}
	}

	inFocus := settings.FocusSchedule.InPeriod(now)

	threshold := settings.MinScoreThreshold
	if inFocus {
		threshold = settings.FocusSchedule.FocusThreshold
	}

	s := analysis.Scores
	if s.Productivity < threshold && s.Educational < threshold && s.Entertainment < threshold {
		return Decision{Block: true, Reason: ReasonLowScores, FocusMode: inFocus}
	}

	if inFocus && settings.FocusSchedule.BlockEntertainment {
		dominant := s.Entertainment > s.Productivity && s.Entertainment > s.Educational
		if dominant && s.Entertainment >= entertainmentFloor {
			return Decision{Block: true, Reason: ReasonFocusEntertainment, FocusMode: true}
		}
	}

	return Decision{FocusMode: inFocus}
}

// matchBlockedTags returns the video tags that contain any blocked tag,
// case insensitive substring match
func matchBlockedTags(tags, blocked []string) []string {
	var matched []string
	for _, tag := range tags {
		lower := strings.ToLower(tag)
		for _, b := range blocked {
			if b == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(b)) {
				matched = append(matched, tag)
				break
			}
		}
	}
	return matched
}
