package domain

import "sort"

// Verdict is the three-way watch recommendation derived from content scores.
type Verdict string

const (
	VerdictWorthIt Verdict = "worth_it"
	VerdictMaybe   Verdict = "maybe"
	VerdictSkip    Verdict = "skip"
)

// ContentScores holds per-dimension 0-100 ratings for a video.
// Relevance and EnjoymentConfidence are requested only when the user has a
// profile or learned memories, so they are pointers to keep "not requested"
// distinct from zero.
type ContentScores struct {
	Productivity  int  `json:"productivity"`
	Educational   int  `json:"educational"`
	Entertainment int  `json:"entertainment"`
	Inspiring     int  `json:"inspiring"`
	Creative      int  `json:"creative"`
	Relevance     *int `json:"relevance,omitempty"`
	EnjoymentConf *int `json:"enjoymentConfidence,omitempty"`
}

// Base returns the five always-present scores.
func (s ContentScores) Base() [5]int {
	return [5]int{s.Productivity, s.Educational, s.Entertainment, s.Inspiring, s.Creative}
}

// Clamp forces all scores into the 0-100 range.
func (s *ContentScores) Clamp() {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 100 {
			return 100
		}
		return v
	}
	s.Productivity = clamp(s.Productivity)
	s.Educational = clamp(s.Educational)
	s.Entertainment = clamp(s.Entertainment)
	s.Inspiring = clamp(s.Inspiring)
	s.Creative = clamp(s.Creative)
	if s.Relevance != nil {
		v := clamp(*s.Relevance)
		s.Relevance = &v
	}
	if s.EnjoymentConf != nil {
		v := clamp(*s.EnjoymentConf)
		s.EnjoymentConf = &v
	}
}

// DeriveVerdict computes the verdict from the five base scores:
// worth_it when the highest score is at least 65 and a second distinct score is
// at least 40, maybe when the highest score is at least 45, skip otherwise.
// The scoring prompt instructs the model to apply the same policy; this
// function is the authoritative fallback and test oracle.
func DeriveVerdict(s ContentScores) Verdict {
	scores := s.Base()
	sorted := scores[:]
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	switch {
	case sorted[0] >= 65 && sorted[1] >= 40:
		return VerdictWorthIt
	case sorted[0] >= 45:
		return VerdictMaybe
	default:
		return VerdictSkip
	}
}

// KeyPoint is a chapter-like marker extracted from video content.
type KeyPoint struct {
	Timestamp   string `json:"timestamp"` // MM:SS or HH:MM:SS
	Seconds     int    `json:"seconds"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VideoAnalysis is the full AI-generated assessment of a single video.
// It is immutable once cached; regeneration replaces it wholesale.
type VideoAnalysis struct {
	Summary          string        `json:"summary"`
	Reason           string        `json:"reason"`
	Tags             []string      `json:"tags"`
	Scores           ContentScores `json:"scores"`
	Verdict          Verdict       `json:"verdict"`
	MatchesInterests *bool         `json:"matchesInterests,omitempty"`
	// KeyPoints is nil (omitted on the wire) when extraction found nothing,
	// so clients can distinguish "none found" from "still loading".
	KeyPoints []KeyPoint `json:"keyPoints,omitempty"`
}

// SortKeyPoints orders key points by start time ascending.
func SortKeyPoints(points []KeyPoint) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Seconds < points[j].Seconds })
}

// ChannelInfo identifies the channel a video belongs to.
type ChannelInfo struct {
	ChannelID   string `json:"channelId"`
	ChannelName string `json:"channelName"`
	ChannelURL  string `json:"channelUrl"`
}

// FeedbackType represents the type of user feedback on a video.
type FeedbackType string

const (
	FeedbackLike    FeedbackType = "like"
	FeedbackDislike FeedbackType = "dislike"
)

// Valid reports whether the feedback type is one of the known values.
func (f FeedbackType) Valid() bool {
	return f == FeedbackLike || f == FeedbackDislike
}

// VideoFeedback is a recorded like/dislike event with the analysis it was given on.
type VideoFeedback struct {
	VideoID    string        `json:"videoId"`
	VideoTitle string        `json:"videoTitle"`
	Feedback   FeedbackType  `json:"feedback"`
	Analysis   VideoAnalysis `json:"analysis"`
	Timestamp  int64         `json:"timestamp"` // unix milliseconds
}
