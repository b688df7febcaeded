package domain

// WatchIntent is the user's declared purpose for a watch session.
type WatchIntent string

const (
	IntentLearning      WatchIntent = "learning"
	IntentEntertainment WatchIntent = "entertainment"
	IntentBackground    WatchIntent = "background"
	IntentUnset         WatchIntent = ""
)

// SessionVideo is a single video entry in a watch session.
type SessionVideo struct {
	VideoID      string         `json:"videoId"`
	Title        string         `json:"title"`
	ChannelID    string         `json:"channelId,omitempty"`
	Scores       *ContentScores `json:"scores,omitempty"`
	StartedAt    int64          `json:"startedAt"` // unix milliseconds
	EndedAt      *int64         `json:"endedAt,omitempty"`
	WatchSeconds int            `json:"watchSeconds"` // accumulated play time, not wall clock
}

// Session is a contiguous watch session. A session rolls over after the idle
// timeout elapses with no activity.
type Session struct {
	ID           string         `json:"id"`
	StartTime    int64          `json:"startTime"` // unix milliseconds
	LastActivity int64          `json:"lastActivity"`
	Intent       WatchIntent    `json:"intent,omitempty"`
	Videos       []SessionVideo `json:"videos"`
}

// CategoryBucket accumulates per-category counts and watch time for daily stats.
type CategoryBucket struct {
	Count   int `json:"count"`
	Seconds int `json:"seconds"`
}

// DailyStats aggregates watching for a calendar day (date is YYYY-MM-DD).
type DailyStats struct {
	Date         string                    `json:"date"`
	VideoCount   int                       `json:"videoCount"`
	WatchSeconds int                       `json:"watchSeconds"`
	ByCategory   map[string]CategoryBucket `json:"byCategory"`
	Channels     map[string]int            `json:"channels"` // channelID -> videos watched
	Tags         []string                  `json:"tags"`     // tags of videos watched that day
}

// ChannelStats tracks rolling averages of scores for a channel.
type ChannelStats struct {
	ChannelID       string  `json:"channelId"`
	ChannelName     string  `json:"channelName"`
	VideoCount      int     `json:"videoCount"`
	AvgProductivity float64 `json:"avgProductivity"`
	AvgEducational  float64 `json:"avgEducational"`
	AvgEntertain    float64 `json:"avgEntertainment"`
	UpdatedAt       int64   `json:"updatedAt"`
}

// SubscriptionStatus describes whether the user subscribes to a liked channel.
type SubscriptionStatus string

const (
	Subscribed          SubscriptionStatus = "subscribed"
	NotSubscribed       SubscriptionStatus = "not_subscribed"
	SubscriptionUnknown SubscriptionStatus = "unknown"
)

// LikedChannel is a channel the user gave positive feedback on.
type LikedChannel struct {
	ChannelID    string             `json:"channelId"`
	ChannelName  string             `json:"channelName"`
	ChannelURL   string             `json:"channelUrl"`
	LikeCount    int                `json:"likeCount"`
	LastLikedAt  int64              `json:"lastLikedAt"`
	LastVideoID  string             `json:"lastVideoId"`
	Subscription SubscriptionStatus `json:"subscription"`
}

// OverrideStats counts how often the user watched past a guardian block.
type OverrideStats struct {
	Total     int   `json:"total"`
	ThisWeek  int   `json:"thisWeek"`
	LastReset int64 `json:"lastReset"` // unix milliseconds
}

// Note is a user note attached to a video, optionally at a timestamp.
type Note struct {
	ID        string `json:"id"`
	VideoID   string `json:"videoId"`
	Text      string `json:"text"`
	Seconds   *int   `json:"seconds,omitempty"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt *int64 `json:"updatedAt,omitempty"`
}
