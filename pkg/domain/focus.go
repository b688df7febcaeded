package domain

import "time"

// FocusPeriod is a recurring weekly window, e.g. weekdays 9-17.
type FocusPeriod struct {
	Days      []int `json:"days"` // 0=Sunday .. 6=Saturday
	StartHour int   `json:"startHour"`
	EndHour   int   `json:"endHour"`
}

// FocusSchedule configures focus-mode blocking windows and thresholds.
type FocusSchedule struct {
	Enabled            bool          `json:"enabled"`
	Periods            []FocusPeriod `json:"periods"`
	FocusThreshold     int           `json:"focusThreshold"`
	BlockEntertainment bool          `json:"blockEntertainment"`
	PausedUntil        *int64        `json:"pausedUntil,omitempty"` // unix milliseconds
}

// InPeriod reports whether the given time falls inside an active focus period.
// A paused schedule is never in period until the pause expires.
func (f FocusSchedule) InPeriod(now time.Time) bool {
	if !f.Enabled {
		return false
	}
	if f.PausedUntil != nil && now.UnixMilli() < *f.PausedUntil {
		return false
	}

	day := int(now.Weekday())
	hour := now.Hour()
	for _, p := range f.Periods {
		for _, d := range p.Days {
			if d == day && hour >= p.StartHour && hour < p.EndHour {
				return true
			}
		}
	}
	return false
}

// RelatedResource is a web search result linked to a video's topic.
type RelatedResource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Favicon     string `json:"favicon"`
	Preview     string `json:"preview,omitempty"` // extracted page text, when enrichment is enabled
}

// Settings is the per-user configuration blob persisted by the background
// service and proxied to clients.
type Settings struct {
	AboutMe              string        `json:"aboutMe"`
	AboutMeAutoGenerated bool          `json:"aboutMeAutoGenerated"`
	ManualPreferences    string        `json:"manualPreferences"`
	BlockedTags          []string      `json:"blockedTags"`
	MinScoreThreshold    int           `json:"minScoreThreshold"`
	GuardianEnabled      bool          `json:"guardianEnabled"`
	CheckinMinutes       int           `json:"checkinMinutes"`
	FocusSchedule        FocusSchedule `json:"focusSchedule"`
}
