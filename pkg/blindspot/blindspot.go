// Package blindspot detects narrow consumption patterns in watch history:
// topics the user watches heavily while only ever seeing a small slice of the
// available perspectives.
package blindspot

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vidscope/vidscope/pkg/domain"
)

// decision thresholds
const (
	minVideosPerTopic = 8  // report a topic only after this many tagged videos
	minPerspectives   = 2  // fewer distinct perspectives than this is narrow
	coveredTopicFloor = 3  // videos needed before a topic counts as covered
	maxSuggestions    = 3  // missing perspectives suggested per topic
	defaultWindowDays = 30 // history window when the caller passes zero
)

// perspectiveMappings lists the viewpoints available per known topic
var perspectiveMappings = map[string][]string{
	"technology":  {"startup founder", "enterprise", "academic", "consumer", "critical", "regulatory"},
	"politics":    {"progressive", "conservative", "libertarian", "centrist", "socialist", "populist"},
	"economics":   {"keynesian", "austrian", "monetarist", "marxist", "supply-side", "MMT"},
	"business":    {"entrepreneur", "corporate", "investor", "employee", "consumer", "regulator"},
	"science":     {"academic", "industry", "skeptic", "popularizer", "applied", "theoretical"},
	"health":      {"mainstream medical", "alternative", "preventive", "pharmaceutical", "holistic", "patient"},
	"education":   {"traditional", "progressive", "vocational", "self-directed", "institutional", "reform"},
	"environment": {"activist", "industry", "scientific", "economic", "regulatory", "individual"},
}

// topicKeywords maps common tag fragments to topics for fuzzy matching
var topicKeywords = map[string][]string{
	"technology":  {"tech", "software", "ai", "programming", "coding", "startup", "app"},
	"politics":    {"political", "election", "government", "policy", "democrat", "republican", "left", "right"},
	"economics":   {"economy", "finance", "money", "market", "inflation", "gdp", "trade"},
	"business":    {"entrepreneur", "company", "startup", "management", "leadership", "corporate"},
	"science":     {"research", "study", "experiment", "scientific", "physics", "biology", "chemistry"},
	"health":      {"medical", "wellness", "fitness", "diet", "mental health", "healthcare"},
	"education":   {"learning", "school", "university", "teaching", "course", "tutorial"},
	"environment": {"climate", "sustainability", "green", "eco", "renewable", "pollution"},
}

// NarrowPerspective flags one heavily-watched topic with too few viewpoints
type NarrowPerspective struct {
	Topic        string   `json:"topic"`
	VideoCount   int      `json:"videoCount"`
	Perspectives []string `json:"perspectives"`
	Missing      []string `json:"missing"`
}

// Analysis is the blind-spot report for a history window
type Analysis struct {
	NarrowPerspectives []NarrowPerspective `json:"narrowPerspectives"`
	TopicCoverage      int                 `json:"topicCoverage"` // percent of known topics covered
	LastAnalyzed       int64               `json:"lastAnalyzed"`  // unix milliseconds
}

// StatsSource provides daily watch aggregates
type StatsSource interface {
	ListDailyRange(ctx context.Context, from, to string) ([]domain.DailyStats, error)
}

// Analyzer derives blind-spot reports from recorded daily stats
type Analyzer struct {
	stats StatsSource
	now   func() time.Time
}

// NewAnalyzer creates a blind-spot analyzer over the given stats source
func NewAnalyzer(stats StatsSource) *Analyzer {
	return &Analyzer{stats: stats, now: time.Now}
}

type topicData struct {
	count        int
	perspectives map[string]struct{}
}

// Analyze builds the report over the last days of history. Tags recorded with
// each day's stats are mapped to topics and scanned for perspective markers.
func (a *Analyzer) Analyze(ctx context.Context, days int) (Analysis, error) {
	if days <= 0 {
		days = defaultWindowDays
	}

	now := a.now()
	from := now.AddDate(0, 0, -days).Format("2006-01-02")
	to := now.Format("2006-01-02")

	stats, err := a.stats.ListDailyRange(ctx, from, to)
	if err != nil {
		return Analysis{}, fmt.Errorf("load daily stats: %w", err)
	}

	topics := map[string]*topicData{}
	for _, day := range stats {
		for _, tag := range day.Tags {
			topic := mapTagToTopic(tag)
			if topic == "" {
				continue
			}
			data := topics[topic]
			if data == nil {
				data = &topicData{perspectives: map[string]struct{}{}}
				topics[topic] = data
			}
			data.count++
			for _, p := range matchPerspectives(topic, tag) {
				data.perspectives[p] = struct{}{}
			}
		}
	}

	analysis := Analysis{LastAnalyzed: now.UnixMilli()}

	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)

	covered := 0
	for _, name := range names {
		data := topics[name]
		if data.count >= coveredTopicFloor {
			covered++
		}
		if data.count < minVideosPerTopic {
			continue
		}

		current := make([]string, 0, len(data.perspectives))
		for p := range data.perspectives {
			current = append(current, p)
		}
		sort.Strings(current)

		if len(current) >= minPerspectives {
			continue
		}
		missing := suggestMissing(name, current)
		if len(missing) == 0 {
			continue
		}
		if len(current) == 0 {
			current = []string{"unknown"}
		}
		analysis.NarrowPerspectives = append(analysis.NarrowPerspectives, NarrowPerspective{
			Topic:        name,
			VideoCount:   data.count,
			Perspectives: current,
			Missing:      missing,
		})
	}

	analysis.TopicCoverage = int(math.Round(float64(covered) / float64(len(perspectiveMappings)) * 100))
	return analysis, nil
}

// mapTagToTopic resolves a video tag to a known topic, or "" when no topic
// matches. Direct name containment is tried before keyword lookup.
func mapTagToTopic(tag string) string {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	if normalized == "" {
		return ""
	}

	// iterate in stable order so ambiguous tags always map the same way
	topicNames := make([]string, 0, len(perspectiveMappings))
	for topic := range perspectiveMappings {
		topicNames = append(topicNames, topic)
	}
	sort.Strings(topicNames)

	for _, topic := range topicNames {
		if strings.Contains(normalized, topic) || strings.Contains(topic, normalized) {
			return topic
		}
	}

	for _, topic := range topicNames {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(normalized, kw) {
				return topic
			}
		}
	}
	return ""
}

// matchPerspectives returns the topic's perspectives mentioned in the tag
func matchPerspectives(topic, tag string) []string {
	normalized := strings.ToLower(tag)
	var found []string
	for _, p := range perspectiveMappings[topic] {
		if strings.Contains(normalized, strings.ToLower(p)) {
			found = append(found, p)
		}
	}
	return found
}

// suggestMissing picks up to maxSuggestions perspectives the user has not seen
func suggestMissing(topic string, current []string) []string {
	seen := make(map[string]struct{}, len(current))
	for _, p := range current {
		seen[strings.ToLower(p)] = struct{}{}
	}

	var missing []string
	for _, p := range perspectiveMappings[topic] {
		if _, ok := seen[strings.ToLower(p)]; ok {
			continue
		}
		missing = append(missing, p)
		if len(missing) == maxSuggestions {
			break
		}
	}
	return missing
}
