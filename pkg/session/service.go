// Package session tracks watch sessions and the aggregates derived from them:
// daily stats, channel averages and guardian override counters.
package session

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/oklog/ulid/v2"

	"github.com/vidscope/vidscope/pkg/domain"
	"github.com/vidscope/vidscope/pkg/repository"
)

// overrideResetWindow is how long the weekly override counter accumulates
// before it resets
const overrideResetWindow = 7 * 24 * time.Hour

// Config holds session service parameters
type Config struct {
	IdleTimeout     time.Duration // inactivity before a session rolls over
	CheckinInterval time.Duration // default watch time before a check-in is due
}

// Service manages the current watch session and folds finished watching into
// the persistent aggregates.
type Service struct {
	sessions *repository.SessionRepository
	stats    *repository.StatsRepository
	config   Config
	entropy  *ulid.MonotonicEntropy
	now      func() time.Time
}

// NewService creates a session service over the given repositories
func NewService(sessions *repository.SessionRepository, stats *repository.StatsRepository, config Config) *Service {
	if config.IdleTimeout <= 0 {
		config.IdleTimeout = 30 * time.Minute
	}
	if config.CheckinInterval <= 0 {
		config.CheckinInterval = 20 * time.Minute
	}
	return &Service{
		sessions: sessions,
		stats:    stats,
		config:   config,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		now:      time.Now,
	}
}

func (s *Service) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// Current returns the active session. A session idle past the timeout is
// closed on the spot and reported as missing.
func (s *Service) Current(ctx context.Context) (domain.Session, error) {
	current, err := s.sessions.GetCurrent(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	if s.now().UnixMilli()-current.LastActivity > s.config.IdleTimeout.Milliseconds() {
		if err := s.sessions.End(ctx, current.ID); err != nil {
			return domain.Session{}, fmt.Errorf("end idle session: %w", err)
		}
		lgr.Printf("[DEBUG] session %s rolled over after idle timeout", current.ID)
		return domain.Session{}, repository.ErrNotFound
	}
	return current, nil
}

// Start begins a new session, closing any session still marked current
func (s *Service) Start(ctx context.Context) (domain.Session, error) {
	if current, err := s.sessions.GetCurrent(ctx); err == nil {
		if err := s.sessions.End(ctx, current.ID); err != nil {
			return domain.Session{}, fmt.Errorf("end previous session: %w", err)
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Session{}, err
	}

	now := s.now().UnixMilli()
	session := domain.Session{
		ID:           s.newID(),
		StartTime:    now,
		LastActivity: now,
		Videos:       []domain.SessionVideo{},
	}
	if err := s.sessions.SaveCurrent(ctx, session); err != nil {
		return domain.Session{}, err
	}
	lgr.Printf("[INFO] started session %s", session.ID)
	return session, nil
}

// ensureCurrent returns the active session, starting one when none exists
func (s *Service) ensureCurrent(ctx context.Context) (domain.Session, error) {
	current, err := s.Current(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return s.Start(ctx)
	}
	return current, err
}

// AddVideo records a video starting in the current session
func (s *Service) AddVideo(ctx context.Context, video domain.SessionVideo) (domain.Session, error) {
	current, err := s.ensureCurrent(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	now := s.now().UnixMilli()
	if video.StartedAt == 0 {
		video.StartedAt = now
	}
	current.Videos = append(current.Videos, video)
	current.LastActivity = now

	if err := s.sessions.SaveCurrent(ctx, current); err != nil {
		return domain.Session{}, err
	}
	return current, nil
}

// EndVideo closes the most recent open entry for the video and adds the
// accumulated play time
func (s *Service) EndVideo(ctx context.Context, videoID string, watchSeconds int) (domain.Session, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	now := s.now().UnixMilli()
	for i := len(current.Videos) - 1; i >= 0; i-- {
		v := &current.Videos[i]
		if v.VideoID == videoID && v.EndedAt == nil {
			ended := now
			v.EndedAt = &ended
			v.WatchSeconds += watchSeconds
			break
		}
	}
	current.LastActivity = now

	if err := s.sessions.SaveCurrent(ctx, current); err != nil {
		return domain.Session{}, err
	}
	return current, nil
}

// Touch refreshes the session's last-activity timestamp
func (s *Service) Touch(ctx context.Context) error {
	current, err := s.Current(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil // nothing to touch
		}
		return err
	}
	current.LastActivity = s.now().UnixMilli()
	return s.sessions.SaveCurrent(ctx, current)
}

// SetIntent records the user's declared purpose for the current session,
// starting one when needed
func (s *Service) SetIntent(ctx context.Context, intent domain.WatchIntent) (domain.Session, error) {
	current, err := s.ensureCurrent(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	current.Intent = intent
	current.LastActivity = s.now().UnixMilli()

	if err := s.sessions.SaveCurrent(ctx, current); err != nil {
		return domain.Session{}, err
	}
	return current, nil
}

// CheckinDue reports whether the current session has run long enough for a
// check-in prompt. checkinMinutes comes from settings, zero falls back to the
// configured default.
func (s *Service) CheckinDue(ctx context.Context, checkinMinutes int) (bool, error) {
	current, err := s.Current(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	interval := s.config.CheckinInterval
	if checkinMinutes > 0 {
		interval = time.Duration(checkinMinutes) * time.Minute
	}
	return s.now().UnixMilli()-current.StartTime >= interval.Milliseconds(), nil
}

// RecordWatch folds one watched video into today's daily stats and the
// channel's rolling averages. watchSeconds is actual play time.
func (s *Service) RecordWatch(ctx context.Context, video domain.SessionVideo, tags []string, channelName string) error {
	now := s.now()
	date := now.Format("2006-01-02")

	stats, err := s.stats.GetDaily(ctx, date)
	if errors.Is(err, repository.ErrNotFound) {
		stats = domain.DailyStats{Date: date}
	} else if err != nil {
		return err
	}

	if stats.ByCategory == nil {
		stats.ByCategory = map[string]domain.CategoryBucket{}
	}
	if stats.Channels == nil {
		stats.Channels = map[string]int{}
	}

	stats.VideoCount++
	stats.WatchSeconds += video.WatchSeconds

	if video.Scores != nil {
		category := dominantCategory(*video.Scores)
		bucket := stats.ByCategory[category]
		bucket.Count++
		bucket.Seconds += video.WatchSeconds
		stats.ByCategory[category] = bucket
	}
	if video.ChannelID != "" {
		stats.Channels[video.ChannelID]++
	}
	stats.Tags = append(stats.Tags, tags...)

	if err := s.stats.SaveDaily(ctx, stats); err != nil {
		return err
	}

	if video.ChannelID != "" && video.Scores != nil {
		if err := s.stats.RecordChannelVideo(ctx, video.ChannelID, channelName, *video.Scores, now.UnixMilli()); err != nil {
			return err
		}
	}
	return nil
}

// Overrides returns the guardian override counters, resetting the weekly
// count when the window elapsed
func (s *Service) Overrides(ctx context.Context) (domain.OverrideStats, error) {
	stats, err := s.stats.GetOverrides(ctx)
	if err != nil {
		return domain.OverrideStats{}, err
	}
	if stats.LastReset == 0 {
		stats.LastReset = s.now().UnixMilli()
	}

	if s.now().UnixMilli()-stats.LastReset > overrideResetWindow.Milliseconds() {
		stats.ThisWeek = 0
		stats.LastReset = s.now().UnixMilli()
		if err := s.stats.SaveOverrides(ctx, stats); err != nil {
			return domain.OverrideStats{}, err
		}
	}
	return stats, nil
}

// TrackOverride counts one guardian override
func (s *Service) TrackOverride(ctx context.Context) (domain.OverrideStats, error) {
	stats, err := s.Overrides(ctx)
	if err != nil {
		return domain.OverrideStats{}, err
	}
	stats.Total++
	stats.ThisWeek++
	if err := s.stats.SaveOverrides(ctx, stats); err != nil {
		return domain.OverrideStats{}, err
	}
	return stats, nil
}

// dominantCategory picks the bucket for the highest base score, ties resolved
// in a fixed order
func dominantCategory(s domain.ContentScores) string {
	categories := []struct {
		name  string
		score int
	}{
		{"productive", s.Productivity},
		{"educational", s.Educational},
		{"entertainment", s.Entertainment},
		{"inspiring", s.Inspiring},
		{"creative", s.Creative},
	}

	best := categories[0]
	for _, c := range categories[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best.name
}
