package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/vidscope/vidscope/pkg/domain"
)

// StatsRepository persists daily aggregates, per-channel averages and the
// guardian override counters.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

type dailyStatsRow struct {
	Date         string      `db:"date"`
	VideoCount   int         `db:"video_count"`
	WatchSeconds int         `db:"watch_seconds"`
	ByCategory   bucketsJSON `db:"by_category"`
	Channels     countsJSON  `db:"channels"`
	Tags         stringsJSON `db:"tags"`
}

func (row dailyStatsRow) toDomain() domain.DailyStats {
	return domain.DailyStats{
		Date:         row.Date,
		VideoCount:   row.VideoCount,
		WatchSeconds: row.WatchSeconds,
		ByCategory:   row.ByCategory,
		Channels:     row.Channels,
		Tags:         row.Tags,
	}
}

// SaveDaily upserts the aggregate row for one day
func (r *StatsRepository) SaveDaily(ctx context.Context, stats domain.DailyStats) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO daily_stats (date, video_count, watch_seconds, by_category, channels, tags)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(date) DO UPDATE SET
				video_count = excluded.video_count,
				watch_seconds = excluded.watch_seconds,
				by_category = excluded.by_category,
				channels = excluded.channels,
				tags = excluded.tags
		`
		_, err := r.db.ExecContext(ctx, query, stats.Date, stats.VideoCount, stats.WatchSeconds,
			bucketsJSON(stats.ByCategory), countsJSON(stats.Channels), stringsJSON(stats.Tags))
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("save daily stats: %w", err)}
		}
		return nil
	})
}

// GetDaily returns the aggregate for one day
func (r *StatsRepository) GetDaily(ctx context.Context, date string) (domain.DailyStats, error) {
	var row dailyStatsRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM daily_stats WHERE date = ?", date)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyStats{}, ErrNotFound
	}
	if err != nil {
		return domain.DailyStats{}, fmt.Errorf("get daily stats: %w", err)
	}
	return row.toDomain(), nil
}

// ListDailyRange returns days between from and to inclusive, dates are
// YYYY-MM-DD so string comparison orders them correctly
func (r *StatsRepository) ListDailyRange(ctx context.Context, from, to string) ([]domain.DailyStats, error) {
	var rows []dailyStatsRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM daily_stats WHERE date >= ? AND date <= ? ORDER BY date", from, to)
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}

	stats := make([]domain.DailyStats, len(rows))
	for i, row := range rows {
		stats[i] = row.toDomain()
	}
	return stats, nil
}

type channelStatsRow struct {
	ChannelID       string  `db:"channel_id"`
	ChannelName     string  `db:"channel_name"`
	VideoCount      int     `db:"video_count"`
	AvgProductivity float64 `db:"avg_productivity"`
	AvgEducational  float64 `db:"avg_educational"`
	AvgEntertain    float64 `db:"avg_entertainment"`
	UpdatedAt       int64   `db:"updated_at"`
}

func (row channelStatsRow) toDomain() domain.ChannelStats {
	return domain.ChannelStats{
		ChannelID:       row.ChannelID,
		ChannelName:     row.ChannelName,
		VideoCount:      row.VideoCount,
		AvgProductivity: row.AvgProductivity,
		AvgEducational:  row.AvgEducational,
		AvgEntertain:    row.AvgEntertain,
		UpdatedAt:       row.UpdatedAt,
	}
}

// RecordChannelVideo folds one video's scores into the channel's rolling
// averages. The new average is (avg*n + score) / (n+1).
func (r *StatsRepository) RecordChannelVideo(ctx context.Context, channelID, channelName string, scores domain.ContentScores, now int64) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO channel_stats
				(channel_id, channel_name, video_count, avg_productivity, avg_educational, avg_entertainment, updated_at)
			VALUES (?, ?, 1, ?, ?, ?, ?)
			ON CONFLICT(channel_id) DO UPDATE SET
				channel_name = excluded.channel_name,
				avg_productivity = (avg_productivity * video_count + excluded.avg_productivity) / (video_count + 1),
				avg_educational = (avg_educational * video_count + excluded.avg_educational) / (video_count + 1),
				avg_entertainment = (avg_entertainment * video_count + excluded.avg_entertainment) / (video_count + 1),
				video_count = video_count + 1,
				updated_at = excluded.updated_at
		`
		_, err := r.db.ExecContext(ctx, query, channelID, channelName,
			float64(scores.Productivity), float64(scores.Educational), float64(scores.Entertainment), now)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("record channel video: %w", err)}
		}
		return nil
	})
}

// GetChannel returns the rolling averages for one channel
func (r *StatsRepository) GetChannel(ctx context.Context, channelID string) (domain.ChannelStats, error) {
	var row channelStatsRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM channel_stats WHERE channel_id = ?", channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ChannelStats{}, ErrNotFound
	}
	if err != nil {
		return domain.ChannelStats{}, fmt.Errorf("get channel stats: %w", err)
	}
	return row.toDomain(), nil
}

// ListChannels returns all tracked channels, most videos first
func (r *StatsRepository) ListChannels(ctx context.Context) ([]domain.ChannelStats, error) {
	var rows []channelStatsRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM channel_stats ORDER BY video_count DESC, channel_id")
	if err != nil {
		return nil, fmt.Errorf("list channel stats: %w", err)
	}

	stats := make([]domain.ChannelStats, len(rows))
	for i, row := range rows {
		stats[i] = row.toDomain()
	}
	return stats, nil
}

// GetOverrides returns the guardian override counters
func (r *StatsRepository) GetOverrides(ctx context.Context) (domain.OverrideStats, error) {
	var row struct {
		Total     int   `db:"total"`
		ThisWeek  int   `db:"this_week"`
		LastReset int64 `db:"last_reset"`
	}
	err := r.db.GetContext(ctx, &row,
		"SELECT total, this_week, last_reset FROM override_stats WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OverrideStats{}, nil
	}
	if err != nil {
		return domain.OverrideStats{}, fmt.Errorf("get override stats: %w", err)
	}
	return domain.OverrideStats{Total: row.Total, ThisWeek: row.ThisWeek, LastReset: row.LastReset}, nil
}

// SaveOverrides replaces the guardian override counters
func (r *StatsRepository) SaveOverrides(ctx context.Context, stats domain.OverrideStats) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO override_stats (id, total, this_week, last_reset)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				total = excluded.total,
				this_week = excluded.this_week,
				last_reset = excluded.last_reset
		`
		if _, err := r.db.ExecContext(ctx, query, stats.Total, stats.ThisWeek, stats.LastReset); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("save override stats: %w", err)}
		}
		return nil
	})
}
