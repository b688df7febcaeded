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

// ChannelsRepository tracks channels the user liked videos from
type ChannelsRepository struct {
	db *sqlx.DB
}

// NewChannelsRepository creates a new liked channels repository
func NewChannelsRepository(db *sqlx.DB) *ChannelsRepository {
	return &ChannelsRepository{db: db}
}

type likedChannelRow struct {
	ChannelID    string `db:"channel_id"`
	ChannelName  string `db:"channel_name"`
	ChannelURL   string `db:"channel_url"`
	LikeCount    int    `db:"like_count"`
	LastLikedAt  int64  `db:"last_liked_at"`
	LastVideoID  string `db:"last_video_id"`
	Subscription string `db:"subscription"`
}

func (row likedChannelRow) toDomain() domain.LikedChannel {
	return domain.LikedChannel{
		ChannelID:    row.ChannelID,
		ChannelName:  row.ChannelName,
		ChannelURL:   row.ChannelURL,
		LikeCount:    row.LikeCount,
		LastLikedAt:  row.LastLikedAt,
		LastVideoID:  row.LastVideoID,
		Subscription: domain.SubscriptionStatus(row.Subscription),
	}
}

// RecordLike registers a like for a channel, bumping its like count
func (r *ChannelsRepository) RecordLike(ctx context.Context, channelID, channelName, channelURL, videoID string, likedAt int64) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO liked_channels
				(channel_id, channel_name, channel_url, like_count, last_liked_at, last_video_id, subscription)
			VALUES (?, ?, ?, 1, ?, ?, 'unknown')
			ON CONFLICT(channel_id) DO UPDATE SET
				channel_name = excluded.channel_name,
				channel_url = excluded.channel_url,
				like_count = like_count + 1,
				last_liked_at = excluded.last_liked_at,
				last_video_id = excluded.last_video_id
		`
		_, err := r.db.ExecContext(ctx, query, channelID, channelName, channelURL, likedAt, videoID)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("record channel like: %w", err)}
		}
		return nil
	})
}

// SetSubscription marks whether the user subscribes to a channel
func (r *ChannelsRepository) SetSubscription(ctx context.Context, channelID string, status domain.SubscriptionStatus) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx,
			"UPDATE liked_channels SET subscription = ? WHERE channel_id = ?", string(status), channelID)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("set subscription: %w", err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("set subscription rows: %w", err)}
		}
		if n == 0 {
			return &criticalError{err: ErrNotFound}
		}
		return nil
	})
}

// Get returns one liked channel by id
func (r *ChannelsRepository) Get(ctx context.Context, channelID string) (domain.LikedChannel, error) {
	var row likedChannelRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM liked_channels WHERE channel_id = ?", channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LikedChannel{}, ErrNotFound
	}
	if err != nil {
		return domain.LikedChannel{}, fmt.Errorf("get liked channel: %w", err)
	}
	return row.toDomain(), nil
}

// List returns all liked channels, most liked first
func (r *ChannelsRepository) List(ctx context.Context) ([]domain.LikedChannel, error) {
	var rows []likedChannelRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM liked_channels ORDER BY like_count DESC, last_liked_at DESC")
	if err != nil {
		return nil, fmt.Errorf("list liked channels: %w", err)
	}

	channels := make([]domain.LikedChannel, len(rows))
	for i, row := range rows {
		channels[i] = row.toDomain()
	}
	return channels, nil
}

// Remove deletes a channel from the liked set
func (r *ChannelsRepository) Remove(ctx context.Context, channelID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM liked_channels WHERE channel_id = ?", channelID)
	if err != nil {
		return fmt.Errorf("remove liked channel: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove liked channel rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
