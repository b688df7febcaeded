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

// SessionRepository persists watch sessions. At most one session is current
// (ended = 0) at a time.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

type sessionRow struct {
	ID           string     `db:"id"`
	StartTime    int64      `db:"start_time"`
	LastActivity int64      `db:"last_activity"`
	Intent       string     `db:"intent"`
	Videos       videosJSON `db:"videos"`
	Ended        int        `db:"ended"`
}

func (row sessionRow) toDomain() domain.Session {
	return domain.Session{
		ID:           row.ID,
		StartTime:    row.StartTime,
		LastActivity: row.LastActivity,
		Intent:       domain.WatchIntent(row.Intent),
		Videos:       row.Videos,
	}
}

// SaveCurrent upserts the current session state
func (r *SessionRepository) SaveCurrent(ctx context.Context, s domain.Session) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO sessions (id, start_time, last_activity, intent, videos, ended)
			VALUES (?, ?, ?, ?, ?, 0)
			ON CONFLICT(id) DO UPDATE SET
				last_activity = excluded.last_activity,
				intent = excluded.intent,
				videos = excluded.videos
		`
		_, err := r.db.ExecContext(ctx, query, s.ID, s.StartTime, s.LastActivity,
			string(s.Intent), videosJSON(s.Videos))
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("save session: %w", err)}
		}
		return nil
	})
}

// GetCurrent returns the session that has not ended yet
func (r *SessionRepository) GetCurrent(ctx context.Context) (domain.Session, error) {
	var row sessionRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM sessions WHERE ended = 0 ORDER BY start_time DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Session{}, ErrNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("get current session: %w", err)
	}
	return row.toDomain(), nil
}

// End marks a session as finished
func (r *SessionRepository) End(ctx context.Context, id string) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, "UPDATE sessions SET ended = 1 WHERE id = ?", id)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("end session: %w", err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("end session rows: %w", err)}
		}
		if n == 0 {
			return &criticalError{err: ErrNotFound}
		}
		return nil
	})
}

// ListRecent returns the most recently started sessions, current one included
func (r *SessionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Session, error) {
	var rows []sessionRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM sessions ORDER BY start_time DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.Session, len(rows))
	for i, row := range rows {
		sessions[i] = row.toDomain()
	}
	return sessions, nil
}
