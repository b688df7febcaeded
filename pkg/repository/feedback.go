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

// FeedbackRepository stores the latest feedback per video
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

type feedbackRow struct {
	VideoID    string       `db:"video_id"`
	VideoTitle string       `db:"video_title"`
	Feedback   string       `db:"feedback"`
	Analysis   analysisJSON `db:"analysis"`
	Timestamp  int64        `db:"timestamp"`
}

func (row feedbackRow) toDomain() domain.VideoFeedback {
	return domain.VideoFeedback{
		VideoID:    row.VideoID,
		VideoTitle: row.VideoTitle,
		Feedback:   domain.FeedbackType(row.Feedback),
		Analysis:   domain.VideoAnalysis(row.Analysis),
		Timestamp:  row.Timestamp,
	}
}

// Save records feedback for a video, a repeated vote replaces the previous one
func (r *FeedbackRepository) Save(ctx context.Context, fb domain.VideoFeedback) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO feedback (video_id, video_title, feedback, analysis, timestamp)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(video_id) DO UPDATE SET
				video_title = excluded.video_title,
				feedback = excluded.feedback,
				analysis = excluded.analysis,
				timestamp = excluded.timestamp
		`
		_, err := r.db.ExecContext(ctx, query, fb.VideoID, fb.VideoTitle, string(fb.Feedback),
			analysisJSON(fb.Analysis), fb.Timestamp)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("save feedback: %w", err)}
		}
		return nil
	})
}

// GetForVideo returns the feedback recorded for a video
func (r *FeedbackRepository) GetForVideo(ctx context.Context, videoID string) (domain.VideoFeedback, error) {
	var row feedbackRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM feedback WHERE video_id = ?", videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VideoFeedback{}, ErrNotFound
	}
	if err != nil {
		return domain.VideoFeedback{}, fmt.Errorf("get feedback: %w", err)
	}
	return row.toDomain(), nil
}

// ListRecent returns the most recent feedback events
func (r *FeedbackRepository) ListRecent(ctx context.Context, limit int) ([]domain.VideoFeedback, error) {
	var rows []feedbackRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM feedback ORDER BY timestamp DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	feedbacks := make([]domain.VideoFeedback, len(rows))
	for i, row := range rows {
		feedbacks[i] = row.toDomain()
	}
	return feedbacks, nil
}
