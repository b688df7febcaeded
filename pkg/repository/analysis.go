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

// ErrNotFound is returned when a requested row does not exist or expired
var ErrNotFound = errors.New("not found")

// AnalysisRepository caches video analyses with a TTL
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis cache repository
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// CachedAnalysis is an analysis row with its cache metadata
type CachedAnalysis struct {
	VideoID    string
	VideoTitle string
	Analysis   domain.VideoAnalysis
	CachedAt   int64 // unix milliseconds
}

// Save stores or replaces the analysis for a video, refreshing cached_at
func (r *AnalysisRepository) Save(ctx context.Context, videoID, videoTitle string, analysis domain.VideoAnalysis) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO analysis_cache (video_id, video_title, analysis, cached_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(video_id) DO UPDATE SET
				video_title = excluded.video_title,
				analysis = excluded.analysis,
				cached_at = excluded.cached_at
		`
		_, err := r.db.ExecContext(ctx, query, videoID, videoTitle, analysisJSON(analysis), time.Now().UnixMilli())
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("save analysis: %w", err)}
		}
		return nil
	})
}

// Get returns the cached analysis for a video. An entry older than the TTL is
// deleted on the spot and reported as missing.
func (r *AnalysisRepository) Get(ctx context.Context, videoID string, ttl time.Duration) (*CachedAnalysis, error) {
	var row struct {
		VideoID    string       `db:"video_id"`
		VideoTitle string       `db:"video_title"`
		Analysis   analysisJSON `db:"analysis"`
		CachedAt   int64        `db:"cached_at"`
	}
	err := r.db.GetContext(ctx, &row,
		"SELECT video_id, video_title, analysis, cached_at FROM analysis_cache WHERE video_id = ?", videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	if time.Now().UnixMilli()-row.CachedAt > ttl.Milliseconds() {
		if err := r.Delete(ctx, videoID); err != nil {
			return nil, fmt.Errorf("evict expired analysis: %w", err)
		}
		return nil, ErrNotFound
	}

	return &CachedAnalysis{
		VideoID:    row.VideoID,
		VideoTitle: row.VideoTitle,
		Analysis:   domain.VideoAnalysis(row.Analysis),
		CachedAt:   row.CachedAt,
	}, nil
}

// Delete removes the cached analysis for a video
func (r *AnalysisRepository) Delete(ctx context.Context, videoID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM analysis_cache WHERE video_id = ?", videoID); err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	return nil
}

// CleanupExpired removes all entries older than the TTL and returns the count
func (r *AnalysisRepository) CleanupExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := time.Now().UnixMilli() - ttl.Milliseconds()
	res, err := r.db.ExecContext(ctx, "DELETE FROM analysis_cache WHERE cached_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup analysis cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup analysis cache rows: %w", err)
	}
	return n, nil
}

// Count returns the number of cached analyses
func (r *AnalysisRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM analysis_cache"); err != nil {
		return 0, fmt.Errorf("count analyses: %w", err)
	}
	return n, nil
}
