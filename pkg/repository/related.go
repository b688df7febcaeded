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

// relatedTTL is how long related search results stay valid
const relatedTTL = 7 * 24 * time.Hour

// relatedMaxEntries bounds the related cache, oldest entries are evicted first
const relatedMaxEntries = 50

// RelatedRepository caches related web content per video
type RelatedRepository struct {
	db *sqlx.DB
}

// NewRelatedRepository creates a new related content cache repository
func NewRelatedRepository(db *sqlx.DB) *RelatedRepository {
	return &RelatedRepository{db: db}
}

// Save stores the related resources for a video and evicts the oldest entries
// once the cache exceeds its size bound
func (r *RelatedRepository) Save(ctx context.Context, videoID string, resources []domain.RelatedResource) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return &criticalError{err: fmt.Errorf("begin related save: %w", err)}
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		query := `
			INSERT INTO related_cache (video_id, resources, cached_at)
			VALUES (?, ?, ?)
			ON CONFLICT(video_id) DO UPDATE SET
				resources = excluded.resources,
				cached_at = excluded.cached_at
		`
		if _, err := tx.ExecContext(ctx, query, videoID, resourcesJSON(resources), time.Now().UnixMilli()); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("save related: %w", err)}
		}

		// keep only the newest entries
		evict := `
			DELETE FROM related_cache WHERE video_id IN (
				SELECT video_id FROM related_cache
				ORDER BY cached_at DESC
				LIMIT -1 OFFSET ?
			)
		`
		if _, err := tx.ExecContext(ctx, evict, relatedMaxEntries); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("evict related overflow: %w", err)}
		}

		if err := tx.Commit(); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("commit related save: %w", err)}
		}
		return nil
	})
}

// Get returns cached related resources for a video, evicting entries older
// than seven days on access
func (r *RelatedRepository) Get(ctx context.Context, videoID string) ([]domain.RelatedResource, error) {
	var row struct {
		Resources resourcesJSON `db:"resources"`
		CachedAt  int64         `db:"cached_at"`
	}
	err := r.db.GetContext(ctx, &row,
		"SELECT resources, cached_at FROM related_cache WHERE video_id = ?", videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get related: %w", err)
	}

	if time.Now().UnixMilli()-row.CachedAt > relatedTTL.Milliseconds() {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM related_cache WHERE video_id = ?", videoID); err != nil {
			return nil, fmt.Errorf("evict expired related: %w", err)
		}
		return nil, ErrNotFound
	}

	return row.Resources, nil
}

// CleanupExpired removes all entries older than the related TTL
func (r *RelatedRepository) CleanupExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UnixMilli() - relatedTTL.Milliseconds()
	res, err := r.db.ExecContext(ctx, "DELETE FROM related_cache WHERE cached_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup related cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cleanup related cache rows: %w", err)
	}
	return n, nil
}

// Count returns the number of cached related entries
func (r *RelatedRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM related_cache"); err != nil {
		return 0, fmt.Errorf("count related entries: %w", err)
	}
	return n, nil
}
