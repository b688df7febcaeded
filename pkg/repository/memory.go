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

// MemoryRepository persists learned preference memories
type MemoryRepository struct {
	db *sqlx.DB
}

// NewMemoryRepository creates a new memory repository
func NewMemoryRepository(db *sqlx.DB) *MemoryRepository {
	return &MemoryRepository{db: db}
}

type memoryRow struct {
	ID            string        `db:"id"`
	Type          string        `db:"type"`
	Preference    string        `db:"preference"`
	Confidence    float64       `db:"confidence"`
	Sources       sourcesJSON   `db:"sources"`
	ExtractedFrom string        `db:"extracted_from"`
	CreatedAt     int64         `db:"created_at"`
	UpdatedAt     sql.NullInt64 `db:"updated_at"`
}

func (row memoryRow) toDomain() domain.MemoryEntry {
	m := domain.MemoryEntry{
		ID:            row.ID,
		Type:          domain.FeedbackType(row.Type),
		Preference:    row.Preference,
		Confidence:    row.Confidence,
		Sources:       row.Sources,
		ExtractedFrom: row.ExtractedFrom,
		CreatedAt:     row.CreatedAt,
	}
	if row.UpdatedAt.Valid {
		m.UpdatedAt = &row.UpdatedAt.Int64
	}
	return m
}

func updatedAtArg(m domain.MemoryEntry) interface{} {
	if m.UpdatedAt == nil {
		return nil
	}
	return *m.UpdatedAt
}

// List returns all memories, newest first
func (r *MemoryRepository) List(ctx context.Context) ([]domain.MemoryEntry, error) {
	var rows []memoryRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM memories ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}

	memories := make([]domain.MemoryEntry, len(rows))
	for i, row := range rows {
		memories[i] = row.toDomain()
	}
	return memories, nil
}

// ListByType returns memories of one feedback type, newest first
func (r *MemoryRepository) ListByType(ctx context.Context, t domain.FeedbackType) ([]domain.MemoryEntry, error) {
	var rows []memoryRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM memories WHERE type = ? ORDER BY created_at DESC, id DESC", string(t))
	if err != nil {
		return nil, fmt.Errorf("list memories by type: %w", err)
	}

	memories := make([]domain.MemoryEntry, len(rows))
	for i, row := range rows {
		memories[i] = row.toDomain()
	}
	return memories, nil
}

// Get returns one memory by id
func (r *MemoryRepository) Get(ctx context.Context, id string) (domain.MemoryEntry, error) {
	var row memoryRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM memories WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MemoryEntry{}, ErrNotFound
	}
	if err != nil {
		return domain.MemoryEntry{}, fmt.Errorf("get memory: %w", err)
	}
	return row.toDomain(), nil
}

// Add inserts a new memory
func (r *MemoryRepository) Add(ctx context.Context, m domain.MemoryEntry) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO memories (id, type, preference, confidence, sources, extracted_from, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := r.db.ExecContext(ctx, query, m.ID, string(m.Type), m.Preference, m.Confidence,
			sourcesJSON(m.Sources), m.ExtractedFrom, m.CreatedAt, updatedAtArg(m))
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("add memory: %w", err)}
		}
		return nil
	})
}

// Update replaces a memory's mutable fields
func (r *MemoryRepository) Update(ctx context.Context, m domain.MemoryEntry) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			UPDATE memories
			SET preference = ?, confidence = ?, sources = ?, updated_at = ?
			WHERE id = ?
		`
		res, err := r.db.ExecContext(ctx, query, m.Preference, m.Confidence, sourcesJSON(m.Sources), updatedAtArg(m), m.ID)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("update memory: %w", err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("update memory rows: %w", err)}
		}
		if n == 0 {
			return &criticalError{err: ErrNotFound}
		}
		return nil
	})
}

// Delete removes a memory by id
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM memories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete memory rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceAll swaps the whole memory set in one transaction, used after
// condensation
func (r *MemoryRepository) ReplaceAll(ctx context.Context, memories []domain.MemoryEntry) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return &criticalError{err: fmt.Errorf("begin replace memories: %w", err)}
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		if _, err := tx.ExecContext(ctx, "DELETE FROM memories"); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("clear memories: %w", err)}
		}

		query := `
			INSERT INTO memories (id, type, preference, confidence, sources, extracted_from, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`
		for _, m := range memories {
			if _, err := tx.ExecContext(ctx, query, m.ID, string(m.Type), m.Preference, m.Confidence,
				sourcesJSON(m.Sources), m.ExtractedFrom, m.CreatedAt, updatedAtArg(m)); err != nil {
				if isLockError(err) {
					return err
				}
				return &criticalError{err: fmt.Errorf("insert memory %s: %w", m.ID, err)}
			}
		}

		if err := tx.Commit(); err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("commit replace memories: %w", err)}
		}
		return nil
	})
}
