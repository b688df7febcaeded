package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/vidscope/vidscope/pkg/domain"
)

// NotesRepository stores user notes attached to videos
type NotesRepository struct {
	db *sqlx.DB
}

// NewNotesRepository creates a new notes repository
func NewNotesRepository(db *sqlx.DB) *NotesRepository {
	return &NotesRepository{db: db}
}

type noteRow struct {
	ID        string        `db:"id"`
	VideoID   string        `db:"video_id"`
	Text      string        `db:"text"`
	Seconds   sql.NullInt64 `db:"seconds"`
	CreatedAt int64         `db:"created_at"`
	UpdatedAt sql.NullInt64 `db:"updated_at"`
}

func (row noteRow) toDomain() domain.Note {
	n := domain.Note{
		ID:        row.ID,
		VideoID:   row.VideoID,
		Text:      row.Text,
		CreatedAt: row.CreatedAt,
	}
	if row.Seconds.Valid {
		seconds := int(row.Seconds.Int64)
		n.Seconds = &seconds
	}
	if row.UpdatedAt.Valid {
		n.UpdatedAt = &row.UpdatedAt.Int64
	}
	return n
}

func secondsArg(n domain.Note) interface{} {
	if n.Seconds == nil {
		return nil
	}
	return *n.Seconds
}

// Add inserts a new note
func (r *NotesRepository) Add(ctx context.Context, n domain.Note) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO notes (id, video_id, text, seconds, created_at)
			VALUES (?, ?, ?, ?, ?)
		`
		_, err := r.db.ExecContext(ctx, query, n.ID, n.VideoID, n.Text, secondsArg(n), n.CreatedAt)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("add note: %w", err)}
		}
		return nil
	})
}

// Update replaces a note's text and timestamp
func (r *NotesRepository) Update(ctx context.Context, id, text string, updatedAt int64) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx,
			"UPDATE notes SET text = ?, updated_at = ? WHERE id = ?", text, updatedAt, id)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("update note: %w", err)}
		}
		n, err := res.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("update note rows: %w", err)}
		}
		if n == 0 {
			return &criticalError{err: ErrNotFound}
		}
		return nil
	})
}

// Delete removes a note by id
func (r *NotesRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForVideo returns all notes for one video, oldest first
func (r *NotesRepository) ListForVideo(ctx context.Context, videoID string) ([]domain.Note, error) {
	var rows []noteRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM notes WHERE video_id = ? ORDER BY created_at, id", videoID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}

	notes := make([]domain.Note, len(rows))
	for i, row := range rows {
		notes[i] = row.toDomain()
	}
	return notes, nil
}

// ListAll returns every note, newest first
func (r *NotesRepository) ListAll(ctx context.Context) ([]domain.Note, error) {
	var rows []noteRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM notes ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("list all notes: %w", err)
	}

	notes := make([]domain.Note, len(rows))
	for i, row := range rows {
		notes[i] = row.toDomain()
	}
	return notes, nil
}
