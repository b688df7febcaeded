package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/vidscope/vidscope/pkg/domain"
)

// settingsKey is the key the settings blob is stored under
const settingsKey = "settings"

// SettingsRepository stores the user settings blob in the key/value table
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// defaultSettings are applied when nothing has been saved yet
func defaultSettings() domain.Settings {
	return domain.Settings{
		MinScoreThreshold: 30,
		GuardianEnabled:   true,
		CheckinMinutes:    20,
		FocusSchedule: domain.FocusSchedule{
			FocusThreshold: 50,
		},
	}
}

// Get returns the stored settings, or defaults when none were saved
func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	var value string
	err := r.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", settingsKey)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultSettings(), nil
	}
	if err != nil {
		return domain.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	return settings, nil
}

// Save stores the settings blob
func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	return retrier.Do(ctx, func() error {
		query := `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`
		if _, err := r.db.ExecContext(ctx, query, settingsKey, string(data)); err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("save settings: %w", err)}
		}
		return nil
	})
}
