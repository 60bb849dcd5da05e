package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"markestedt/copyman/settings"
)

// GetSettings loads the settings row, or the defaults when none was saved
func (db *DB) GetSettings(ctx context.Context) (settings.Settings, error) {
	var payload string
	err := db.conn.QueryRowContext(ctx, `SELECT payload FROM settings WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return settings.Default(), nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("failed to query settings: %w", err)
	}

	var s settings.Settings
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return settings.Settings{}, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return s, nil
}

// SaveSettings upserts the settings row
func (db *DB) SaveSettings(ctx context.Context, s settings.Settings) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	query := `
		INSERT INTO settings (id, payload, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := db.conn.ExecContext(ctx, query, string(payload)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
