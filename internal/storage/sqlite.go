package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ostapk/vitabot/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

const lastCheckMarker = "last_reminder_check"

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewInMemory opens a throwaway database, used by tests.
func NewInMemory() (*Storage, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		// Per-day record of reminders already delivered
		`CREATE TABLE IF NOT EXISTS dismissals (
			day TEXT NOT NULL,
			reminder_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (day, reminder_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_dismissals_day ON dismissals(day)`,
		// Small key-value markers (last checked day etc.)
		`CREATE TABLE IF NOT EXISTS markers (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		// Device-local settings, JSON per key
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		// Cached API session token, survives restarts
		`CREATE TABLE IF NOT EXISTS session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			token TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// --- Dismissals ---

func (s *Storage) IsDismissed(day, reminderID string) (bool, error) {
	var one int
	err := s.db.QueryRow(
		`SELECT 1 FROM dismissals WHERE day = ? AND reminder_id = ?`,
		day, reminderID,
	).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query dismissal: %w", err)
	}
	return true, nil
}

func (s *Storage) MarkDismissed(day, reminderID string) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO dismissals (day, reminder_id) VALUES (?, ?)`,
		day, reminderID,
	)
	if err != nil {
		return fmt.Errorf("insert dismissal: %w", err)
	}
	return nil
}

func (s *Storage) DismissedOn(day string) (map[string]bool, error) {
	rows, err := s.db.Query(`SELECT reminder_id FROM dismissals WHERE day = ?`, day)
	if err != nil {
		return nil, fmt.Errorf("query dismissals: %w", err)
	}
	defer rows.Close()

	dismissed := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan dismissal: %w", err)
		}
		dismissed[id] = true
	}
	return dismissed, rows.Err()
}

// ResetIfNewDay clears all dismissal records when the stored
// last-checked-day marker differs from today. Idempotent: calling it
// again on the same day is a no-op. Returns true when a reset happened.
func (s *Storage) ResetIfNewDay(today string) (bool, error) {
	var last string
	err := s.db.QueryRow(`SELECT value FROM markers WHERE key = ?`, lastCheckMarker).Scan(&last)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("query marker: %w", err)
	}
	if last == today {
		return false, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM dismissals`); err != nil {
		return false, fmt.Errorf("clear dismissals: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO markers (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastCheckMarker, today,
	); err != nil {
		return false, fmt.Errorf("update marker: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// --- Settings ---

const reminderSettingsKey = "reminder_settings"

func (s *Storage) GetReminderSettings() (domain.ReminderSettings, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, reminderSettingsKey).Scan(&value)
	if err == sql.ErrNoRows {
		return domain.DefaultReminderSettings(), nil
	}
	if err != nil {
		return domain.DefaultReminderSettings(), fmt.Errorf("query settings: %w", err)
	}

	var settings domain.ReminderSettings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return domain.DefaultReminderSettings(), fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

func (s *Storage) SaveReminderSettings(settings domain.ReminderSettings) error {
	value, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		reminderSettingsKey, string(value),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// --- Session token ---

func (s *Storage) GetToken() (string, error) {
	var token string
	err := s.db.QueryRow(`SELECT token FROM session WHERE id = 1`).Scan(&token)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query token: %w", err)
	}
	return token, nil
}

func (s *Storage) SaveToken(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO session (id, token, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = CURRENT_TIMESTAMP`,
		token,
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *Storage) ClearToken() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
