// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/note-rater/models"
)

// SQLStore persists submissions through database/sql. The same $N
// placeholder text runs on both supported drivers (modernc sqlite and
// lib/pq postgres), so the backend choice is just a driver name and a DSN.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if err := createSchema(db); err != nil {
		return nil, err
	}
	return &SQLStore{db: db}, nil
}

// createSchema creates the submission table. Safe to call multiple times -
// uses IF NOT EXISTS.
func createSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

const schema = `
-- Completed-session submissions
CREATE TABLE IF NOT EXISTS submission (
    id TEXT PRIMARY KEY,
    participant_name TEXT NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submission_participant ON submission(participant_name);
`

func (s *SQLStore) Persist(sub models.Submission) (string, error) {
	payload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("failed to encode submission: %w", err)
	}

	id := "session_" + sub.SessionID
	_, err = s.db.Exec(`
		INSERT INTO submission (id, participant_name, submitted_at, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET payload = EXCLUDED.payload, submitted_at = EXCLUDED.submitted_at
	`, id, sub.ParticipantName, time.Now(), string(payload))
	if err != nil {
		return "", fmt.Errorf("failed to insert submission: %w", err)
	}

	return id, nil
}

func (s *SQLStore) LoadIdentities() (map[string]struct{}, error) {
	rows, err := s.db.Query(`SELECT id, participant_name FROM submission`)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			slog.Warn("skipping unreadable submission row", "error", err)
			continue
		}
		if name == "" {
			slog.Warn("skipping submission without participant name", "id", id)
			continue
		}
		names[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan submissions: %w", err)
	}

	return names, nil
}
