// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/danielhkuo/note-rater/ident"
	"github.com/danielhkuo/note-rater/models"
)

// FileStore writes one JSON file per completed session into a results
// directory. This is the default backend: records stay greppable and the
// study operator can copy them off the box with rsync.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Persist writes the submission to session_<id>_<name>.json. The write goes
// through a temp file and a rename so a crash mid-write never leaves a
// half-record behind.
func (s *FileStore) Persist(sub models.Submission) (string, error) {
	data, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode submission: %w", err)
	}

	filename := "session_" + sub.SessionID + "_" + ident.SanitizeName(sub.ParticipantName) + ".json"
	path := filepath.Join(s.dir, filename)

	tmp, err := os.CreateTemp(s.dir, filename+".tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create result file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write result file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to flush result file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to finalize result file: %w", err)
	}

	return filename, nil
}

// LoadIdentities reads every session_*.json file in the results directory
// and collects the participant names. Unreadable or corrupt files are
// logged and skipped; losing one historical record must not block startup.
func (s *FileStore) LoadIdentities() (map[string]struct{}, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read results directory: %w", err)
	}

	names := make(map[string]struct{})
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "session_") || !strings.HasSuffix(name, ".json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			slog.Warn("skipping unreadable result file", "file", name, "error", err)
			continue
		}

		var sub models.Submission
		if err := json.Unmarshal(raw, &sub); err != nil {
			slog.Warn("skipping corrupt result file", "file", name, "error", err)
			continue
		}
		if sub.ParticipantName == "" {
			slog.Warn("skipping result file without participant name", "file", name)
			continue
		}
		names[sub.ParticipantName] = struct{}{}
	}

	return names, nil
}
