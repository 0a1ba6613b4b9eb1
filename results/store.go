// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package results

import (
	"github.com/danielhkuo/note-rater/models"
)

// Store persists completed-session submissions and is the source of truth
// for participant names already used across process restarts.
//
// Record identifiers embed the session id, which is globally unique, so a
// write can never clobber another session's record. Re-persisting the same
// session (a client retrying its submit) replaces the earlier payload —
// last submit wins.
type Store interface {
	// Persist durably writes one submission and returns its record
	// identifier (the filename for the file backend). The write completes
	// or fails before returning; a failure is surfaced, never swallowed.
	Persist(sub models.Submission) (string, error)

	// LoadIdentities scans all stored records and returns the set of
	// participant names found. Individually corrupt records are skipped
	// with a warning rather than failing the whole load.
	LoadIdentities() (map[string]struct{}, error)
}
