// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the note-rater API.

# Handler Types

Each handler is a struct with its dependencies injected via constructor:

	sessionHandler := handlers.NewSessionHandler(registry)
	statsHandler := handlers.NewStatsHandler(registry, pool, itemsPerUser)

# Session Flow

A participant moves through one session:

	POST /api/start-session          → StartSession (name checks, balanced draw)
	GET  /api/session/{id}/data      → GetSessionData (assigned items + note order)
	POST /api/session/{id}/response  → RecordResponse (incremental, repeatable)
	POST /api/session/{id}/submit    → SubmitSession (durable write, ledger add)

Conflicts on start-session carry distinct codes: DUPLICATE_NAME when the
name belongs to a completed session, NAME_IN_USE when another live session
holds it.

# Diagnostics

	GET /api/stats   → assignment-balance metrics and session counts
	GET /api/health  → liveness probe
*/
package handlers
