// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the note-rater API server.

note-rater backs a human-subjects study where each participant rates a
balanced sample of social-media posts, comparing a community note against an
LLM-written note for each post. The server assigns samples so every item in
the dataset accumulates ratings evenly, enforces one submission per
participant name, and writes completed sessions to a durable result store.

# Starting the Server

The server needs the item dataset; everything else has defaults:

	ITEMS_FILE=data/notes.json go run .

Or with flags:

	go run . -p 3000 -data data/notes.json -n 20

# Configuration

Required settings:

  - ITEMS_FILE (-data): Path to the item dataset JSON file

Optional settings:

  - PORT (-p): Server port (default: 3000)
  - ITEMS_PER_SESSION (-n): Sample size per participant (default: 20)
  - RESULTS_BACKEND (-backend): file, sqlite or postgres (default: file)
  - RESULTS_DIR (-results): Result directory for the file backend
  - DATABASE_URL (-d): Connection string for the SQL backends
  - CLEANUP_GRACE_SECONDS (-grace): Post-submit retention (default: 60)

A .env file in the working directory is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, stats)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - pool: Item dataset and balanced sample selection
  - session: Live session registry and participant ledger
  - results: Durable submission stores (file and SQL)
  - ident: Session ids and name sanitizing
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
