// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3000)
  - DataPath: Path to the item dataset JSON file (required)
  - ItemsPerSession: Items assigned per participant (default: 20)
  - ResultsBackend: "file", "sqlite" or "postgres" (default: file)
  - ResultsDir: Directory for result files, file backend only (default: ./results)
  - DatabaseURL: Connection string, SQL backends only
  - CleanupGrace: How long a session stays live after submit (default: 60s)

# CLI Flags

	-p        Server port
	-data     Item dataset path
	-n        Items per session
	-backend  Result store backend
	-results  Results directory
	-d        Database URL
	-grace    Post-submit grace in seconds

# Environment Variables

Flags fall back to environment variables:

	PORT                   → -p
	ITEMS_FILE             → -data
	ITEMS_PER_SESSION      → -n
	RESULTS_BACKEND        → -backend
	RESULTS_DIR            → -results
	DATABASE_URL           → -d
	CLEANUP_GRACE_SECONDS  → -grace

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - ITEMS_FILE must be provided
  - DATABASE_URL must be provided when the backend is sqlite or postgres
  - ITEMS_PER_SESSION must be at least 1
*/
package cliparse
