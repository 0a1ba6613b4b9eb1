package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            int
	DataPath        string
	ItemsPerSession int
	ResultsBackend  string
	ResultsDir      string
	DatabaseURL     string
	CleanupGrace    time.Duration
}

// ParseFlags validates flags and fills in environment fallbacks
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var graceSeconds int

	fs := flag.NewFlagSet("note-rater", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DataPath, "data", "", "Path to the item dataset JSON file")
	fs.IntVar(&cfg.ItemsPerSession, "n", 0, "Items assigned per session")
	fs.StringVar(&cfg.ResultsBackend, "backend", "", "Result store backend (file, sqlite or postgres)")
	fs.StringVar(&cfg.ResultsDir, "results", "", "Directory for result files (file backend)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (sqlite or postgres backend)")
	fs.IntVar(&graceSeconds, "grace", 0, "Seconds a session stays live after submit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}

	if cfg.DataPath == "" {
		cfg.DataPath = os.Getenv("ITEMS_FILE")
	}
	if cfg.DataPath == "" {
		return Config{}, errors.New("item dataset required (use -data or ITEMS_FILE env)")
	}

	if cfg.ItemsPerSession == 0 {
		if nStr := os.Getenv("ITEMS_PER_SESSION"); nStr != "" {
			n, err := strconv.Atoi(nStr)
			if err != nil {
				return Config{}, errors.New("invalid ITEMS_PER_SESSION env variable")
			}
			cfg.ItemsPerSession = n
		} else {
			cfg.ItemsPerSession = 20
		}
	}
	if cfg.ItemsPerSession < 1 {
		return Config{}, errors.New("items per session must be at least 1")
	}

	if cfg.ResultsBackend == "" {
		cfg.ResultsBackend = os.Getenv("RESULTS_BACKEND")
		if cfg.ResultsBackend == "" {
			cfg.ResultsBackend = "file"
		}
	}

	switch cfg.ResultsBackend {
	case "file":
		if cfg.ResultsDir == "" {
			cfg.ResultsDir = os.Getenv("RESULTS_DIR")
			if cfg.ResultsDir == "" {
				cfg.ResultsDir = "./results"
			}
		}
	case "sqlite", "postgres":
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		}
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database URL required for %s backend (use -d or DATABASE_URL env)", cfg.ResultsBackend)
		}
	default:
		return Config{}, fmt.Errorf("unknown results backend %q (want file, sqlite or postgres)", cfg.ResultsBackend)
	}

	if graceSeconds == 0 {
		if gStr := os.Getenv("CLEANUP_GRACE_SECONDS"); gStr != "" {
			g, err := strconv.Atoi(gStr)
			if err != nil {
				return Config{}, errors.New("invalid CLEANUP_GRACE_SECONDS env variable")
			}
			graceSeconds = g
		} else {
			graceSeconds = 60
		}
	}
	if graceSeconds < 0 {
		return Config{}, errors.New("cleanup grace cannot be negative")
	}
	cfg.CleanupGrace = time.Duration(graceSeconds) * time.Second

	return cfg, nil
}
