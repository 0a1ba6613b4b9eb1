package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/note-rater/cliparse"
	"github.com/danielhkuo/note-rater/middleware"
	"github.com/danielhkuo/note-rater/pool"
	"github.com/danielhkuo/note-rater/results"
	"github.com/danielhkuo/note-rater/router"
	"github.com/danielhkuo/note-rater/session"
)

func main() {
	// Local development convenience; a missing .env is fine
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Load the item dataset
	p, err := pool.Load(cfg.DataPath)
	if err != nil {
		slog.Error("failed to load item dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}
	slog.Info("Dataset loaded", "path", cfg.DataPath, "items", p.Size())

	// Open the result store
	store, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open result store", "backend", cfg.ResultsBackend, "error", err)
		os.Exit(1)
	}

	// Seed the name ledger from past submissions
	usedNames, err := store.LoadIdentities()
	if err != nil {
		slog.Error("failed to load participant ledger", "error", err)
		os.Exit(1)
	}
	slog.Info("Participant ledger loaded", "names", len(usedNames))

	registry := session.NewRegistry(p, store, cfg.ItemsPerSession, cfg.CleanupGrace, usedNames)

	// Create router
	mux := router.NewRouter(registry, p, cfg.ItemsPerSession)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		registry.Close()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "items_per_session", cfg.ItemsPerSession)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore builds the configured result store. The file backend is the
// default; the SQL backends share one store implementation and differ only
// in driver.
func openStore(cfg cliparse.Config) (results.Store, error) {
	switch cfg.ResultsBackend {
	case "sqlite", "postgres":
		// Backend names match the registered driver names
		db, err := sql.Open(cfg.ResultsBackend, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		return results.NewSQLStore(db)
	default:
		return results.NewFileStore(cfg.ResultsDir)
	}
}
