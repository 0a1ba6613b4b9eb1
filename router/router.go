// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/note-rater/handlers"
	"github.com/danielhkuo/note-rater/middleware"
	"github.com/danielhkuo/note-rater/pool"
	"github.com/danielhkuo/note-rater/session"
)

func NewRouter(registry *session.Registry, p *pool.Pool, itemsPerUser int) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(registry)
	statsHandler := handlers.NewStatsHandler(registry, p, itemsPerUser)

	// Health check
	mux.HandleFunc("GET /api/health", statsHandler.Health)

	// Session lifecycle
	mux.HandleFunc("POST /api/start-session", middleware.WithLogging(sessionHandler.StartSession))
	mux.HandleFunc("GET /api/session/{id}/data", middleware.WithLogging(sessionHandler.GetSessionData))
	mux.HandleFunc("POST /api/session/{id}/response", middleware.WithLogging(sessionHandler.RecordResponse))
	mux.HandleFunc("POST /api/session/{id}/submit", middleware.WithLogging(sessionHandler.SubmitSession))

	// Diagnostics
	mux.HandleFunc("GET /api/stats", middleware.WithLogging(statsHandler.GetStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("note-rater API v1"))
	})

	return mux
}
