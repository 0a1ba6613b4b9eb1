// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/note-rater/middleware"
	"github.com/danielhkuo/note-rater/models"
	"github.com/danielhkuo/note-rater/pool"
	"github.com/danielhkuo/note-rater/session"
)

type StatsHandler struct {
	registry     *session.Registry
	pool         *pool.Pool
	itemsPerUser int
	started      time.Time
}

func NewStatsHandler(registry *session.Registry, p *pool.Pool, itemsPerUser int) *StatsHandler {
	return &StatsHandler{
		registry:     registry,
		pool:         p,
		itemsPerUser: itemsPerUser,
		started:      time.Now(),
	}
}

// GetStats handles GET /api/stats — assignment-balance diagnostics
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	st := h.pool.Stats()
	used := h.registry.UsedNames()

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		ActiveSessions:            h.registry.ActiveCount(),
		TotalDataItems:            st.TotalItems,
		ItemsPerUser:              h.itemsPerUser,
		TotalAssignments:          st.TotalAssignments,
		AverageAssignmentsPerItem: st.Average,
		MinAssignmentsPerItem:     st.Min,
		MaxAssignmentsPerItem:     st.Max,
		AssignmentBalance:         st.Max - st.Min,
		UsedParticipantNames:      used,
		TotalCompletedSessions:    len(used),
		Uptime:                    time.Since(h.started).Seconds(),
		AssignmentStats:           st.PerItem,
	})
}

// Health handles GET /api/health
func (h *StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
	})
}
