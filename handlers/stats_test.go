package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/note-rater/models"
	"github.com/danielhkuo/note-rater/testutil"
)

func TestGetStats(t *testing.T) {
	fx := testutil.NewFixture(t, 10, 3)
	sessions := NewSessionHandler(fx.Registry)
	stats := NewStatsHandler(fx.Registry, fx.Pool, 3)

	startSession(t, sessions, "Alice")
	startSession(t, sessions, "Bob")

	req := testutil.MakeRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	stats.GetStats(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.StatsResponse
	testutil.AssertJSON(t, w, &resp)

	if resp.ActiveSessions != 2 {
		t.Errorf("activeSessions = %d, want 2", resp.ActiveSessions)
	}
	if resp.TotalDataItems != 10 {
		t.Errorf("totalDataItems = %d, want 10", resp.TotalDataItems)
	}
	if resp.ItemsPerUser != 3 {
		t.Errorf("itemsPerUser = %d, want 3", resp.ItemsPerUser)
	}
	if resp.TotalAssignments != 6 {
		t.Errorf("totalAssignments = %d, want 6", resp.TotalAssignments)
	}
	if resp.AssignmentBalance > 1 {
		t.Errorf("assignmentBalance = %d, want <= 1", resp.AssignmentBalance)
	}
	if resp.TotalCompletedSessions != 0 {
		t.Errorf("totalCompletedSessions = %d, want 0", resp.TotalCompletedSessions)
	}
	if len(resp.AssignmentStats) != 10 {
		t.Errorf("assignmentStats has %d entries, want 10", len(resp.AssignmentStats))
	}
}

func TestGetStatsEmpty(t *testing.T) {
	fx := testutil.NewFixture(t, 5, 2)
	stats := NewStatsHandler(fx.Registry, fx.Pool, 2)

	req := testutil.MakeRequest("GET", "/api/stats", nil)
	w := httptest.NewRecorder()
	stats.GetStats(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.StatsResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalAssignments != 0 || resp.MinAssignmentsPerItem != 0 || resp.MaxAssignmentsPerItem != 0 {
		t.Errorf("Expected all-zero balance metrics, got %+v", resp)
	}
}

func TestHealth(t *testing.T) {
	fx := testutil.NewFixture(t, 5, 2)
	stats := NewStatsHandler(fx.Registry, fx.Pool, 2)

	req := testutil.MakeRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	stats.Health(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "OK" {
		t.Errorf("status = %q, want OK", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("Expected a timestamp")
	}
}
