// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/note-rater/middleware"
	"github.com/danielhkuo/note-rater/models"
	"github.com/danielhkuo/note-rater/session"
)

type SessionHandler struct {
	registry *session.Registry
}

func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// StartSession handles POST /api/start-session
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.ParticipantName)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Participant name cannot be empty")
		return
	}

	info, err := h.registry.Create(name)
	switch {
	case errors.Is(err, session.ErrDuplicateName):
		middleware.ErrorResponseCode(w, http.StatusConflict,
			"This name has already been used. Please use a different name.", models.CodeDuplicateName)
		return
	case errors.Is(err, session.ErrNameInUse):
		middleware.ErrorResponseCode(w, http.StatusConflict,
			"This name is currently in use. Please try again later or use a different name.", models.CodeNameInUse)
		return
	case err != nil:
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StartSessionResponse{
		SessionID:  info.SessionID,
		TotalItems: info.TotalItems,
		Message:    "Session created successfully",
	})
}

// GetSessionData handles GET /api/session/:id/data
func (h *SessionHandler) GetSessionData(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	data, err := h.registry.Data(sessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SessionDataResponse{
		Data:            data.Items,
		TotalItems:      len(data.Items),
		ParticipantName: data.ParticipantName,
		NoteOrder:       data.NoteOrder,
	})
}

// RecordResponse handles POST /api/session/:id/response
func (h *SessionHandler) RecordResponse(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req models.RecordResponseRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ItemIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "itemIndex is required")
		return
	}

	err := h.registry.RecordResponse(sessionID, *req.ItemIndex, req.Responses)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	case errors.Is(err, session.ErrIndexOutOfRange):
		middleware.ErrorResponse(w, http.StatusBadRequest, "itemIndex outside assigned sample")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AckResponse{
		Message: "Response saved successfully",
	})
}

// SubmitSession handles POST /api/session/:id/submit
func (h *SessionHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	var req models.SubmitSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	recordID, err := h.registry.Submit(sessionID, req)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	case err != nil:
		// Losing a completed submission is a data-loss event; surface it
		// and let the client retry the whole call.
		slog.Error("failed to persist submission", "session_id", sessionID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save submission")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SubmitSessionResponse{
		Message:  "Data submitted successfully",
		Filename: recordID,
	})
}
