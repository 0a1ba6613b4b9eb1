// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/note-rater/ident"
	"github.com/danielhkuo/note-rater/models"
	"github.com/danielhkuo/note-rater/pool"
	"github.com/danielhkuo/note-rater/results"
)

var (
	ErrDuplicateName   = errors.New("participant name already used by a completed session")
	ErrNameInUse       = errors.New("participant name held by a live session")
	ErrSessionNotFound = errors.New("session not found")
	ErrIndexOutOfRange = errors.New("item index outside assigned sample")
)

// Session is the per-participant state held in memory between session start
// and final submit.
type Session struct {
	ID              string
	ParticipantName string
	Items           []models.Item
	NoteOrder       map[int]bool // item index -> note A shown first
	Responses       map[int]models.ResponseRecord
	Progress        int
	StartTime       time.Time
	Submitted       bool
}

// Registry owns the live session map and the participant-name ledger. The
// ledger is seeded from the result store at startup and grows whenever a
// session completes; a name on it is blocked permanently — there is no
// un-block path, which is deliberate: one person, one submission.
type Registry struct {
	pool         *pool.Pool
	store        results.Store
	itemsPerUser int
	grace        time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	ledger   map[string]struct{}
	timers   map[string]*time.Timer
	closed   bool
}

func NewRegistry(p *pool.Pool, store results.Store, itemsPerUser int, grace time.Duration, usedNames map[string]struct{}) *Registry {
	ledger := make(map[string]struct{}, len(usedNames))
	for name := range usedNames {
		ledger[name] = struct{}{}
	}
	return &Registry{
		pool:         p,
		store:        store,
		itemsPerUser: itemsPerUser,
		grace:        grace,
		sessions:     make(map[string]*Session),
		ledger:       ledger,
		timers:       make(map[string]*time.Timer),
	}
}

// StartInfo is what a successful Create hands back to the client.
type StartInfo struct {
	SessionID  string
	TotalItems int
}

// Create starts a session for the given participant name. The name must not
// appear on the ledger (DUPLICATE_NAME) or belong to a live session
// (NAME_IN_USE). The balanced sample is drawn and each item gets a fair
// note-order coin, so the client never has to invent its own blinding.
func (r *Registry) Create(participantName string) (StartInfo, error) {
	name := strings.TrimSpace(participantName)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, used := r.ledger[name]; used {
		return StartInfo{}, ErrDuplicateName
	}
	for _, s := range r.sessions {
		if s.ParticipantName == name {
			return StartInfo{}, ErrNameInUse
		}
	}

	id, err := ident.NewSessionID()
	if err != nil {
		return StartInfo{}, err
	}

	items := r.pool.SelectSample(r.itemsPerUser)
	order := make(map[int]bool, len(items))
	for _, it := range items {
		order[it.Index] = rand.IntN(2) == 0
	}

	r.sessions[id] = &Session{
		ID:              id,
		ParticipantName: name,
		Items:           items,
		NoteOrder:       order,
		Responses:       make(map[int]models.ResponseRecord),
		StartTime:       time.Now(),
	}

	slog.Info("session created", "session_id", id, "participant", name, "items", len(items))

	return StartInfo{SessionID: id, TotalItems: len(items)}, nil
}

// Data is the assigned payload for one session.
type Data struct {
	Items           []models.Item
	NoteOrder       map[int]bool
	ParticipantName string
}

func (r *Registry) Data(sessionID string) (Data, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return Data{}, ErrSessionNotFound
	}
	return Data{Items: s.Items, NoteOrder: s.NoteOrder, ParticipantName: s.ParticipantName}, nil
}

// RecordResponse upserts the response record for the item at the given
// position in the session's sample and advances the progress pointer. This
// is advisory incremental persistence; the session completes only on
// Submit. An out-of-range position is rejected without touching the
// session.
func (r *Registry) RecordResponse(sessionID string, itemIndex int, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if itemIndex < 0 || itemIndex >= len(s.Items) {
		return ErrIndexOutOfRange
	}

	item := s.Items[itemIndex]
	s.Responses[item.Index] = models.ResponseRecord{
		ItemIndex:     itemIndex,
		OriginalIndex: item.Index,
		Timestamp:     time.Now(),
		Responses:     payload,
	}
	if itemIndex+1 > s.Progress {
		s.Progress = itemIndex + 1
	}
	return nil
}

// Submit builds the final immutable record, writes it through the result
// store, adds the name to the ledger, and schedules eviction after the
// grace delay. The session stays live for that window so a client retry
// still finds it; retrying re-persists (last submit wins) and resets the
// eviction clock. The store write happens outside the registry lock — it is
// synchronous I/O and must not stall unrelated requests.
func (r *Registry) Submit(sessionID string, req models.SubmitSessionRequest) (string, error) {
	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return "", ErrSessionNotFound
	}
	sub := buildSubmission(s, req)
	r.mu.Unlock()

	recordID, err := r.store.Persist(sub)
	if err != nil {
		// Surfaced, not retried here: an automatic retry could double-count.
		// The client repeats the whole submit call, which is safe.
		return "", fmt.Errorf("failed to persist submission: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ledger[s.ParticipantName] = struct{}{}
	s.Submitted = true

	if t, ok := r.timers[sessionID]; ok {
		t.Stop()
	}
	if !r.closed {
		r.timers[sessionID] = time.AfterFunc(r.grace, func() { r.evict(sessionID) })
	}

	slog.Info("session submitted", "session_id", sessionID, "participant", s.ParticipantName, "record", recordID)

	return recordID, nil
}

func buildSubmission(s *Session, req models.SubmitSessionRequest) models.Submission {
	completion := req.CompletionTime
	if completion == "" {
		completion = time.Now().UTC().Format(time.RFC3339)
	}

	total := req.TotalItems
	if total == 0 {
		total = len(s.Items)
	}

	summary := req.SessionSummary
	if len(summary) == 0 {
		fallback := struct {
			EvaluatedPosts int       `json:"evaluatedPosts"`
			StartTime      time.Time `json:"startTime"`
		}{len(req.UserResponses), s.StartTime}
		summary, _ = json.Marshal(fallback)
	}

	userResponses := req.UserResponses
	if userResponses == nil {
		userResponses = map[string]json.RawMessage{}
	}

	return models.Submission{
		ParticipantName:    s.ParticipantName,
		SessionID:          s.ID,
		StartTime:          s.StartTime,
		CompletionTime:     completion,
		TotalItemsAssigned: total,
		SessionSummary:     summary,
		UserResponses:      userResponses,
	}
}

func (r *Registry) evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	delete(r.timers, sessionID)
	slog.Info("session evicted", "session_id", sessionID)
}

// ActiveCount returns the number of live sessions.
func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// UsedNames returns the ledger contents, sorted for stable output.
func (r *Registry) UsedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.ledger))
	for name := range r.ledger {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close stops pending eviction timers. In-memory sessions do not survive a
// restart and durable records live in the result store, so dropping live
// state here loses nothing that matters.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	for id, t := range r.timers {
		t.Stop()
		delete(r.timers, id)
	}
}
