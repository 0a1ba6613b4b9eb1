package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/danielhkuo/note-rater/models"
	"github.com/danielhkuo/note-rater/pool"
	"github.com/danielhkuo/note-rater/results"
)

func newTestPool(t *testing.T, n int) *pool.Pool {
	t.Helper()
	raw := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			raw += ","
		}
		raw += fmt.Sprintf(`{"index":%d,"community_notes":"cn %d","LLM_notes":"ln %d"}`, i, i, i)
	}
	p, err := pool.Parse([]byte(raw + "]"))
	if err != nil {
		t.Fatalf("Failed to build test pool: %v", err)
	}
	return p
}

func newTestRegistry(t *testing.T, poolSize, itemsPerUser int, grace time.Duration, usedNames map[string]struct{}) *Registry {
	t.Helper()
	store, err := results.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	reg := NewRegistry(newTestPool(t, poolSize), store, itemsPerUser, grace, usedNames)
	t.Cleanup(reg.Close)
	return reg
}

func submitReq() models.SubmitSessionRequest {
	return models.SubmitSessionRequest{
		UserResponses: map[string]json.RawMessage{
			"0": json.RawMessage(`{"comparison":"community_note"}`),
		},
	}
}

func TestCreateSession(t *testing.T) {
	reg := newTestRegistry(t, 10, 3, time.Minute, nil)

	info, err := reg.Create("Alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if info.SessionID == "" {
		t.Error("Expected non-empty session id")
	}
	if info.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", info.TotalItems)
	}

	data, err := reg.Data(info.SessionID)
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if data.ParticipantName != "Alice" {
		t.Errorf("ParticipantName = %q, want Alice", data.ParticipantName)
	}
	if len(data.Items) != 3 {
		t.Errorf("Assigned %d items, want 3", len(data.Items))
	}
	if len(data.NoteOrder) != 3 {
		t.Errorf("NoteOrder has %d entries, want 3", len(data.NoteOrder))
	}
	for _, it := range data.Items {
		if _, ok := data.NoteOrder[it.Index]; !ok {
			t.Errorf("Item %d missing a note-order coin", it.Index)
		}
	}
}

func TestCreateTrimsName(t *testing.T) {
	reg := newTestRegistry(t, 5, 2, time.Minute, nil)

	info, err := reg.Create("  Alice  ")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	data, _ := reg.Data(info.SessionID)
	if data.ParticipantName != "Alice" {
		t.Errorf("Name not trimmed: %q", data.ParticipantName)
	}

	// The trimmed form is what is held in use
	if _, err := reg.Create("Alice "); !errors.Is(err, ErrNameInUse) {
		t.Errorf("Expected ErrNameInUse for trimmed duplicate, got %v", err)
	}
}

func TestNameHeldByLiveSession(t *testing.T) {
	reg := newTestRegistry(t, 5, 2, time.Minute, nil)

	if _, err := reg.Create("Alice"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := reg.Create("Alice"); !errors.Is(err, ErrNameInUse) {
		t.Errorf("Expected ErrNameInUse, got %v", err)
	}
	// A different name is fine
	if _, err := reg.Create("Bob"); err != nil {
		t.Errorf("Unrelated name rejected: %v", err)
	}
}

func TestLedgerSeededFromStore(t *testing.T) {
	used := map[string]struct{}{"Bob": {}}
	reg := newTestRegistry(t, 5, 2, time.Minute, used)

	if _, err := reg.Create("Bob"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName for seeded name, got %v", err)
	}
}

func TestCompletedNameBlockedPermanently(t *testing.T) {
	reg := newTestRegistry(t, 5, 2, 20*time.Millisecond, nil)

	info, err := reg.Create("Alice")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := reg.Submit(info.SessionID, submitReq()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// Immediately after submit: blocked by the ledger, not the live session
	if _, err := reg.Create("Alice"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName right after submit, got %v", err)
	}

	// Still blocked after the session is evicted
	time.Sleep(200 * time.Millisecond)
	if reg.ActiveCount() != 0 {
		t.Fatalf("Session not evicted after grace delay")
	}
	if _, err := reg.Create("Alice"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("Expected ErrDuplicateName after eviction, got %v", err)
	}
}

func TestRecordResponse(t *testing.T) {
	reg := newTestRegistry(t, 5, 3, time.Minute, nil)
	info, _ := reg.Create("Alice")

	payload := json.RawMessage(`{"communityNote":{"helpfulness":"helpful"}}`)
	if err := reg.RecordResponse(info.SessionID, 1, payload); err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}

	reg.mu.Lock()
	s := reg.sessions[info.SessionID]
	if s.Progress != 2 {
		t.Errorf("Progress = %d, want 2", s.Progress)
	}
	if len(s.Responses) != 1 {
		t.Errorf("Stored %d responses, want 1", len(s.Responses))
	}
	rec := s.Responses[s.Items[1].Index]
	if rec.ItemIndex != 1 || rec.OriginalIndex != s.Items[1].Index {
		t.Errorf("Record indexes wrong: %+v", rec)
	}
	reg.mu.Unlock()

	// Recording an earlier item must not move the pointer backwards
	if err := reg.RecordResponse(info.SessionID, 0, payload); err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}
	reg.mu.Lock()
	if s.Progress != 2 {
		t.Errorf("Progress moved backwards: %d", s.Progress)
	}
	reg.mu.Unlock()
}

func TestRecordResponseUpsertLastWriteWins(t *testing.T) {
	reg := newTestRegistry(t, 5, 3, time.Minute, nil)
	info, _ := reg.Create("Alice")

	first := json.RawMessage(`{"comparison":"community_note"}`)
	second := json.RawMessage(`{"comparison":"llm_note"}`)
	if err := reg.RecordResponse(info.SessionID, 0, first); err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}
	if err := reg.RecordResponse(info.SessionID, 0, second); err != nil {
		t.Fatalf("RecordResponse failed: %v", err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	s := reg.sessions[info.SessionID]
	if len(s.Responses) != 1 {
		t.Fatalf("Expected 1 response record after resubmit, got %d", len(s.Responses))
	}
	rec := s.Responses[s.Items[0].Index]
	if string(rec.Responses) != string(second) {
		t.Errorf("Last write did not win: %s", rec.Responses)
	}
}

func TestRecordResponseOutOfRange(t *testing.T) {
	reg := newTestRegistry(t, 5, 3, time.Minute, nil)
	info, _ := reg.Create("Alice")

	payload := json.RawMessage(`{}`)
	for _, idx := range []int{-1, 3, 99} {
		if err := reg.RecordResponse(info.SessionID, idx, payload); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Index %d: expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}

	// Session state untouched
	reg.mu.Lock()
	defer reg.mu.Unlock()
	s := reg.sessions[info.SessionID]
	if s.Progress != 0 || len(s.Responses) != 0 {
		t.Errorf("Rejected response mutated session: progress=%d responses=%d", s.Progress, len(s.Responses))
	}
}

func TestUnknownSession(t *testing.T) {
	reg := newTestRegistry(t, 5, 3, time.Minute, nil)

	if _, err := reg.Data("nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Data: expected ErrSessionNotFound, got %v", err)
	}
	if err := reg.RecordResponse("nope", 0, json.RawMessage(`{}`)); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("RecordResponse: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := reg.Submit("nope", submitReq()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Submit: expected ErrSessionNotFound, got %v", err)
	}
}

func TestResubmitWithinGrace(t *testing.T) {
	reg := newTestRegistry(t, 5, 2, time.Minute, nil)
	info, _ := reg.Create("Alice")

	id1, err := reg.Submit(info.SessionID, submitReq())
	if err != nil {
		t.Fatalf("First submit failed: %v", err)
	}

	// The session must still be reachable inside the grace window
	if _, err := reg.Data(info.SessionID); err != nil {
		t.Fatalf("Session gone before grace delay: %v", err)
	}

	id2, err := reg.Submit(info.SessionID, submitReq())
	if err != nil {
		t.Fatalf("Second submit failed: %v", err)
	}
	if id1 != id2 {
		t.Errorf("Resubmit produced a different record id: %s vs %s", id1, id2)
	}
	if got := reg.UsedNames(); len(got) != 1 || got[0] != "Alice" {
		t.Errorf("Ledger corrupted by resubmit: %v", got)
	}
}

type failingStore struct{}

func (failingStore) Persist(models.Submission) (string, error) {
	return "", errors.New("disk on fire")
}
func (failingStore) LoadIdentities() (map[string]struct{}, error) {
	return nil, nil
}

func TestSubmitPersistenceFailureLeavesLedgerAlone(t *testing.T) {
	reg := NewRegistry(newTestPool(t, 5), failingStore{}, 2, time.Minute, nil)
	t.Cleanup(reg.Close)
	info, _ := reg.Create("Alice")

	if _, err := reg.Submit(info.SessionID, submitReq()); err == nil {
		t.Fatal("Expected persistence error")
	}
	if len(reg.UsedNames()) != 0 {
		t.Error("Failed submit added the name to the ledger")
	}
	// Session still live so the client can retry the whole submit
	if _, err := reg.Data(info.SessionID); err != nil {
		t.Errorf("Session gone after failed submit: %v", err)
	}
}

func TestGraceEviction(t *testing.T) {
	reg := newTestRegistry(t, 5, 2, 30*time.Millisecond, nil)
	info, _ := reg.Create("Alice")

	if _, err := reg.Submit(info.SessionID, submitReq()); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if _, err := reg.Data(info.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected session evicted after grace delay, got %v", err)
	}
}
