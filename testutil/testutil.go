// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/note-rater/pool"
	"github.com/danielhkuo/note-rater/results"
	"github.com/danielhkuo/note-rater/session"
)

// TestGrace is the eviction delay used by test registries — long enough to
// observe the post-submit window, short enough to see eviction happen.
const TestGrace = 40 * time.Millisecond

// ItemsJSON returns a small item dataset in the on-disk format.
func ItemsJSON(n int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"index":%d,"community_notes":"community note %d","LLM_notes":"llm note %d"}`, i, i, i)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// NewTestPool builds a pool of n items.
func NewTestPool(t *testing.T, n int) *pool.Pool {
	t.Helper()
	p, err := pool.Parse(ItemsJSON(n))
	if err != nil {
		t.Fatalf("Failed to build test pool: %v", err)
	}
	return p
}

// Fixture bundles the pieces handler tests need: the registry, the pool it
// draws from, and the results directory holding persisted records.
type Fixture struct {
	Registry *session.Registry
	Pool     *pool.Pool
	Dir      string
}

// NewFixture builds a registry over a fresh pool and a file store in a temp
// directory.
func NewFixture(t *testing.T, poolSize, itemsPerUser int) Fixture {
	t.Helper()

	dir := t.TempDir()
	store, err := results.NewFileStore(dir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	p := NewTestPool(t, poolSize)
	reg := session.NewRegistry(p, store, itemsPerUser, TestGrace, nil)
	t.Cleanup(reg.Close)
	return Fixture{Registry: reg, Pool: p, Dir: dir}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
