package testing

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is a request observed by [FakeBackend].
type Request struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   []byte
	Auth   string
}

// FakeBackend is an httptest server that answers per-path with canned JSON and records every request.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []Request
}

// NewFakeBackend starts a [FakeBackend] that is closed when t finishes.
//
// Unregistered paths answer 404 with {"error":"not found"}.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{handlers: make(map[string]http.HandlerFunc)}
	fb.Server = httptest.NewServer(http.HandlerFunc(fb.serve))
	t.Cleanup(fb.Close)
	return fb
}

func (fb *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	fb.mu.Lock()
	fb.requests = append(fb.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
		Auth:   r.Header.Get("Authorization"),
	})
	h, ok := fb.handlers[r.URL.Path]
	fb.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	h(w, r)
}

// Handle registers h for path, replacing any previous handler.
func (fb *FakeBackend) Handle(path string, h http.HandlerFunc) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[path] = h
}

// JSON registers a handler for path answering status with v encoded as JSON.
func (fb *FakeBackend) JSON(path string, status int, v any) {
	fb.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, status, v)
	})
}

// Requests returns a copy of the observed requests.
func (fb *FakeBackend) Requests() []Request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	out := make([]Request, len(fb.requests))
	copy(out, fb.requests)
	return out
}

// Count returns how many requests hit path.
func (fb *FakeBackend) Count(path string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	n := 0
	for _, r := range fb.requests {
		if r.Path == path {
			n++
		}
	}
	return n
}

// WriteJSON writes v with status and a JSON content type.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
