package audit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"middleware-guard/identity"
)

func TestMiddleware_RecordsMutatingRequests(t *testing.T) {
	sink := NewMemorySink()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	h := identity.Middleware(identity.Options{})(
		Middleware(Options{Sink: sink, Now: func() time.Time { return at }})(next))

	r := httptest.NewRequest(http.MethodPost, "http://example/herds", nil)
	r.Header.Set("X-User-Id", "u-1")
	r.Header.Set("X-User-Role", "admin")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	require.NotEqual(t, uuid.Nil, e.ID)
	require.Equal(t, at, e.At)
	require.Equal(t, "u-1", e.Identity.UserID)
	require.Equal(t, "admin", e.Identity.Role)
	require.Equal(t, http.MethodPost, e.Method)
	require.Equal(t, "/herds", e.Path)
	require.Equal(t, http.StatusCreated, e.Status)
}

func TestMiddleware_SafeMethodsAreNotRecorded(t *testing.T) {
	sink := NewMemorySink()
	h := Middleware(Options{Sink: sink})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "http://example/herds", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Empty(t, sink.Entries())
}

func TestMiddleware_ImplicitOKStatus(t *testing.T) {
	sink := NewMemorySink()
	h := Middleware(Options{Sink: sink})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Write sem WriteHeader implica 200
		_, _ = w.Write([]byte("ok"))
	}))

	r := httptest.NewRequest(http.MethodPut, "http://example/herds/1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, http.StatusOK, entries[0].Status)
}

func TestMiddleware_DenialStatusIsObserved(t *testing.T) {
	sink := NewMemorySink()
	h := Middleware(Options{Sink: sink})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))

	r := httptest.NewRequest(http.MethodDelete, "http://example/herds/1", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	entries := sink.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, http.StatusForbidden, entries[0].Status)
}

func TestMiddleware_NilSinkPassesThrough(t *testing.T) {
	called := false
	h := Middleware(Options{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest(http.MethodPost, "http://example/herds", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)
	require.True(t, called)
}
