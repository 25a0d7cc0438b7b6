package sanitize

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiddleware_RewritesQueryParameters(t *testing.T) {
	var gotName string
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotName = r.URL.Query().Get("name")
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodGet, "http://example/herds?name=%3Cscript%3E", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, "script", gotName)
}

func TestMiddleware_RewritesJSONBody(t *testing.T) {
	var body map[string]any
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "http://example/herds",
		strings.NewReader(`{"note":"<b>hi</b>","tags":["<x>"]}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, "bhi/b", body["note"])
	require.Equal(t, []any{"<x>"}, body["tags"])
}

func TestMiddleware_ContentLengthFollowsRewrite(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, int64(len(raw)), r.ContentLength)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "http://example/herds",
		strings.NewReader(`{"note":"<b>hi</b>"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_NonJSONBodyPassesThrough(t *testing.T) {
	var raw []byte
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "http://example/upload",
		strings.NewReader("plain text <not json>"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	require.Equal(t, "plain text <not json>", string(raw))
}
