package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"middleware-guard/identity"
	anomalyapp "middleware-guard/middleware/anomaly/application"
	anomalyinfra "middleware-guard/middleware/anomaly/infra"
	"middleware-guard/middleware/audit"
	"middleware-guard/middleware/csrf"
	csrfapp "middleware-guard/middleware/csrf/application"
	csrfinfra "middleware-guard/middleware/csrf/infra"
	"middleware-guard/middleware/validate"
)

type fixture struct {
	tokens  csrfapp.Service
	sink    *audit.MemorySink
	handler http.Handler
	calls   *int
}

func newFixture(t *testing.T, schema *validate.CompiledSchema) *fixture {
	t.Helper()

	f := &fixture{
		tokens: csrfapp.Service{Store: csrfinfra.NewMemoryStore()},
		sink:   audit.NewMemorySink(),
	}
	p := Pipeline{
		Tokens:  f.tokens,
		Anomaly: anomalyapp.Service{Store: anomalyinfra.NewMemoryHistoryStore(), DeleteBurstLimit: 2},
		Audit:   f.sink,
	}

	calls := 0
	f.calls = &calls
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})
	f.handler = identity.Middleware(identity.Options{})(p.Handler(schema, next))
	return f
}

func (f *fixture) token(t *testing.T, owner string) string {
	t.Helper()
	tok, err := f.tokens.Issue(context.Background(), owner)
	require.NoError(t, err)
	return tok.Value
}

func (f *fixture) do(method, target, body string, hdr map[string]string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range hdr {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, r)
	return w
}

func code(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	c, _ := body["code"].(string)
	return c
}

func TestProtect_HappyPath(t *testing.T) {
	schema := validate.MustCompile(validate.Schema{
		"name": {Required: true, Type: validate.TypeString},
	})
	f := newFixture(t, schema)

	w := f.do(http.MethodPost, "http://example/herds", `{"name":"lote-9"}`, map[string]string{
		"X-User-Id":     "u-1",
		csrf.HeaderName: f.token(t, "u-1"),
		"Content-Type":  "application/json",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, *f.calls)

	entries := f.sink.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, http.StatusCreated, entries[0].Status)
}

func TestProtect_MissingTokenShortCircuits(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(http.MethodPost, "http://example/herds", `{"name":"x"}`, map[string]string{
		"X-User-Id": "u-1",
	})

	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, csrf.CodeMissing, code(t, w))
	require.Equal(t, 0, *f.calls)
	// a negação acontece antes do estágio de auditoria
	require.Empty(t, f.sink.Entries())
}

func TestProtect_ValidationDenialIsAudited(t *testing.T) {
	schema := validate.MustCompile(validate.Schema{
		"name": {Required: true},
	})
	f := newFixture(t, schema)

	w := f.do(http.MethodPost, "http://example/herds", `{}`, map[string]string{
		"X-User-Id":     "u-1",
		csrf.HeaderName: f.token(t, "u-1"),
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, validate.Code, code(t, w))
	require.Equal(t, 0, *f.calls)

	entries := f.sink.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, http.StatusBadRequest, entries[0].Status)
}

func TestProtect_DeleteBurstIsDenied(t *testing.T) {
	f := newFixture(t, nil)

	hdr := func() map[string]string {
		return map[string]string{
			"X-User-Id":     "u-1",
			csrf.HeaderName: f.token(t, "u-1"),
		}
	}

	for i := 0; i < 2; i++ {
		w := f.do(http.MethodDelete, "http://example/herds/1", "", hdr())
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := f.do(http.MethodDelete, "http://example/herds/2", "", hdr())
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "ANOMALY_DETECTED", code(t, w))
	require.Equal(t, 2, *f.calls)
}

func TestProtect_SanitizedBodyReachesHandler(t *testing.T) {
	f := &fixture{
		tokens: csrfapp.Service{Store: csrfinfra.NewMemoryStore()},
		sink:   audit.NewMemorySink(),
	}
	p := Pipeline{Tokens: f.tokens, Audit: f.sink}

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		got, _ = m["note"].(string)
		w.WriteHeader(http.StatusCreated)
	})
	f.handler = identity.Middleware(identity.Options{})(p.Handler(nil, next))

	w := f.do(http.MethodPost, "http://example/herds", `{"note":"<b>hi</b>"}`, map[string]string{
		"X-User-Id":     "u-1",
		csrf.HeaderName: f.token(t, "u-1"),
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "bhi/b", got)
}

func TestProtect_ReadOnlyRequestsSkipAllStages(t *testing.T) {
	schema := validate.MustCompile(validate.Schema{
		"name": {Required: true},
	})
	f := newFixture(t, schema)

	// sem token, sem corpo: GET passa por tudo
	w := f.do(http.MethodGet, "http://example/herds", "", map[string]string{
		"X-User-Id": "u-1",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, *f.calls)
	require.Empty(t, f.sink.Entries())
}
