package payload

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode_ObjectBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/herds", strings.NewReader(`{"name":"lote-7","qty":12}`))

	m, r2, err := Decode(r)
	require.NoError(t, err)
	require.Equal(t, "lote-7", m["name"])
	require.Equal(t, float64(12), m["qty"])

	// o body continua legível para o handler de domínio
	data, err := io.ReadAll(r2.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"lote-7","qty":12}`, string(data))
}

func TestDecode_CachesInContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/", strings.NewReader(`{"a":1}`))

	m1, r2, err := Decode(r)
	require.NoError(t, err)

	// segunda chamada devolve o MESMO mapa, sem reler o body
	m2, _, err := Decode(r2)
	require.NoError(t, err)
	m1["a"] = float64(99)
	require.Equal(t, float64(99), m2["a"])
}

func TestDecode_EmptyBodyYieldsNilMap(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/", nil)

	m, r2, err := Decode(r)
	require.NoError(t, err)
	require.Nil(t, m)

	cached, ok := FromContext(r2.Context())
	require.True(t, ok)
	require.Nil(t, cached)
}

func TestDecode_NonObjectBodyYieldsNilMap(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/", strings.NewReader(`[1,2,3]`))

	m, _, err := Decode(r)
	require.NoError(t, err)
	require.Nil(t, m)
}

func TestDecode_MalformedJSONIsError(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/", strings.NewReader(`{"a":`))

	_, r2, err := Decode(r)
	require.Error(t, err)

	// mesmo com erro, o body segue disponível
	data, readErr := io.ReadAll(r2.Body)
	require.NoError(t, readErr)
	require.Equal(t, `{"a":`, string(data))
}

func TestRebody_ReplacesBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "http://example/", strings.NewReader(`{"a":"<x>"}`))

	m, r2, err := Decode(r)
	require.NoError(t, err)
	m["a"] = "x"

	r3 := Rebody(r2, m)
	data, err := io.ReadAll(r3.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":"x"}`, string(data))
}
