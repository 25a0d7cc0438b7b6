// Package payload decodifica o corpo JSON da requisição uma única vez e
// compartilha o resultado via context entre os estágios (sanitização,
// validação, extração de campos para anomalia). O Body é sempre restaurado
// para os handlers seguintes.
package payload

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
)

type ctxKey struct{}

// FromContext retorna o payload já decodificado por um estágio anterior.
// O mapa pode ser nil (corpo vazio ou não-objeto) com ok=true.
func FromContext(ctx context.Context) (map[string]any, bool) {
	m, ok := ctx.Value(ctxKey{}).(map[string]any)
	return m, ok
}

// Decode lê o corpo como objeto JSON e o guarda no context da requisição
// retornada. Chamadas seguintes na mesma requisição reusam o resultado.
//
// Corpo vazio ou que não é objeto JSON vira mapa nil, sem erro. JSON
// malformado é erro (a camada de validação responde 400).
func Decode(r *http.Request) (map[string]any, *http.Request, error) {
	if m, ok := FromContext(r.Context()); ok {
		return m, r, nil
	}

	if r.Body == nil || r.Body == http.NoBody {
		return nil, stash(r, nil), nil
	}

	data, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	// restaura o Body antes de qualquer parse, para o handler de domínio
	// sempre receber o corpo mesmo quando o parse falha.
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return nil, r, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, stash(r, nil), nil
	}

	var m map[string]any
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return nil, r, err
	}
	return m, stash(r, m), nil
}

// Rebody serializa o payload (possivelmente alterado) de volta no Body,
// mantendo o mapa do context e o Body coerentes entre si.
func Rebody(r *http.Request, m map[string]any) *http.Request {
	data, err := json.Marshal(m)
	if err != nil {
		return r
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
	r.ContentLength = int64(len(data))
	return r
}

func stash(r *http.Request, m map[string]any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, m))
}
