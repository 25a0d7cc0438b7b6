// Package httperr padroniza o corpo JSON das respostas de erro do pipeline:
//
//	{ "error": mensagem, "code": código, ...campos extras }
//
// Os códigos em si pertencem a cada middleware (CSRF_*, RATE_LIMIT_*, etc);
// aqui só está o formato.
package httperr

import (
	"encoding/json"
	"net/http"
)

// Extra é um campo adicional no corpo do erro (ex: retryAfter, details).
type Extra struct {
	Key   string
	Value any
}

// Field constrói um Extra.
func Field(key string, value any) Extra { return Extra{Key: key, Value: value} }

// Write emite a resposta de erro JSON com o status, código e mensagem dados.
func Write(w http.ResponseWriter, status int, code, message string, extras ...Extra) {
	body := map[string]any{
		"error": message,
		"code":  code,
	}
	for _, e := range extras {
		body[e.Key] = e.Value
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
