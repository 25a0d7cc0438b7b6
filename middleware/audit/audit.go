package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"middleware-guard/identity"
)

// Entry é o registro de uma requisição mutante, com o status final
// observado na resposta.
type Entry struct {
	ID       uuid.UUID         `json:"id"`
	At       time.Time         `json:"at"`
	Identity identity.Identity `json:"identity"`
	Method   string            `json:"method"`
	Path     string            `json:"path"`
	Status   int               `json:"status"`
}

// Sink recebe entradas de auditoria. A gravação é melhor esforço: o
// adaptador HTTP ignora erros do sink e nunca bloqueia a resposta.
type Sink interface {
	Record(ctx context.Context, e Entry) error
}
