package domain

import (
	"context"
	"time"
)

// ChangeEvent registra uma mutação feita por uma identidade.
type ChangeEvent struct {
	At     time.Time
	Method string
	Path   string
	// Fields são os nomes dos campos do payload (não os valores).
	Fields []string
}

const (
	// Retention é a janela de retenção do histórico por identidade.
	Retention = 24 * time.Hour
	// BurstWindow é a janela da heurística de rajada de exclusões.
	BurstWindow = 1 * time.Minute
	// DeleteBurstLimit é o máximo de DELETEs tolerado dentro da janela.
	DeleteBurstLimit = 10
)

// HistoryStore mantém o histórico de mutações por chave.
//
// Append registra o evento, descarta o que saiu da retenção e retorna o
// histórico resultante (o próprio evento incluído): o evento que dispara a
// rejeição também fica retido. Implementações devem ser seguras para uso
// concorrente.
type HistoryStore interface {
	Append(ctx context.Context, key string, ev ChangeEvent, retention time.Duration) ([]ChangeEvent, error)
}
