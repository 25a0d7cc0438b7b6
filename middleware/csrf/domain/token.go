package domain

import (
	"context"
	"time"
)

// Token é um valor anti-forgery emitido pelo servidor, vinculado a um dono.
//
// O token é multi-uso: vale até expirar ou ser removido. Emitir um novo token
// para o mesmo dono NÃO invalida os anteriores.
type Token struct {
	Value     string
	OwnerID   string
	CreatedAt time.Time
}

// Verdict é o resultado da validação de um token.
type Verdict int

const (
	OK Verdict = iota
	// Missing: requisição mutante sem token apresentado.
	Missing
	// Invalid: token desconhecido pela store.
	Invalid
	// Expired: token mais velho que o TTL (a entrada é removida na checagem).
	Expired
	// Mismatch: o dono registrado não é a identidade da requisição.
	Mismatch
)

func (v Verdict) String() string {
	switch v {
	case OK:
		return "ok"
	case Missing:
		return "missing"
	case Invalid:
		return "invalid"
	case Expired:
		return "expired"
	case Mismatch:
		return "mismatch"
	}
	return "unknown"
}

// Store guarda tokens emitidos, indexados pelo valor.
//
// Implementações devem ser seguras para uso concorrente: duas requisições
// paralelas para a mesma chave não podem corromper o estado.
type Store interface {
	Save(ctx context.Context, t Token) error

	// Lookup retorna o token pelo valor; ok=false quando desconhecido.
	Lookup(ctx context.Context, value string) (t Token, ok bool, err error)

	Delete(ctx context.Context, value string) error

	// Len retorna o número de entradas vivas. Stores com expiração nativa
	// por entrada podem retornar 0 (a varredura oportunista vira no-op).
	Len(ctx context.Context) (int, error)

	// Sweep remove todas as entradas criadas antes do corte.
	Sweep(ctx context.Context, olderThan time.Time) error
}
