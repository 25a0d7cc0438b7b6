package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"middleware-guard/methods"
	"middleware-guard/middleware/csrf/domain"
)

const (
	// DefaultTTL é a idade máxima de um token.
	DefaultTTL = 1 * time.Hour
	// DefaultSweepAbove dispara a varredura oportunista no Issue quando a
	// store passa deste tamanho.
	DefaultSweepAbove = 10000
	// TokenBytes é a entropia do valor gerado, antes da codificação.
	TokenBytes = 32
)

// Service concentra a regra de emissão e validação de tokens.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna um Verdict.
type Service struct {
	Store      domain.Store
	TTL        time.Duration
	SweepAbove int

	// Now permite injetar o relógio nos testes.
	Now func() time.Time
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

func (s Service) sweepAbove() int {
	if s.SweepAbove > 0 {
		return s.SweepAbove
	}
	return DefaultSweepAbove
}

// Issue gera um token aleatório para o dono e o registra na store.
//
// A varredura de expirados é oportunista: só acontece quando a store cresce
// além de SweepAbove. Para limpeza determinística use o janitor da store
// (ou uma store com TTL nativo por entrada).
func (s Service) Issue(ctx context.Context, ownerID string) (domain.Token, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return domain.Token{}, err
	}

	t := domain.Token{
		Value:     base64.RawURLEncoding.EncodeToString(buf),
		OwnerID:   ownerID,
		CreatedAt: s.now(),
	}
	if err := s.Store.Save(ctx, t); err != nil {
		return domain.Token{}, err
	}

	if n, err := s.Store.Len(ctx); err == nil && n > s.sweepAbove() {
		_ = s.Store.Sweep(ctx, s.now().Add(-s.ttl()))
	}
	return t, nil
}

// Validate aplica as regras de validação para a requisição.
//
// Métodos seguros passam sempre, sem consultar a store. Para métodos
// mutantes: sem token => Missing; desconhecido => Invalid; mais velho que o
// TTL => Expired (e a entrada é removida); dono diferente => Mismatch.
// Um token válido não é alterado pela checagem (multi-uso, idempotente).
func (s Service) Validate(ctx context.Context, value, ownerID, method string) (domain.Verdict, error) {
	if methods.Safe(method) {
		return domain.OK, nil
	}

	if value == "" {
		return domain.Missing, nil
	}

	t, ok, err := s.Store.Lookup(ctx, value)
	if err != nil {
		return domain.Invalid, err
	}
	if !ok {
		return domain.Invalid, nil
	}

	if s.now().Sub(t.CreatedAt) > s.ttl() {
		_ = s.Store.Delete(ctx, value)
		return domain.Expired, nil
	}

	if t.OwnerID != ownerID {
		return domain.Mismatch, nil
	}
	return domain.OK, nil
}
