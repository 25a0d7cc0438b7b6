package application

import (
	"context"
	"time"

	"middleware-guard/middleware/ratelimit/domain"
)

// Service concentra a regra de aplicação do rate limit de janela deslizante.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas retorna uma decisão.
type Service struct {
	Store domain.WindowStore

	// PerMinute e PerHour sobrescrevem os limites padrão (100/min, 1000/h).
	PerMinute int
	PerHour   int

	// Now permite injetar o relógio nos testes.
	Now func() time.Time
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Service) perMinute() int {
	if s.PerMinute > 0 {
		return s.PerMinute
	}
	return domain.PerMinuteLimit
}

func (s Service) perHour() int {
	if s.PerHour > 0 {
		return s.PerHour
	}
	return domain.PerHourLimit
}

// Decide avalia as janelas deslizantes da chave.
//
// As contagens são calculadas antes do registro, com comparação estrita (>):
// a requisição que faz a contagem CHEGAR no limite ainda passa; só a que
// faria a contagem passar do limite é negada. Comportamento contratual,
// não ajustar sem decisão de produto (ver DESIGN.md).
func (s Service) Decide(ctx context.Context, key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}

	minute, hour, recorded, err := s.Store.Hit(ctx, key, s.now(), s.perMinute(), s.perHour())
	if err != nil {
		// falha de infra não derruba a requisição (best-effort)
		return domain.Decision{Allowed: true}
	}
	if recorded {
		return domain.Decision{Allowed: true}
	}

	// a janela de minuto tem precedência quando as duas estouram
	if minute > s.perMinute() {
		return domain.Decision{Allowed: false, Code: domain.CodeMinute, RetryAfter: domain.MinuteWindow}
	}
	if hour > s.perHour() {
		return domain.Decision{Allowed: false, Code: domain.CodeHour, RetryAfter: domain.HourWindow}
	}
	// store negou sem janela estourada: não deveria acontecer, falha aberto
	return domain.Decision{Allowed: true}
}
