package application

import (
	"context"
	"time"

	"middleware-guard/methods"
	"middleware-guard/middleware/anomaly/domain"
)

// Service concentra a regra de observação do histórico de mutações.
//
// Ele não sabe nada sobre HTTP (headers/status), apenas responde se a
// mutação atual configura uma rajada suspeita.
type Service struct {
	Store domain.HistoryStore

	// Retention, BurstWindow e DeleteBurstLimit sobrescrevem os padrões
	// (24h, 60s, 10).
	Retention        time.Duration
	BurstWindow      time.Duration
	DeleteBurstLimit int
}

func (s Service) retention() time.Duration {
	if s.Retention > 0 {
		return s.Retention
	}
	return domain.Retention
}

func (s Service) burstWindow() time.Duration {
	if s.BurstWindow > 0 {
		return s.BurstWindow
	}
	return domain.BurstWindow
}

func (s Service) limit() int {
	if s.DeleteBurstLimit > 0 {
		return s.DeleteBurstLimit
	}
	return domain.DeleteBurstLimit
}

// Observe registra o evento e avalia a rajada de exclusões.
//
// O evento entra no histórico ANTES da checagem: ele conta para a própria
// rajada e fica retido mesmo quando a requisição acaba rejeitada.
// Comportamento contratual, não ajustar sem decisão de produto (ver DESIGN.md).
func (s Service) Observe(ctx context.Context, key string, ev domain.ChangeEvent) (allowed bool, err error) {
	if s.Store == nil {
		return true, nil
	}

	hist, err := s.Store.Append(ctx, key, ev, s.retention())
	if err != nil {
		// falha de infra não derruba a requisição (best-effort)
		return true, err
	}

	cut := ev.At.Add(-s.burstWindow())
	deletes := 0
	for _, e := range hist {
		if e.At.After(cut) && methods.Delete(e.Method) {
			deletes++
		}
	}
	return deletes <= s.limit(), nil
}
