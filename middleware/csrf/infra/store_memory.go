package infra

import (
	"context"
	"sync"
	"time"

	"middleware-guard/middleware/csrf/domain"
)

// MemoryStore guarda tokens em um mapa protegido por mutex.
//
// Processo único: para compartilhar tokens entre instâncias use a RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]domain.Token
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.Token)}
}

func (s *MemoryStore) Save(_ context.Context, t domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[t.Value] = t
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, value string) (domain.Token, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.entries[value]
	return t, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, value)
	return nil
}

func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *MemoryStore) Sweep(_ context.Context, olderThan time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for v, t := range s.entries {
		if t.CreatedAt.Before(olderThan) {
			delete(s.entries, v)
		}
	}
	return nil
}

// StartJanitor inicia uma goroutine que varre tokens expirados periodicamente,
// para a memória não depender do formato do tráfego. Pare cancelando o contexto.
func (s *MemoryStore) StartJanitor(ctx context.Context, every, ttl time.Duration) {
	if every <= 0 || ttl <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				_ = s.Sweep(ctx, time.Now().Add(-ttl))
			}
		}
	}()
}
