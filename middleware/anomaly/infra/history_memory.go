package infra

import (
	"context"
	"sync"
	"time"

	"middleware-guard/middleware/anomaly/domain"
)

// MemoryHistoryStore guarda o histórico de mutações por chave em memória.
type MemoryHistoryStore struct {
	mu           sync.Mutex
	entries      map[string]*historyEntry
	cleanupEvery time.Duration
}

type historyEntry struct {
	events   []domain.ChangeEvent
	lastSeen time.Time
}

type HistoryOption func(*MemoryHistoryStore)

func WithHistoryCleanupEvery(d time.Duration) HistoryOption {
	return func(s *MemoryHistoryStore) { s.cleanupEvery = d }
}

func NewMemoryHistoryStore(opts ...HistoryOption) *MemoryHistoryStore {
	s := &MemoryHistoryStore{
		entries:      make(map[string]*historyEntry),
		cleanupEvery: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append implementa domain.HistoryStore.
func (s *MemoryHistoryStore) Append(_ context.Context, key string, ev domain.ChangeEvent, retention time.Duration) ([]domain.ChangeEvent, error) {
	cut := ev.At.Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		ent = &historyEntry{}
		s.entries[key] = ent
	}
	ent.lastSeen = ev.At

	// poda o que saiu da retenção e anexa o evento atual
	kept := ent.events[:0]
	for _, e := range ent.events {
		if e.At.After(cut) {
			kept = append(kept, e)
		}
	}
	ent.events = append(kept, ev)

	out := make([]domain.ChangeEvent, len(ent.events))
	copy(out, ent.events)
	return out, nil
}

// Cleanup remove chaves sem mutações dentro da retenção.
func (s *MemoryHistoryStore) Cleanup(retention time.Duration) {
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
}

// StartJanitor inicia uma goroutine que limpa chaves inativas periodicamente.
// Pare cancelando o contexto.
func (s *MemoryHistoryStore) StartJanitor(ctx context.Context, retention time.Duration) {
	if s.cleanupEvery <= 0 {
		return
	}

	t := time.NewTicker(s.cleanupEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup(retention)
			}
		}
	}()
}
