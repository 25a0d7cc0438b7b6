package infra

import (
	"context"
	"sync"
	"time"

	"middleware-guard/middleware/ratelimit/domain"
)

// MemoryWindowStore é a implementação em memória da janela deslizante:
// uma fatia ordenada de instantes por chave, protegida por mutex, com
// limpeza periódica de chaves inativas.
type MemoryWindowStore struct {
	mu           sync.Mutex
	entries      map[domain.Key]*windowEntry
	idleTTL      time.Duration
	cleanupEvery time.Duration
}

type windowEntry struct {
	hits     []time.Time
	lastSeen time.Time
}

type WindowOption func(*MemoryWindowStore)

func WithWindowIdleTTL(d time.Duration) WindowOption {
	return func(s *MemoryWindowStore) { s.idleTTL = d }
}

func WithWindowCleanupEvery(d time.Duration) WindowOption {
	return func(s *MemoryWindowStore) { s.cleanupEvery = d }
}

func NewMemoryWindowStore(opts ...WindowOption) *MemoryWindowStore {
	s := &MemoryWindowStore{
		entries:      make(map[domain.Key]*windowEntry),
		idleTTL:      domain.HourWindow,
		cleanupEvery: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implementa domain.WindowStore.
func (s *MemoryWindowStore) Hit(_ context.Context, key domain.Key, now time.Time, perMinute, perHour int) (int, int, bool, error) {
	hourCut := now.Add(-domain.HourWindow)
	minuteCut := now.Add(-domain.MinuteWindow)

	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[key]
	if !ok {
		ent = &windowEntry{}
		s.entries[key] = ent
	}
	ent.lastSeen = now

	// a fatia é ordenada: basta achar o início de cada janela.
	// As contagens incluem a tentativa atual.
	hourIdx := firstAfter(ent.hits, hourCut)
	minuteIdx := firstAfter(ent.hits, minuteCut)
	hour := len(ent.hits) - hourIdx + 1
	minute := len(ent.hits) - minuteIdx + 1

	if minute > perMinute || hour > perHour {
		return minute, hour, false, nil
	}

	// substitui pela cauda dentro da janela de uma hora mais o instante novo
	pruned := make([]time.Time, 0, hour)
	pruned = append(pruned, ent.hits[hourIdx:]...)
	ent.hits = append(pruned, now)
	return minute, hour, true, nil
}

// firstAfter retorna o índice do primeiro instante estritamente depois do corte.
func firstAfter(hits []time.Time, cut time.Time) int {
	lo, hi := 0, len(hits)
	for lo < hi {
		mid := (lo + hi) / 2
		if hits[mid].After(cut) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// Cleanup remove chaves sem atividade dentro do idleTTL.
func (s *MemoryWindowStore) Cleanup() {
	cutoff := time.Now().Add(-s.idleTTL)

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
func (s *MemoryWindowStore) StartJanitor(ctx context.Context) {
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
				s.Cleanup()
			}
		}
	}()
}
