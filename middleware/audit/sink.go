package audit

import (
	"context"
	"log/slog"
	"sync"
)

// SlogSink emite cada entrada como um registro estruturado.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink cria um sink sobre o logger informado. Com nil, usa o
// logger padrão do processo.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Record(ctx context.Context, e Entry) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "audit",
		slog.String("id", e.ID.String()),
		slog.Time("at", e.At),
		slog.String("user", e.Identity.UserID),
		slog.String("role", e.Identity.Role),
		slog.String("origin", e.Identity.Origin),
		slog.String("method", e.Method),
		slog.String("path", e.Path),
		slog.Int("status", e.Status),
	)
	return nil
}

// MemorySink acumula as entradas em memória. Voltado para testes e
// para o endpoint de inspeção do exemplo.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Record(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

// Entries devolve uma cópia das entradas gravadas até o momento.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
