package infra

import (
	"context"
	"testing"
	"time"

	"middleware-guard/middleware/ratelimit/domain"
)

func TestMemoryWindowStore_AdmitsUpToThreshold(t *testing.T) {
	s := NewMemoryWindowStore()
	ctx := context.Background()
	base := time.Now()

	// exatamente 100 dentro do minuto: todas admitidas
	for i := 0; i < 100; i++ {
		now := base.Add(time.Duration(i) * 100 * time.Millisecond)
		_, _, recorded, err := s.Hit(ctx, "k", now, 100, 1000)
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if !recorded {
			t.Fatalf("expected request %d to be admitted", i+1)
		}
	}

	// a 101ª dentro da mesma janela é negada e NÃO registrada
	minute, _, recorded, err := s.Hit(ctx, "k", base.Add(30*time.Second), 100, 1000)
	if err != nil {
		t.Fatalf("hit 101: %v", err)
	}
	if recorded {
		t.Fatalf("expected request 101 to be rejected")
	}
	if minute != 101 {
		t.Fatalf("expected minute count 101 (100 recorded plus current attempt), got %d", minute)
	}
}

func TestMemoryWindowStore_RejectedHitIsNotRecorded(t *testing.T) {
	s := NewMemoryWindowStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 3; i++ {
		if _, _, recorded, _ := s.Hit(ctx, "k", base, 2, 1000); i < 2 != recorded {
			t.Fatalf("unexpected recorded=%v at hit %d", recorded, i)
		}
	}

	// a negada não entrou: a tentativa seguinte vê 2 registradas + ela mesma
	minute, _, _, _ := s.Hit(ctx, "k", base.Add(time.Second), 2, 1000)
	if minute != 3 {
		t.Fatalf("expected minute count 3 after one rejection, got %d", minute)
	}
}

func TestMemoryWindowStore_OldHitsFallOutOfWindows(t *testing.T) {
	s := NewMemoryWindowStore()
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 5; i++ {
		s.Hit(ctx, "k", base, 100, 1000)
	}

	// 61s depois, só a tentativa atual conta para o minuto; a hora vê tudo
	minute, hour, recorded, _ := s.Hit(ctx, "k", base.Add(61*time.Second), 100, 1000)
	if minute != 1 {
		t.Fatalf("expected minute count 1, got %d", minute)
	}
	if hour != 6 {
		t.Fatalf("expected hour count 6, got %d", hour)
	}
	if !recorded {
		t.Fatalf("expected hit to be admitted")
	}

	// mais de uma hora depois, a sequência foi podada por completo
	minute, hour, _, _ = s.Hit(ctx, "k", base.Add(2*time.Hour), 100, 1000)
	if minute != 1 || hour != 1 {
		t.Fatalf("expected only the current attempt in both windows, got minute=%d hour=%d", minute, hour)
	}
}

func TestMemoryWindowStore_KeysAreIndependent(t *testing.T) {
	s := NewMemoryWindowStore()
	ctx := context.Background()
	now := time.Now()

	s.Hit(ctx, "a", now, 1, 1000)
	_, _, recorded, _ := s.Hit(ctx, "b", now, 1, 1000)
	if !recorded {
		t.Fatalf("expected key b to have its own window")
	}
}

func TestMemoryWindowStore_CleanupRemovesIdleKeys(t *testing.T) {
	s := NewMemoryWindowStore(WithWindowIdleTTL(2*time.Millisecond), WithWindowCleanupEvery(0))
	ctx := context.Background()

	s.Hit(ctx, "k", time.Now(), 100, 1000)
	time.Sleep(4 * time.Millisecond)
	s.Cleanup()

	s.mu.Lock()
	_, ok := s.entries["k"]
	s.mu.Unlock()
	if ok {
		t.Fatalf("expected idle key to be removed")
	}
}

var _ domain.WindowStore = (*MemoryWindowStore)(nil)
