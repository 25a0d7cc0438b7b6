package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"middleware-guard/middleware/anomaly/domain"
	"middleware-guard/middleware/anomaly/infra"
)

func deleteEvent(at time.Time) domain.ChangeEvent {
	return domain.ChangeEvent{At: at, Method: "DELETE", Path: "/herds/1"}
}

func TestObserve_NoStoreAllows(t *testing.T) {
	svc := Service{}
	ok, err := svc.Observe(context.Background(), "u-1", deleteEvent(time.Now()))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestObserve_TenDeletesPassEleventhFails(t *testing.T) {
	store := infra.NewMemoryHistoryStore()
	svc := Service{Store: store}
	base := time.Now()

	for i := 0; i < 10; i++ {
		ok, err := svc.Observe(context.Background(), "u-1", deleteEvent(base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
		require.True(t, ok, "delete %d should pass", i+1)
	}

	ok, err := svc.Observe(context.Background(), "u-1", deleteEvent(base.Add(11*time.Second)))
	require.NoError(t, err)
	require.False(t, ok, "11th delete within the window should be flagged")
}

func TestObserve_TriggeringEventIsRetained(t *testing.T) {
	store := infra.NewMemoryHistoryStore()
	svc := Service{Store: store, DeleteBurstLimit: 1}
	base := time.Now()

	ok, _ := svc.Observe(context.Background(), "u-1", deleteEvent(base))
	require.True(t, ok)

	// segundo delete estoura o limite...
	ok, _ = svc.Observe(context.Background(), "u-1", deleteEvent(base.Add(time.Second)))
	require.False(t, ok)

	// ...e mesmo assim ficou no histórico: o terceiro vê 3 deletes
	hist, err := store.Append(context.Background(), "u-1", deleteEvent(base.Add(2*time.Second)), domain.Retention)
	require.NoError(t, err)
	require.Len(t, hist, 3)
}

func TestObserve_OldDeletesLeaveTheBurstWindow(t *testing.T) {
	store := infra.NewMemoryHistoryStore()
	svc := Service{Store: store, DeleteBurstLimit: 2}
	base := time.Now()

	for i := 0; i < 2; i++ {
		ok, _ := svc.Observe(context.Background(), "u-1", deleteEvent(base.Add(time.Duration(i)*time.Second)))
		require.True(t, ok)
	}

	// 61s depois os anteriores saíram da janela de rajada (mas não da retenção)
	ok, _ := svc.Observe(context.Background(), "u-1", deleteEvent(base.Add(61*time.Second)))
	require.True(t, ok)
}

func TestObserve_MixedMethodsOnlyDeletesCount(t *testing.T) {
	store := infra.NewMemoryHistoryStore()
	svc := Service{Store: store, DeleteBurstLimit: 2}
	base := time.Now()

	for i := 0; i < 10; i++ {
		ok, _ := svc.Observe(context.Background(), "u-1", domain.ChangeEvent{
			At: base.Add(time.Duration(i) * time.Second), Method: "POST", Path: "/herds",
			Fields: []string{"name", "qty"},
		})
		require.True(t, ok)
	}

	ok, _ := svc.Observe(context.Background(), "u-1", deleteEvent(base.Add(11*time.Second)))
	require.True(t, ok, "posts must not count towards the delete burst")
}

func TestObserve_KeysAreIndependent(t *testing.T) {
	store := infra.NewMemoryHistoryStore()
	svc := Service{Store: store, DeleteBurstLimit: 1}
	base := time.Now()

	ok, _ := svc.Observe(context.Background(), "u-1", deleteEvent(base))
	require.True(t, ok)
	ok, _ = svc.Observe(context.Background(), "u-2", deleteEvent(base))
	require.True(t, ok, "another identity has its own history")
}

func TestObserve_HistoryPrunedToRetention(t *testing.T) {
	store := infra.NewMemoryHistoryStore()
	svc := Service{Store: store}
	base := time.Now()

	_, _ = svc.Observe(context.Background(), "u-1", deleteEvent(base.Add(-25*time.Hour)))

	hist, err := store.Append(context.Background(), "u-1", deleteEvent(base), domain.Retention)
	require.NoError(t, err)
	require.Len(t, hist, 1, "events older than 24h must be pruned")
}
