package infra

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"middleware-guard/middleware/csrf/domain"
)

// RedisStore guarda tokens como hashes com TTL nativo do Redis.
//
// A expiração por entrada dispensa varredura: Len retorna 0 e Sweep é no-op,
// então a varredura oportunista do Issue nunca dispara. Serve para múltiplas
// instâncias do gateway compartilharem os tokens emitidos.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

type RedisStoreOption func(*RedisStore)

func WithTokenPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

func WithTokenTTL(d time.Duration) RedisStoreOption {
	return func(s *RedisStore) { s.ttl = d }
}

func NewRedisStore(rdb *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		rdb:    rdb,
		prefix: "guard:csrf",
		ttl:    1 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(value string) string { return s.prefix + ":" + value }

func (s *RedisStore) Save(ctx context.Context, t domain.Token) error {
	k := s.key(t.Value)

	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, k,
		"owner", t.OwnerID,
		"created", strconv.FormatInt(t.CreatedAt.UnixNano(), 10),
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Lookup(ctx context.Context, value string) (domain.Token, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(value)).Result()
	if err != nil {
		return domain.Token{}, false, err
	}
	if len(fields) == 0 {
		return domain.Token{}, false, nil
	}

	created, err := strconv.ParseInt(fields["created"], 10, 64)
	if err != nil {
		return domain.Token{}, false, err
	}
	return domain.Token{
		Value:     value,
		OwnerID:   fields["owner"],
		CreatedAt: time.Unix(0, created),
	}, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, value string) error {
	return s.rdb.Del(ctx, s.key(value)).Err()
}

// Len retorna 0: com TTL nativo por entrada não há o que varrer.
func (s *RedisStore) Len(context.Context) (int, error) { return 0, nil }

// Sweep é no-op: o Redis expira as entradas sozinho.
func (s *RedisStore) Sweep(context.Context, time.Time) error { return nil }
