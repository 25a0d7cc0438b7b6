package infra

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"middleware-guard/middleware/ratelimit/domain"
)

// RedisWindowStore implementa a janela deslizante sobre sorted sets do Redis
// (score = instante em nanos), permitindo que várias instâncias do gateway
// compartilhem as contagens por identidade.
//
// A poda e as contagens vão em um pipeline; o registro condicional é uma
// segunda ida ao Redis. Entre as duas, outra instância pode registrar; é uma
// folga aceitável para rate limit (mesma postura best-effort das stats).
type RedisWindowStore struct {
	rdb    *redis.Client
	prefix string
}

type RedisWindowOption func(*RedisWindowStore)

func WithWindowPrefix(prefix string) RedisWindowOption {
	return func(s *RedisWindowStore) { s.prefix = prefix }
}

func NewRedisWindowStore(rdb *redis.Client, opts ...RedisWindowOption) *RedisWindowStore {
	s := &RedisWindowStore{
		rdb:    rdb,
		prefix: "guard:ratelimit:window",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hit implementa domain.WindowStore.
func (s *RedisWindowStore) Hit(ctx context.Context, key domain.Key, now time.Time, perMinute, perHour int) (int, int, bool, error) {
	k := s.prefix + ":" + string(key)
	hourCut := now.Add(-domain.HourWindow).UnixNano()
	minuteCut := now.Add(-domain.MinuteWindow).UnixNano()

	pipe := s.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(hourCut, 10))
	hourCmd := pipe.ZCard(ctx, k)
	minuteCmd := pipe.ZCount(ctx, k, "("+strconv.FormatInt(minuteCut, 10), "+inf")
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, false, err
	}

	// contagens incluem a tentativa atual
	minute := int(minuteCmd.Val()) + 1
	hour := int(hourCmd.Val()) + 1
	if minute > perMinute || hour > perHour {
		return minute, hour, false, nil
	}

	// membro único por tentativa: instantes iguais não podem colidir
	member := strconv.FormatInt(now.UnixNano(), 10) + ":" + uuid.NewString()

	pipe = s.rdb.Pipeline()
	pipe.ZAdd(ctx, k, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, k, domain.HourWindow+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return minute, hour, false, err
	}
	return minute, hour, true, nil
}
