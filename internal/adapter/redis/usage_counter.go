package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pscheid92/remedyhub/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// usageKeyTTL keeps a day's counter around until well after the day ended.
const usageKeyTTL = 48 * time.Hour

// consumeScript increments the counter and rolls back when the limit is
// exceeded, so concurrent requests can never overshoot the quota.
// ARGV: [1]=limit (negative means unlimited), [2]=ttl seconds
var consumeScript = goredis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
	redis.call('EXPIRE', KEYS[1], ARGV[2])
end
local limit = tonumber(ARGV[1])
if limit >= 0 and n > limit then
	redis.call('DECR', KEYS[1])
	return 0
end
return 1
`)

// UsageCounter implements domain.UsageCounter with one Redis counter per
// user, kind and UTC day.
type UsageCounter struct {
	rdb goredis.Cmdable
}

var _ domain.UsageCounter = (*UsageCounter)(nil)

func NewUsageCounter(rdb goredis.Cmdable) *UsageCounter {
	return &UsageCounter{rdb: rdb}
}

func (u *UsageCounter) Consume(ctx context.Context, kind domain.UsageKind, userID uuid.UUID, day time.Time, limit int) (bool, error) {
	if limit == 0 {
		return false, nil
	}

	allowed, err := consumeScript.Run(ctx, u.rdb, []string{usageKey(kind, userID, day)},
		limit, int(usageKeyTTL.Seconds())).Int()
	if err != nil {
		return false, fmt.Errorf("usage consume failed: %w", err)
	}
	return allowed == 1, nil
}

func (u *UsageCounter) Used(ctx context.Context, kind domain.UsageKind, userID uuid.UUID, day time.Time) (int, error) {
	n, err := u.rdb.Get(ctx, usageKey(kind, userID, day)).Int()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("usage read failed: %w", err)
	}
	return n, nil
}

func usageKey(kind domain.UsageKind, userID uuid.UUID, day time.Time) string {
	return fmt.Sprintf("usage:%s:%s:%s", kind, userID, day.UTC().Format("20060102"))
}
