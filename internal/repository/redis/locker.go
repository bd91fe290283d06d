package redis

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"vms/backend/foundation/web"
)

const lockPrefix = "vms:lock:"

var ErrLockTimeout = errors.New("timed out waiting for lock")

// releaseScript deletes the lock only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`

// Locker is a SET NX based mutex. A lock expires after TTL even if its
// holder never releases it.
type Locker struct {
	rdb   redis.Cmdable
	ttl   time.Duration
	wait  time.Duration
	retry time.Duration
	token func() string
}

func NewLocker(rdb redis.Cmdable) *Locker {
	return &Locker{
		rdb:   rdb,
		ttl:   10 * time.Second,
		wait:  5 * time.Second,
		retry: 50 * time.Millisecond,
		token: uuid.NewString,
	}
}

// Lock blocks until key is acquired, the wait time elapses or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	key = lockPrefix + key
	token := l.token()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "acquiring lock"), http.StatusServiceUnavailable)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, web.NewRequestError(ErrLockTimeout, http.StatusServiceUnavailable)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	return func() {
		if err := l.rdb.Eval(context.Background(), releaseScript, []string{key}, token).Err(); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("releasing lock")
		}
	}, nil
}
