package locker

import (
	"context"
	"fmt"
	"time"

	schedulererrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/errors"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

const lockPrefix = "cardpush:tick:"

// RedisLocker takes a redsync mutex per tick minute. The mutex is left to
// expire so a late instance in the same minute still finds it taken.
type RedisLocker struct {
	rs  *redsync.Redsync
	ttl time.Duration
}

func NewRedisLocker(client *goredislib.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		rs:  redsync.New(goredis.NewPool(client)),
		ttl: ttl,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, name string) error {
	mutex := l.rs.NewMutex(
		lockPrefix+name,
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(1),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", schedulererrors.ErrLockHeld, name, err)
	}
	return nil
}
