package locker

import (
	"context"
	"testing"
	"time"

	schedulererrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/errors"
	"github.com/alicebob/miniredis/v2"
	goredislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_OncePerName(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredislib.NewClient(&goredislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	first := NewRedisLocker(client, 55*time.Second)
	second := NewRedisLocker(client, 55*time.Second)
	ctx := context.Background()

	require.NoError(t, first.Acquire(ctx, "202507010800"))

	err := second.Acquire(ctx, "202507010800")
	assert.ErrorIs(t, err, schedulererrors.ErrLockHeld)

	require.NoError(t, second.Acquire(ctx, "202507010801"))

	mr.FastForward(time.Minute)
	require.NoError(t, second.Acquire(ctx, "202507010800"))
}
