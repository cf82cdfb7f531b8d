package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	g := NewMemoryGuard(time.Minute)
	current := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return current }
	ctx := context.Background()

	ok, err := g.Claim(ctx, "sub:1:slot:1:202507010800")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Claim(ctx, "sub:1:slot:1:202507010800")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Claim(ctx, "sub:2:slot:1:202507010800")
	require.NoError(t, err)
	assert.True(t, ok)

	current = current.Add(time.Minute)
	ok, err = g.Claim(ctx, "sub:1:slot:1:202507010800")
	require.NoError(t, err)
	assert.True(t, ok, "expired claims are forgotten")
	assert.Len(t, g.claims, 1)
}

func TestMemoryGuard_SweepsOncePerInterval(t *testing.T) {
	g := NewMemoryGuard(10 * time.Second)
	current := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	g.now = func() time.Time { return current }
	ctx := context.Background()

	_, err := g.Claim(ctx, "a")
	require.NoError(t, err)

	current = current.Add(20 * time.Second)
	for _, key := range []string{"b", "c", "d"} {
		ok, err := g.Claim(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Len(t, g.claims, 4, "no sweep inside the interval")

	ok, err := g.Claim(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok, "an expired key is claimable before it is swept")

	current = current.Add(sweepInterval)
	_, err = g.Claim(ctx, "e")
	require.NoError(t, err)
	assert.Len(t, g.claims, 1)
	assert.Contains(t, g.claims, "e")
}

func TestNoopGuard(t *testing.T) {
	for i := 0; i < 2; i++ {
		ok, err := NoopGuard{}.Claim(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestRedisGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	g := NewRedisGuard(client, 2*time.Minute)
	ctx := context.Background()

	ok, err := g.Claim(ctx, "tpl:5:user:1001:proj:PROJ001:202507010800")
	require.NoError(t, err)
	assert.True(t, ok)

	other := NewRedisGuard(client, 2*time.Minute)
	ok, err = other.Claim(ctx, "tpl:5:user:1001:proj:PROJ001:202507010800")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists(keyPrefix+"tpl:5:user:1001:proj:PROJ001:202507010800"))

	mr.FastForward(3 * time.Minute)
	ok, err = g.Claim(ctx, "tpl:5:user:1001:proj:PROJ001:202507010800")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisGuard_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	_, err := NewRedisGuard(client, time.Minute).Claim(context.Background(), "k")
	assert.Error(t, err)
}
