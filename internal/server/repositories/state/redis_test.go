package state

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_SetGet(t *testing.T) {
	mr, client := newRedis(t)
	r := NewRedisRepository(client, "mb:")
	ctx := context.Background()

	v, err := r.Get(ctx, "ledger")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, r.Set(ctx, "ledger", []byte(`{"version":1}`)))

	got, err := mr.Get("mb:ledger")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, got)
	assert.Zero(t, mr.TTL("mb:ledger"))

	v, err = r.Get(ctx, "ledger")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1}`), v)
}

func TestRedis_ServerError(t *testing.T) {
	mr, client := newRedis(t)
	r := NewRedisRepository(client, "")

	require.NoError(t, r.Set(context.Background(), "k", []byte("v")))

	mr.SetError("ERR server unavailable")
	_, err := r.Get(context.Background(), "k")
	assert.ErrorContains(t, err, "redis get k")

	err = r.Set(context.Background(), "k", []byte("v"))
	assert.ErrorContains(t, err, "redis set k")
}
