package repomanager

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	require.NoError(t, s.Set(ctx, "k", []byte("v2")))

	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.Equal(t, BackendMemory, s.Backend)
	roundTrip(t, s)
}

func TestOpen_SQLiteMigratesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendSQLite, DSN: path})
	require.NoError(t, err)
	roundTrip(t, s)
	require.NoError(t, s.Close())

	// reopening runs migrations again and keeps data
	s, err = Open(ctx, Config{Backend: BackendSQLite, DSN: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), v)
}

func TestOpen_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := Open(context.Background(), Config{Backend: BackendRedis, RedisAddr: mr.Addr(), RedisPrefix: "test:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	roundTrip(t, s)
	assert.True(t, mr.Exists("test:k"))
}

func TestOpen_Pebble(t *testing.T) {
	s, err := Open(context.Background(), Config{Backend: BackendPebble, PebblePath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	roundTrip(t, s)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, Config{Backend: "etcd"})
	assert.ErrorContains(t, err, `unknown state backend "etcd"`)

	_, err = Open(ctx, Config{Backend: BackendPostgres})
	assert.ErrorContains(t, err, "requires a dsn")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	_, err = Open(ctx, Config{Backend: BackendRedis, RedisAddr: addr})
	assert.ErrorContains(t, err, "redis ping")
}
