package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/matchbox/internal/server/repositories/state"
	"github.com/redis/go-redis/v9"
)

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendPebble   = "pebble"
)

// Config selects and addresses a state backend.
type Config struct {
	Backend string

	// DSN is the connection string for postgres and the file path for sqlite.
	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	PebblePath string
}

// Store is an opened state backend.
type Store struct {
	state.Repository
	Backend string
	close   func() error
}

func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// goose keeps its dialect and base FS in package globals.
var migrateMu sync.Mutex

// Open connects to the configured backend and, for SQL backends, migrates it.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendMemory:
		return &Store{Repository: state.NewMemoryRepository(), Backend: BackendMemory}, nil

	case BackendSQLite:
		return openSQL(ctx, "sqlite", cfg.DSN, BackendSQLite, NewSQLiteRepositoryManager())

	case BackendPostgres:
		return openSQL(ctx, "pgx", cfg.DSN, BackendPostgres, NewPostgresRepositoryManager())

	case BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return &Store{
			Repository: state.NewRedisRepository(client, cfg.RedisPrefix),
			Backend:    BackendRedis,
			close:      client.Close,
		}, nil

	case BackendPebble:
		db, err := state.OpenPebble(cfg.PebblePath, nil)
		if err != nil {
			return nil, err
		}
		return &Store{Repository: state.NewPebbleRepository(db), Backend: BackendPebble, close: db.Close}, nil
	}

	return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
}

func openSQL(ctx context.Context, driver, dsn, backend string, m RepositoryManager) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s backend requires a dsn", backend)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", backend, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", backend, err)
	}

	migrateMu.Lock()
	err = m.RunMigrations(ctx, db)
	migrateMu.Unlock()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", backend, err)
	}

	return &Store{Repository: m.State(db), Backend: backend, close: db.Close}, nil
}
