package state

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cockroachdb/pebble"
)

// PebbleRepository stores blobs in an embedded Pebble database. Writes are
// synced before Set returns.
type PebbleRepository struct {
	db *pebble.DB
}

func NewPebbleRepository(db *pebble.DB) *PebbleRepository {
	return &PebbleRepository{db: db}
}

// OpenPebble opens (creating if needed) a database at path.
func OpenPebble(path string, opts *pebble.Options) (*pebble.DB, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	return db, nil
}

func (r *PebbleRepository) Get(_ context.Context, key string) ([]byte, error) {
	v, closer, err := r.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get %s: %w", key, err)
	}
	defer closer.Close()
	// v is only valid until closer is closed
	return slices.Clone(v), nil
}

func (r *PebbleRepository) Set(_ context.Context, key string, value []byte) error {
	if err := r.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set %s: %w", key, err)
	}
	return nil
}
