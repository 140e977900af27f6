// Package state holds the key-value repositories the ledger snapshot is
// persisted to. Every backend stores opaque blobs; Get on a missing key
// returns (nil, nil).
package state

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
