package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// ErrKeyNotFound is returned by KVStore.Get when the key has never been set
var ErrKeyNotFound = goerr.New("key not found")

// KVStore is the persistence collaborator of the entity store. Values are opaque bytes.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
