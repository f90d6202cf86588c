package cache

import (
	"context"
	"time"
)

// BytesCache stores serialized responses with a TTL. The API handlers use it
// as the server-side half of the client reconciliation contract: entries are
// short-lived so polled reads stay bounded while the store refreshes.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
