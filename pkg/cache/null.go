package cache

import (
	"context"
	"time"
)

// NullCache is a no-op backend. Every Get is a miss and every write is
// discarded.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() *NullCache { return &NullCache{} }

// Get implements [Cache].
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set implements [Cache].
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete implements [Cache].
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close implements [Cache].
func (*NullCache) Close() error { return nil }
