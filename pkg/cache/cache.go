// Package cache stores computed daemon responses by key.
package cache

import (
	"context"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}

// Key derives a cache key from prefix and the canonical request bytes b.
func Key(prefix string, b []byte) string {
	return fmt.Sprintf("restpot:%s:%016x", prefix, xxhash.Sum64(b))
}
