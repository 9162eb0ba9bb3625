package cache

import (
	"context"
	"time"
)

// Cache abstracts the key/value cache used for read-mostly list views
// (book lists, most-cited, feed pages). Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error
}

// ErrCacheMiss is returned by Get when the key does not exist.
// Defined here so callers do not depend on a concrete backend.
type cacheMissError struct{}

func (cacheMissError) Error() string { return "cache: key not found" }

var ErrCacheMiss error = cacheMissError{}
