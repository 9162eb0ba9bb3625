package cache

import (
	"context"
	"time"
)

// noopCache is used when Redis is unavailable. Every read misses and
// every write succeeds silently, so callers degrade to uncached reads.
type noopCache struct{}

// NewNoop returns a Cache that stores nothing.
func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) Get(_ context.Context, _ string) (string, error) {
	return "", ErrCacheMiss
}

func (noopCache) Set(_ context.Context, _ string, _ string, _ time.Duration) error {
	return nil
}

func (noopCache) Delete(_ context.Context, _ ...string) error {
	return nil
}

func (noopCache) DeletePattern(_ context.Context, _ string) error {
	return nil
}
