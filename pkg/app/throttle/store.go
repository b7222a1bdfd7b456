package throttle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "github.com/NeuralTrust/ThrottleGate/pkg/domain/throttle"
	"github.com/NeuralTrust/ThrottleGate/pkg/infra/cache"
)

const DefaultKeyPrefix = "app_cache:"

type WindowStore interface {
	Load(ctx context.Context, key string) (domain.Window, error)
	Save(ctx context.Context, key string, window domain.Window, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type cacheWindowStore struct {
	cache  cache.Client
	prefix string
}

// NewCacheWindowStore keeps windows as JSON arrays in c, under prefix+key.
func NewCacheWindowStore(c cache.Client, prefix string) WindowStore {
	return &cacheWindowStore{cache: c, prefix: prefix}
}

func (s *cacheWindowStore) Load(ctx context.Context, key string) (domain.Window, error) {
	raw, err := s.cache.Get(ctx, s.prefix+key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return domain.Window{}, nil
	}
	if err != nil {
		return nil, err
	}
	var window domain.Window
	if err := json.Unmarshal([]byte(raw), &window); err != nil {
		return nil, fmt.Errorf("failed to decode window %s: %w", key, err)
	}
	return window, nil
}

func (s *cacheWindowStore) Save(ctx context.Context, key string, window domain.Window, ttl time.Duration) error {
	raw, err := json.Marshal(window)
	if err != nil {
		return fmt.Errorf("failed to encode window %s: %w", key, err)
	}
	return s.cache.Set(ctx, s.prefix+key, string(raw), ttl)
}

func (s *cacheWindowStore) Delete(ctx context.Context, keys ...string) error {
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = s.prefix + key
	}
	return s.cache.Delete(ctx, prefixed...)
}
