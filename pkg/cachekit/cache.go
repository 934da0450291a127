package cachekit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnsupportedCache is returned when a Cache implements neither Pool nor KV.
var ErrUnsupportedCache = errors.New("cachekit: cache implements neither Pool nor KV")

// Item is a cache entry fetched from a Pool.
type Item interface {
	Key() string
	// Get returns the value, or nil on a miss.
	Get() any
	// IsHit reports whether the item holds an unexpired value.
	IsHit() bool
	// Set stores a value in the item and marks it as a hit.
	Set(value any) Item
	// ExpiresAfter sets the item lifetime. Zero or negative means no expiry.
	ExpiresAfter(ttl time.Duration) Item
}

// Cache is the common part of both contracts.
type Cache interface {
	Clear(ctx context.Context) error
}

// Pool is a pool of expirable items.
type Pool interface {
	Cache
	GetItem(ctx context.Context, key string) (Item, error)
	GetItems(ctx context.Context, keys []string) (map[string]Item, error)
	Save(ctx context.Context, item Item) error
	DeleteItem(ctx context.Context, key string) error
}

// KV is a direct key/value cache with TTLs. A zero ttl means no expiry.
type KV interface {
	Cache
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	GetMultiple(ctx context.Context, keys []string) (map[string]any, error)
	SetMultiple(ctx context.Context, values map[string]any, ttl time.Duration) error
	DeleteMultiple(ctx context.Context, keys []string) error
}

// GetItem returns the cached value for key, or nil when absent.
func GetItem(ctx context.Context, c Cache, key string) (any, error) {
	switch c := c.(type) {
	case KV:
		v, _, err := c.Get(ctx, key)
		return v, err
	case Pool:
		item, err := c.GetItem(ctx, key)
		if err != nil {
			return nil, err
		}
		if !item.IsHit() {
			return nil, nil
		}
		return item.Get(), nil
	default:
		return nil, unsupported(c)
	}
}

// SetItem stores value under key. A zero ttl means no expiry.
func SetItem(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	switch c := c.(type) {
	case KV:
		return c.Set(ctx, key, value, ttl)
	case Pool:
		return saveItem(ctx, c, key, value, ttl)
	default:
		return unsupported(c)
	}
}

// DeleteItem removes key.
func DeleteItem(ctx context.Context, c Cache, key string) error {
	switch c := c.(type) {
	case KV:
		return c.Delete(ctx, key)
	case Pool:
		return c.DeleteItem(ctx, key)
	default:
		return unsupported(c)
	}
}

// HasItem reports whether key holds an unexpired value.
func HasItem(ctx context.Context, c Cache, key string) (bool, error) {
	switch c := c.(type) {
	case KV:
		return c.Has(ctx, key)
	case Pool:
		item, err := c.GetItem(ctx, key)
		if err != nil {
			return false, err
		}
		return item.IsHit(), nil
	default:
		return false, unsupported(c)
	}
}

// GetItems returns a value for every key; missing keys map to nil.
func GetItems(ctx context.Context, c Cache, keys []string) (map[string]any, error) {
	switch c := c.(type) {
	case KV:
		return c.GetMultiple(ctx, keys)
	case Pool:
		items, err := c.GetItems(ctx, keys)
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, len(items))
		for key, item := range items {
			if item.IsHit() {
				out[key] = item.Get()
			} else {
				out[key] = nil
			}
		}
		return out, nil
	default:
		return nil, unsupported(c)
	}
}

// SetItems stores every key/value pair with the same ttl.
func SetItems(ctx context.Context, c Cache, values map[string]any, ttl time.Duration) error {
	switch c := c.(type) {
	case KV:
		return c.SetMultiple(ctx, values, ttl)
	case Pool:
		for key, value := range values {
			if err := saveItem(ctx, c, key, value, ttl); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupported(c)
	}
}

// DeleteItems removes every key.
func DeleteItems(ctx context.Context, c Cache, keys []string) error {
	switch c := c.(type) {
	case KV:
		return c.DeleteMultiple(ctx, keys)
	case Pool:
		for _, key := range keys {
			if err := c.DeleteItem(ctx, key); err != nil {
				return err
			}
		}
		return nil
	default:
		return unsupported(c)
	}
}

// Clear empties the cache.
func Clear(ctx context.Context, c Cache) error {
	if c == nil {
		return unsupported(c)
	}
	return c.Clear(ctx)
}

func saveItem(ctx context.Context, p Pool, key string, value any, ttl time.Duration) error {
	item, err := p.GetItem(ctx, key)
	if err != nil {
		return err
	}
	item.Set(value).ExpiresAfter(ttl)
	return p.Save(ctx, item)
}

func unsupported(c Cache) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedCache, c)
}
