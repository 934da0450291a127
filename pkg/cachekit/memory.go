package cachekit

import (
	"context"
	"time"

	"github.com/yndnr/devkit/pkg/cmap"
)

// MemoryPool is an in-process Pool backed by a sharded concurrent map.
// Expired entries are dropped lazily on access.
type MemoryPool struct {
	items *cmap.Map[entry]
	now   func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time // zero: never
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryOption configures a MemoryPool.
type MemoryOption func(*MemoryPool)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(p *MemoryPool) {
		p.now = now
	}
}

// WithShards sets the shard count. It must be a power of 2.
func WithShards(n int) MemoryOption {
	return func(p *MemoryPool) {
		p.items = cmap.NewWithShards[entry](n)
	}
}

// NewMemoryPool creates an empty MemoryPool.
func NewMemoryPool(opts ...MemoryOption) *MemoryPool {
	p := &MemoryPool{
		items: cmap.New[entry](),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetItem returns the item for key. A missing or expired key yields a miss.
func (p *MemoryPool) GetItem(_ context.Context, key string) (Item, error) {
	it := &memoryItem{key: key, now: p.now}
	e, ok := p.items.Get(key)
	if !ok {
		return it, nil
	}
	if now := p.now(); e.expired(now) {
		p.items.DeleteIf(key, func(cur entry) bool { return cur.expired(now) })
		return it, nil
	}
	it.value = e.value
	it.hit = true
	it.expiresAt = e.expiresAt
	return it, nil
}

// GetItems returns an item per key.
func (p *MemoryPool) GetItems(ctx context.Context, keys []string) (map[string]Item, error) {
	out := make(map[string]Item, len(keys))
	for _, key := range keys {
		item, err := p.GetItem(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = item
	}
	return out, nil
}

// Save stores a hit item. Saving a miss deletes the key.
func (p *MemoryPool) Save(_ context.Context, item Item) error {
	if !item.IsHit() {
		p.items.Delete(item.Key())
		return nil
	}

	e := entry{value: item.Get()}
	if mi, ok := item.(*memoryItem); ok {
		e.expiresAt = mi.expiresAt
	}
	p.items.Set(item.Key(), e)
	return nil
}

// DeleteItem removes key.
func (p *MemoryPool) DeleteItem(_ context.Context, key string) error {
	p.items.Delete(key)
	return nil
}

// Clear removes every entry.
func (p *MemoryPool) Clear(context.Context) error {
	p.items.Clear()
	return nil
}

// Purge removes every expired entry and returns how many were removed.
func (p *MemoryPool) Purge() int {
	now := p.now()
	return p.items.DeleteFunc(func(_ string, e entry) bool { return e.expired(now) })
}

// Len returns the number of stored entries, expired ones included.
func (p *MemoryPool) Len() int {
	return p.items.Count()
}

type memoryItem struct {
	key       string
	value     any
	hit       bool
	expiresAt time.Time
	now       func() time.Time
}

func (i *memoryItem) Key() string { return i.key }

func (i *memoryItem) Get() any {
	if !i.IsHit() {
		return nil
	}
	return i.value
}

func (i *memoryItem) IsHit() bool {
	if !i.hit {
		return false
	}
	return i.expiresAt.IsZero() || i.now().Before(i.expiresAt)
}

func (i *memoryItem) Set(value any) Item {
	i.value = value
	i.hit = true
	return i
}

func (i *memoryItem) ExpiresAfter(ttl time.Duration) Item {
	if ttl <= 0 {
		i.expiresAt = time.Time{}
		return i
	}
	i.expiresAt = i.now().Add(ttl)
	return i
}
