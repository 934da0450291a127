package fakes

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrServiceNotFound is returned by Container.Get for unknown ids.
	ErrServiceNotFound = errors.New("service not found")

	// ErrEmptyServiceID is returned when a container entry has an empty id.
	ErrEmptyServiceID = errors.New("container entries require non-empty ids")
)

// Container is a map-backed service container.
type Container struct {
	mu      sync.RWMutex
	entries map[string]any
}

// NewContainer creates a container from id/service pairs.
func NewContainer(entries map[string]any) (*Container, error) {
	c := &Container{entries: make(map[string]any, len(entries))}
	for id, v := range entries {
		if id == "" {
			return nil, ErrEmptyServiceID
		}
		c.entries[id] = v
	}
	return c, nil
}

// Get returns the service registered under id.
func (c *Container) Get(id string) (any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[id]
	if !ok {
		return nil, fmt.Errorf("service %q: %w", id, ErrServiceNotFound)
	}
	return v, nil
}

// Has reports whether id is registered.
func (c *Container) Has(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

// Set registers or replaces a service.
func (c *Container) Set(id string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = v
}
