// Package cmap provides a string-keyed concurrent map split into shards.
//
// Keys are assigned to shards with murmur3, so a key always lands on the
// same shard for the life of the map. Each shard has its own RWMutex.
//
// Usage:
//
//	m := cmap.New[*Entry]()
//	m.Set("db", e)
//	e, ok := m.Get("db")
//	m.DeleteIf("db", func(e *Entry) bool { return e.Stale() })
package cmap
