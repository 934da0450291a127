// Package cachekit normalizes two cache access contracts into one call surface.
//
//   - Pool: a pool of expirable items (fetch item, mutate, save)
//   - KV: direct key/value access with per-call TTL
//
// The package-level functions accept either contract and dispatch to it.
// Backends:
//
//   - memory.go: MemoryPool, a Pool on the sharded map in pkg/cmap
//   - badger.go: BadgerKV, a KV on Badger v3 with native entry TTLs
package cachekit
