package lazyconfig

import (
	"iter"
	"log/slog"
	"time"
)

// Collection is a countable, iterable and materializable view over a
// resolved path list. Files are read only while iterating, one per step.
// Nothing is cached: every Iter, All or ToSlice call reads the files again.
type Collection[V any] struct {
	label    string
	paths    []string
	decoder  Decoder[V]
	fs       FileSystem
	logger   *slog.Logger
	observer Observer
}

// Count returns the number of resolved paths. It never touches the file
// system, so it is unaffected by files that would fail to load.
func (c *Collection[V]) Count() int {
	return len(c.paths)
}

// Paths returns a copy of the resolved path list.
func (c *Collection[V]) Paths() []string {
	return append([]string(nil), c.paths...)
}

// Iter starts a new traversal.
func (c *Collection[V]) Iter() *Iterator[V] {
	return &Iterator[V]{c: c, idx: -1}
}

// All returns the collection as a range-over-func sequence. On failure it
// yields the zero value with the error once and stops.
func (c *Collection[V]) All() iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		it := c.Iter()
		for it.Next() {
			if !yield(it.Value(), nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			var zero V
			yield(zero, err)
		}
	}
}

// ToSlice drains a new traversal into a slice in path order. On failure it
// returns nil and the first error; values loaded before the failure are
// discarded.
func (c *Collection[V]) ToSlice() ([]V, error) {
	out := make([]V, 0, len(c.paths))
	it := c.Iter()
	for it.Next() {
		out = append(out, it.Value())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// load checks and decodes the file at index i.
func (c *Collection[V]) load(i int) (V, error) {
	var zero V
	path := c.paths[i]
	start := time.Now()

	if !c.fs.IsFile(path) || !c.fs.IsReadable(path) {
		c.fail(i, path, ErrInvalidFile.Code)
		return zero, ErrInvalidFile.WithDetails(path)
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		c.fail(i, path, ErrInvalidFile.Code)
		return zero, ErrInvalidFile.WithDetails(path).WithCause(err)
	}

	v, err := c.decoder.Decode(path, data)
	if err != nil {
		c.fail(i, path, ErrDecodeFailed.Code)
		return zero, ErrDecodeFailed.WithDetails(path).WithCause(err)
	}

	elapsed := time.Since(start)
	c.logger.Debug("config file loaded",
		"label", c.label,
		"index", i,
		"path", path,
		"duration", elapsed,
	)
	c.observer.FileLoaded(path, elapsed)
	return v, nil
}

func (c *Collection[V]) fail(i int, path, code string) {
	c.logger.Warn("config file failed",
		"label", c.label,
		"index", i,
		"path", path,
		"code", code,
	)
	c.observer.FileFailed(path, code)
}

// State is the lifecycle state of an Iterator.
type State int

const (
	// StateConstructed means no path has been consumed yet.
	StateConstructed State = iota
	// StateIterating means at least one path has been consumed.
	StateIterating
	// StateExhausted means every path loaded successfully.
	StateExhausted
	// StateFailed means the traversal stopped at a failing path.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateIterating:
		return "iterating"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Iterator is a pull-based traversal of a Collection. Each Next call loads
// exactly one file. Use it from a single goroutine.
//
//	it := coll.Iter()
//	for it.Next() {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iterator[V any] struct {
	c     *Collection[V]
	idx   int
	val   V
	err   error
	state State
}

// Next loads the next file. It returns false when the paths are exhausted
// or a file failed; Err distinguishes the two.
func (it *Iterator[V]) Next() bool {
	if it.state == StateExhausted || it.state == StateFailed {
		return false
	}

	it.idx++
	if it.idx >= len(it.c.paths) {
		var zero V
		it.val = zero
		it.state = StateExhausted
		return false
	}

	it.state = StateIterating
	v, err := it.c.load(it.idx)
	if err != nil {
		var zero V
		it.val = zero
		it.err = err
		it.state = StateFailed
		return false
	}

	it.val = v
	return true
}

// Value returns the value loaded by the last successful Next.
func (it *Iterator[V]) Value() V {
	return it.val
}

// Index returns the position of the current path, or -1 before the first Next.
func (it *Iterator[V]) Index() int {
	return it.idx
}

// Path returns the current path, or "" outside the path list.
func (it *Iterator[V]) Path() string {
	if it.idx < 0 || it.idx >= len(it.c.paths) {
		return ""
	}
	return it.c.paths[it.idx]
}

// Err returns the error that stopped the traversal, if any.
func (it *Iterator[V]) Err() error {
	return it.err
}

// State returns the iterator state.
func (it *Iterator[V]) State() State {
	return it.state
}
