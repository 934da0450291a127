package lazyconfig

import (
	"fmt"
	"slices"
)

// Entry is one row of a PathTable: an optional label and the ordered paths
// registered under it. An empty label makes the entry reachable only through
// LoadAll.
type Entry struct {
	Label string
	Paths []string
}

// Group returns a labeled entry.
func Group(label string, paths ...string) Entry {
	return Entry{Label: label, Paths: paths}
}

// Paths returns an unlabeled entry.
func Paths(paths ...string) Entry {
	return Entry{Paths: paths}
}

// PathTable maps optional labels to ordered path lists. It preserves
// insertion order and is immutable once built.
type PathTable struct {
	entries []Entry
	index   map[string]int
}

// NewPathTable builds a table from entries in order.
//
// Every entry must carry at least one path and no path may be empty.
// Paths may repeat. A label that appears twice replaces the paths of its
// first occurrence while keeping that occurrence's position.
func NewPathTable(entries ...Entry) (*PathTable, error) {
	t := &PathTable{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int),
	}

	for i, e := range entries {
		if len(e.Paths) == 0 {
			return nil, ErrInvalidTable.WithDetails(fmt.Sprintf("entry %d (%q) has no paths", i, e.Label))
		}
		for _, p := range e.Paths {
			if p == "" {
				return nil, ErrInvalidTable.WithDetails(fmt.Sprintf("entry %d (%q) has an empty path", i, e.Label))
			}
		}

		e = Entry{Label: e.Label, Paths: slices.Clone(e.Paths)}

		if e.Label != "" {
			if pos, ok := t.index[e.Label]; ok {
				t.entries[pos] = e
				continue
			}
			t.index[e.Label] = len(t.entries)
		}
		t.entries = append(t.entries, e)
	}

	return t, nil
}

// Flat builds an unlabeled table from paths. It panics if paths is empty
// or contains an empty string.
func Flat(paths ...string) *PathTable {
	t, err := NewPathTable(Paths(paths...))
	if err != nil {
		panic(err)
	}
	return t
}

// Labels returns the table labels in table order. Unlabeled entries are skipped.
func (t *PathTable) Labels() []string {
	labels := make([]string, 0, len(t.index))
	for _, e := range t.entries {
		if e.Label != "" {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// Len returns the number of entries.
func (t *PathTable) Len() int {
	return len(t.entries)
}

// resolve returns a fresh copy of the paths for label. An empty label
// selects every entry in table order.
func (t *PathTable) resolve(label string) ([]string, error) {
	if label != "" {
		pos, ok := t.index[label]
		if !ok {
			return nil, ErrLabelNotFound.WithDetails(label)
		}
		return slices.Clone(t.entries[pos].Paths), nil
	}

	n := 0
	for _, e := range t.entries {
		n += len(e.Paths)
	}

	paths := make([]string, 0, n)
	for _, e := range t.entries {
		paths = append(paths, e.Paths...)
	}
	return paths, nil
}
