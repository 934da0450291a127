package lazyconfig

import (
	"log/slog"
)

// Loader resolves labels of a PathTable into lazy collections.
// A Loader is immutable and safe for concurrent use.
type Loader[V any] struct {
	table    *PathTable
	decoder  Decoder[V]
	fs       FileSystem
	logger   *slog.Logger
	observer Observer
}

// Option configures a Loader.
type Option func(*options)

type options struct {
	fs       FileSystem
	logger   *slog.Logger
	observer Observer
}

// WithFileSystem sets the file system used by collections.
func WithFileSystem(fs FileSystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets the event observer (e.g. a metrics recorder).
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// New creates a Loader over table that decodes files with dec. It panics if
// dec is nil. A nil table is treated as empty.
func New[V any](table *PathTable, dec Decoder[V], opts ...Option) *Loader[V] {
	if dec == nil {
		panic("lazyconfig: nil decoder")
	}

	o := options{
		fs:       OSFS{},
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	if table == nil {
		table, _ = NewPathTable()
	}

	return &Loader[V]{
		table:    table,
		decoder:  dec,
		fs:       o.fs,
		logger:   o.logger,
		observer: o.observer,
	}
}

// Load returns a collection over the paths registered under label.
//
// It fails with ErrLabelNotFound when label is not in the table. No file is
// touched: existence, readability and decoding are checked per file while
// the collection is iterated.
func (l *Loader[V]) Load(label string) (*Collection[V], error) {
	if label == "" {
		return nil, ErrLabelNotFound.WithDetails(`""`)
	}

	paths, err := l.table.resolve(label)
	if err != nil {
		l.logger.Debug("config label not found", "label", label)
		return nil, err
	}

	return l.newCollection(label, paths), nil
}

// LoadAll returns a collection over every path in the table, in table order.
func (l *Loader[V]) LoadAll() *Collection[V] {
	paths, _ := l.table.resolve("")
	return l.newCollection("", paths)
}

// Table returns the loader's path table.
func (l *Loader[V]) Table() *PathTable {
	return l.table
}

func (l *Loader[V]) newCollection(label string, paths []string) *Collection[V] {
	l.logger.Debug("config paths resolved",
		"label", label,
		"count", len(paths),
	)
	l.observer.CollectionCreated(label, len(paths))

	return &Collection[V]{
		label:    label,
		paths:    paths,
		decoder:  l.decoder,
		fs:       l.fs,
		logger:   l.logger,
		observer: l.observer,
	}
}
