package cachekit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// BadgerConfig configures a BadgerKV.
type BadgerConfig struct {
	// Dir is the storage directory. Ignored when InMemory is set.
	Dir string
	// InMemory keeps all data in memory.
	InMemory bool
	// SyncWrites enables fsync after each write.
	SyncWrites bool
	// Logger receives Badger's internal logs. Defaults to slog.Default().
	Logger *slog.Logger
}

// BadgerKV is a KV on Badger v3. Values are stored as JSON, so they come
// back as the generic JSON types (numbers as float64, objects as
// map[string]any).
type BadgerKV struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens a BadgerKV.
func OpenBadger(cfg BadgerConfig) (*BadgerKV, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger: logger}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	logger.Debug("badger cache opened",
		"dir", cfg.Dir,
		"in_memory", cfg.InMemory)

	return &BadgerKV{db: db, logger: logger}, nil
}

// Get returns the value for key and whether it was present.
func (b *BadgerKV) Get(_ context.Context, key string) (any, bool, error) {
	var v any
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		v, found, err = get(txn, key)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return v, found, nil
}

// Set stores value under key.
func (b *BadgerKV) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return set(txn, key, value, ttl)
	})
}

// Delete removes key.
func (b *BadgerKV) Delete(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Has reports whether key is present and unexpired.
func (b *BadgerKV) Has(_ context.Context, key string) (bool, error) {
	found := false
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}

// GetMultiple reads every key in one transaction; missing keys map to nil.
func (b *BadgerKV) GetMultiple(_ context.Context, keys []string) (map[string]any, error) {
	out := make(map[string]any, len(keys))
	err := b.db.View(func(txn *badger.Txn) error {
		for _, key := range keys {
			v, _, err := get(txn, key)
			if err != nil {
				return err
			}
			out[key] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetMultiple writes every pair in one transaction.
func (b *BadgerKV) SetMultiple(_ context.Context, values map[string]any, ttl time.Duration) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for key, value := range values {
			if err := set(txn, key, value, ttl); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMultiple removes every key in one transaction.
func (b *BadgerKV) DeleteMultiple(_ context.Context, keys []string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys {
			if err := txn.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear drops all data.
func (b *BadgerKV) Clear(context.Context) error {
	return b.db.DropAll()
}

// Close closes the database.
func (b *BadgerKV) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}

func get(txn *badger.Txn, key string) (any, bool, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var v any
	err = item.Value(func(data []byte) error {
		return json.Unmarshal(data, &v)
	})
	if err != nil {
		return nil, false, fmt.Errorf("decode %q: %w", key, err)
	}
	return v, true, nil
}

func set(txn *badger.Txn, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	e := badger.NewEntry([]byte(key), data)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return txn.SetEntry(e)
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
