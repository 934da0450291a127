package fakes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Logger is a slog.Handler that records every record as
// "[LEVEL] message {json attrs}". It accepts all levels.
type Logger struct {
	rec    *recorder
	attrs  []groupedAttr
	groups []string
}

type groupedAttr struct {
	groups []string
	attr   slog.Attr
}

type recorder struct {
	mu       sync.Mutex
	messages []string
}

// NewLogger creates an empty recording handler.
func NewLogger() *Logger {
	return &Logger{rec: &recorder{}}
}

// Slog returns a *slog.Logger writing to l.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(l)
}

// Enabled implements slog.Handler.
func (l *Logger) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (l *Logger) Handle(_ context.Context, r slog.Record) error {
	ctx := make(map[string]any)
	for _, ga := range l.attrs {
		put(ctx, ga.groups, ga.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(ctx, l.groups, a)
		return true
	})

	data, err := json.Marshal(ctx)
	if err != nil {
		return fmt.Errorf("encode log context: %w", err)
	}

	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	l.rec.messages = append(l.rec.messages,
		fmt.Sprintf("[%s] %s %s", strings.ToUpper(r.Level.String()), r.Message, data))
	return nil
}

// WithAttrs implements slog.Handler.
func (l *Logger) WithAttrs(attrs []slog.Attr) slog.Handler {
	nl := *l
	nl.attrs = append([]groupedAttr(nil), l.attrs...)
	for _, a := range attrs {
		nl.attrs = append(nl.attrs, groupedAttr{groups: l.groups, attr: a})
	}
	return &nl
}

// WithGroup implements slog.Handler.
func (l *Logger) WithGroup(name string) slog.Handler {
	if name == "" {
		return l
	}
	nl := *l
	nl.groups = append(append([]string(nil), l.groups...), name)
	return &nl
}

// Messages returns a copy of the recorded lines in order.
func (l *Logger) Messages() []string {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	return append([]string(nil), l.rec.messages...)
}

// Contains reports whether any recorded line contains substr.
func (l *Logger) Contains(substr string) bool {
	for _, m := range l.Messages() {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

// Reset drops all recorded lines.
func (l *Logger) Reset() {
	l.rec.mu.Lock()
	defer l.rec.mu.Unlock()
	l.rec.messages = nil
}

func put(dst map[string]any, groups []string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	for _, g := range groups {
		next, ok := dst[g].(map[string]any)
		if !ok {
			next = make(map[string]any)
			dst[g] = next
		}
		dst = next
	}
	if a.Value.Kind() == slog.KindGroup {
		sub := a.Value.Group()
		if a.Key == "" {
			for _, ga := range sub {
				put(dst, nil, ga)
			}
			return
		}
		for _, ga := range sub {
			put(dst, []string{a.Key}, ga)
		}
		return
	}
	dst[a.Key] = a.Value.Any()
}
