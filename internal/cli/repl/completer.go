package repl

import (
	"sort"
	"strings"
)

// Completer completes command lines from a fixed word list.
type Completer struct {
	words []string
}

// NewCompleter creates a completer over words. Duplicates are dropped.
func NewCompleter(words ...string) *Completer {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w]; ok || w == "" {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Strings(out)
	return &Completer{words: out}
}

// Complete returns the words starting with prefix, sorted.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, w := range c.words {
		if strings.HasPrefix(w, prefix) {
			suggestions = append(suggestions, w)
		}
	}
	return suggestions
}

// Words returns every known word.
func (c *Completer) Words() []string {
	return append([]string(nil), c.words...)
}
