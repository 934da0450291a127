// Package stub renders files from template stubs with literal placeholders.
package stub

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	// ErrStubUnreadable is returned when the stub is missing, not a regular
	// file, or cannot be read.
	ErrStubUnreadable = errors.New("stub file does not exist or is not readable")

	// ErrMkdirFailed is returned when the destination directory cannot be created.
	ErrMkdirFailed = errors.New("unable to create directory")

	// ErrWriteFailed is returned when the rendered file cannot be written.
	ErrWriteFailed = errors.New("failed to write file")
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Render reads stub, replaces every placeholder key with its value and
// writes the result to dest, creating parent directories as needed.
//
// See Replace for the substitution order.
func Render(stub, dest string, placeholders map[string]string) error {
	info, err := os.Stat(stub)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrStubUnreadable, stub)
	}

	content, err := os.ReadFile(stub)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrStubUnreadable, stub, err)
	}

	out := Replace(string(content), placeholders)

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMkdirFailed, dir, err)
	}

	if err := os.WriteFile(dest, []byte(out), filePerm); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteFailed, dest, err)
	}
	return nil
}

// Replace applies placeholders to content one pair at a time, each pair
// working on the output of the previous one. Keys are applied longest
// first, ties in lexical order. Empty keys are ignored.
func Replace(content string, placeholders map[string]string) string {
	keys := make([]string, 0, len(placeholders))
	for k := range placeholders {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(len(b), len(a)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	for _, k := range keys {
		content = strings.ReplaceAll(content, k, placeholders[k])
	}
	return content
}
