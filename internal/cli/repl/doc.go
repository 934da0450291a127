// Package repl provides the interactive shell for devkit.
//
//   - repl.go: read-eval-print loop and argument splitting
//   - completer.go: prefix completion over command words
//   - history.go: bounded, file-backed command history
//
// The loop does not know about devkit commands. Each line is split into
// arguments and handed to an Exec function.
package repl
