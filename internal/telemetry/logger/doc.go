// Package logger provides structured logging for devkit.
//
// It wraps log/slog:
//
//   - logger.go: handler setup, level control, the process-wide default
//   - context.go: context propagation and per-invocation run IDs
//   - redact.go: masking of credentials in attribute values
//
// Libraries in pkg/ take a plain *slog.Logger; use Logger.Slog to hand
// them one that shares this package's handler and redaction.
package logger
