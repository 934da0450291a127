// Package main provides the entry point for devkit.
//
// devkit is a command-line front end for the lazyconfig loader:
//
//   - Load and decode the files of a label group (load, count, labels)
//   - Reload a group whenever one of its files changes (watch)
//   - Render stub files with placeholder replacement (render)
//   - Inspect persisted load snapshots (cache)
//
// Usage:
//
//	devkit [global flags] command [flags]
//	devkit --config devkit.yaml load --label db -o json
//	devkit watch --label app
//	devkit render -s name=Invoice model.stub internal/model/invoice.go
package main
