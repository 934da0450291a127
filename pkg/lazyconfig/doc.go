// Package lazyconfig provides lazy, label-grouped configuration loading.
//
// A PathTable registers configuration file paths, optionally grouped under
// labels. A Loader resolves a label (or the whole table) into a Collection:
//
//	table, _ := lazyconfig.NewPathTable(
//		lazyconfig.Group("db", "db.yaml", "db.local.yaml"),
//		lazyconfig.Paths("app.yaml"),
//	)
//	loader := lazyconfig.New(table, decode.Document())
//	coll, err := loader.Load("db")
//
// Resolution fails fast on unknown labels. File access is deferred: Count
// never touches the file system, and iteration checks, reads and decodes one
// file per step, stopping at the first failure.
//
//   - table.go: PathTable and path resolution
//   - loader.go: Loader and options
//   - collection.go: Collection and Iterator
//   - fs.go: FileSystem and Decoder capabilities
//   - errors.go: coded errors
package lazyconfig
