package lazyconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/yndnr/devkit/pkg/fakes"
	"github.com/yndnr/devkit/pkg/lazyconfig"
	"github.com/yndnr/devkit/pkg/lazyconfig/decode"
)

func newTestFS() *fakes.FS {
	return fakes.NewFS(map[string]string{
		"db.yaml":    "db: mysql\n",
		"cache.yaml": "cache: redis\n",
		"app.yaml":   "app: web\n",
	})
}

func mustTable(t *testing.T, entries ...lazyconfig.Entry) *lazyconfig.PathTable {
	t.Helper()
	table, err := lazyconfig.NewPathTable(entries...)
	if err != nil {
		t.Fatalf("NewPathTable() error = %v", err)
	}
	return table
}

func TestNew_PanicsOnNilDecoder(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New() with a nil decoder should panic")
		}
	}()
	lazyconfig.New[any](lazyconfig.Flat("a.yaml"), nil)
}

func TestLoader_LoadSingleFile(t *testing.T) {
	fsys := newTestFS()
	loader := lazyconfig.New(lazyconfig.Flat("db.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(fsys))

	coll := loader.LoadAll()
	values, err := coll.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice() error = %v", err)
	}

	if coll.Count() != 1 {
		t.Errorf("Count() = %d, want 1", coll.Count())
	}
	if len(values) != 1 {
		t.Fatalf("len(values) = %d, want 1", len(values))
	}
	want := map[string]any{"db": "mysql"}
	if !reflect.DeepEqual(values[0], want) {
		t.Errorf("values[0] = %v, want %v", values[0], want)
	}
}

func TestLoader_LoadFilesWithLabel(t *testing.T) {
	fsys := newTestFS()
	table := mustTable(t,
		lazyconfig.Group("config", "db.yaml", "cache.yaml"),
		lazyconfig.Group("app", "app.yaml"),
	)
	loader := lazyconfig.New(table, decode.Document(), lazyconfig.WithFileSystem(fsys))

	coll, err := loader.Load("config")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	values, err := coll.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice() error = %v", err)
	}

	want := []any{
		map[string]any{"db": "mysql"},
		map[string]any{"cache": "redis"},
	}
	if coll.Count() != 2 {
		t.Errorf("Count() = %d, want 2", coll.Count())
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("values = %v, want %v", values, want)
	}
	if fsys.Reads("app.yaml") != 0 {
		t.Error("app.yaml should not be read when loading label config")
	}
}

func TestLoader_LabelNotFound(t *testing.T) {
	fsys := newTestFS()
	table := mustTable(t, lazyconfig.Group("config", "db.yaml"))
	loader := lazyconfig.New(table, decode.Document(), lazyconfig.WithFileSystem(fsys))

	coll, err := loader.Load("missing")
	if err == nil {
		t.Fatal("Load() should fail for unknown label")
	}
	if coll != nil {
		t.Error("Load() should return nil collection on error")
	}
	if !errors.Is(err, lazyconfig.ErrLabelNotFound) {
		t.Errorf("error = %v, want ErrLabelNotFound", err)
	}
	if !strings.Contains(err.Error(), "no entries found for label: missing") {
		t.Errorf("error message = %q, should name the label", err.Error())
	}
	if fsys.Accesses() != 0 {
		t.Errorf("file system accessed %d times, want 0", fsys.Accesses())
	}
}

func TestLoader_EmptyLabel(t *testing.T) {
	loader := lazyconfig.New(lazyconfig.Flat("db.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(newTestFS()))

	if _, err := loader.Load(""); !errors.Is(err, lazyconfig.ErrLabelNotFound) {
		t.Errorf("Load(\"\") error = %v, want ErrLabelNotFound", err)
	}
}

func TestLoader_FlatOrder(t *testing.T) {
	fsys := fakes.NewFS(map[string]string{
		"p1.yaml": "1",
		"p2.yaml": "2",
		"p3.yaml": "3",
	})
	table := mustTable(t,
		lazyconfig.Group("a", "p1.yaml"),
		lazyconfig.Group("b", "p2.yaml", "p3.yaml"),
	)
	loader := lazyconfig.New(table, decode.Raw(), lazyconfig.WithFileSystem(fsys))

	it := loader.LoadAll().Iter()
	var paths []string
	for it.Next() {
		paths = append(paths, it.Path())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iteration error = %v", err)
	}

	want := []string{"p1.yaml", "p2.yaml", "p3.yaml"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestLoader_NoFileAccessUntilIteration(t *testing.T) {
	fsys := newTestFS()
	table := mustTable(t, lazyconfig.Group("config", "db.yaml", "missing.yaml"))
	loader := lazyconfig.New(table, decode.Document(), lazyconfig.WithFileSystem(fsys))

	coll, err := loader.Load("config")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	_ = coll.Count()
	_ = coll.Iter()

	if fsys.Accesses() != 0 {
		t.Errorf("file system accessed %d times before Next, want 0", fsys.Accesses())
	}
}

func TestCollection_MissingFile(t *testing.T) {
	loader := lazyconfig.New(lazyconfig.Flat("missing.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(newTestFS()))

	values, err := loader.LoadAll().ToSlice()
	if !errors.Is(err, lazyconfig.ErrInvalidFile) {
		t.Fatalf("ToSlice() error = %v, want ErrInvalidFile", err)
	}
	if values != nil {
		t.Errorf("ToSlice() values = %v, want nil", values)
	}
	if !strings.Contains(err.Error(), "invalid or unreadable file") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestCollection_UnreadableFileStopsTraversal(t *testing.T) {
	fsys := fakes.NewFS(map[string]string{
		"x.yaml": "x: 1",
		"z.yaml": "z: 3",
	})
	fsys.Put("y.yaml", fakes.File{Data: []byte("y: 2"), Unreadable: true})

	table := mustTable(t, lazyconfig.Group("grp", "x.yaml", "y.yaml", "z.yaml"))
	loader := lazyconfig.New(table, decode.Document(), lazyconfig.WithFileSystem(fsys))

	coll, err := loader.Load("grp")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if coll.Count() != 3 {
		t.Errorf("Count() before ToSlice = %d, want 3", coll.Count())
	}

	values, err := coll.ToSlice()
	if values != nil {
		t.Errorf("ToSlice() values = %v, want nil", values)
	}

	var le *lazyconfig.Error
	if !errors.As(err, &le) {
		t.Fatalf("error = %T %v, want *lazyconfig.Error", err, err)
	}
	if le.Code != lazyconfig.ErrInvalidFile.Code {
		t.Errorf("Code = %q, want %q", le.Code, lazyconfig.ErrInvalidFile.Code)
	}
	if le.Details != "y.yaml" {
		t.Errorf("Details = %q, want %q", le.Details, "y.yaml")
	}

	if fsys.Reads("x.yaml") != 1 {
		t.Errorf("x.yaml reads = %d, want 1", fsys.Reads("x.yaml"))
	}
	if fsys.Reads("y.yaml") != 0 {
		t.Errorf("y.yaml reads = %d, want 0", fsys.Reads("y.yaml"))
	}
	if fsys.Checks("z.yaml") != 0 || fsys.Reads("z.yaml") != 0 {
		t.Error("z.yaml should never be touched after y.yaml failed")
	}

	if coll.Count() != 3 {
		t.Errorf("Count() after failed ToSlice = %d, want 3", coll.Count())
	}
}

func TestCollection_DirectoryIsInvalid(t *testing.T) {
	fsys := newTestFS()
	fsys.Put("conf.d", fakes.File{Dir: true})

	loader := lazyconfig.New(lazyconfig.Flat("conf.d"), decode.Raw(), lazyconfig.WithFileSystem(fsys))
	if _, err := loader.LoadAll().ToSlice(); !errors.Is(err, lazyconfig.ErrInvalidFile) {
		t.Errorf("ToSlice() error = %v, want ErrInvalidFile", err)
	}
}

func TestCollection_DecodeFailure(t *testing.T) {
	fsys := fakes.NewFS(map[string]string{
		"bad.yaml": "key: [unclosed",
	})
	loader := lazyconfig.New(lazyconfig.Flat("bad.yaml"), decode.Document(), lazyconfig.WithFileSystem(fsys))

	_, err := loader.LoadAll().ToSlice()
	if !errors.Is(err, lazyconfig.ErrDecodeFailed) {
		t.Fatalf("ToSlice() error = %v, want ErrDecodeFailed", err)
	}
	if errors.Unwrap(err) == nil {
		t.Error("decode error should carry its cause")
	}
	if lazyconfig.ErrorCode(err) != "CFG-LOAD-4220" {
		t.Errorf("ErrorCode() = %q", lazyconfig.ErrorCode(err))
	}
}

func TestCollection_CountIsStable(t *testing.T) {
	fsys := newTestFS()
	table := mustTable(t,
		lazyconfig.Paths("db.yaml", "db.yaml"),
		lazyconfig.Group("broken", "missing.yaml"),
	)
	coll := lazyconfig.New(table, decode.Document(), lazyconfig.WithFileSystem(fsys)).LoadAll()

	for i := 0; i < 3; i++ {
		if coll.Count() != 3 {
			t.Errorf("Count() call %d = %d, want 3", i, coll.Count())
		}
	}
	if _, err := coll.ToSlice(); err == nil {
		t.Error("ToSlice() should fail on missing.yaml")
	}
	if coll.Count() != 3 {
		t.Errorf("Count() after ToSlice = %d, want 3", coll.Count())
	}
}

func TestCollection_PathsIsACopy(t *testing.T) {
	coll := lazyconfig.New(lazyconfig.Flat("a.yaml", "b.yaml"), decode.Raw()).LoadAll()

	paths := coll.Paths()
	if !reflect.DeepEqual(paths, []string{"a.yaml", "b.yaml"}) {
		t.Fatalf("Paths() = %v", paths)
	}
	paths[0] = "mutated.yaml"
	if got := coll.Paths()[0]; got != "a.yaml" {
		t.Errorf("Paths()[0] = %q after caller mutation, want a.yaml", got)
	}
}

func TestCollection_RepeatedTraversalRereads(t *testing.T) {
	fsys := fakes.NewFS(map[string]string{"v.yaml": "version: 1"})
	coll := lazyconfig.New(lazyconfig.Flat("v.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(fsys)).LoadAll()

	first, err := coll.ToSlice()
	if err != nil {
		t.Fatalf("first ToSlice() error = %v", err)
	}

	fsys.Write("v.yaml", "version: 2")

	second, err := coll.ToSlice()
	if err != nil {
		t.Fatalf("second ToSlice() error = %v", err)
	}

	if got := first[0].(map[string]any)["version"]; got != 1 {
		t.Errorf("first version = %v, want 1", got)
	}
	if got := second[0].(map[string]any)["version"]; got != 2 {
		t.Errorf("second version = %v, want 2", got)
	}
	if fsys.Reads("v.yaml") != 2 {
		t.Errorf("v.yaml reads = %d, want 2", fsys.Reads("v.yaml"))
	}
}

func TestIterator_States(t *testing.T) {
	fsys := newTestFS()
	coll := lazyconfig.New(lazyconfig.Flat("db.yaml", "missing.yaml", "app.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(fsys)).LoadAll()

	it := coll.Iter()
	if it.State() != lazyconfig.StateConstructed {
		t.Errorf("initial State() = %v, want constructed", it.State())
	}
	if it.Index() != -1 || it.Path() != "" {
		t.Errorf("initial Index/Path = %d/%q", it.Index(), it.Path())
	}

	if !it.Next() {
		t.Fatalf("first Next() = false, err = %v", it.Err())
	}
	if it.State() != lazyconfig.StateIterating {
		t.Errorf("State() = %v, want iterating", it.State())
	}

	if it.Next() {
		t.Fatal("second Next() should fail on missing.yaml")
	}
	if it.State() != lazyconfig.StateFailed {
		t.Errorf("State() = %v, want failed", it.State())
	}
	if it.Path() != "missing.yaml" {
		t.Errorf("Path() = %q, want missing.yaml", it.Path())
	}
	if it.Value() != nil {
		t.Errorf("Value() after failure = %v, want nil", it.Value())
	}

	// Stays failed.
	if it.Next() {
		t.Error("Next() after failure should return false")
	}
	if fsys.Checks("app.yaml") != 0 {
		t.Error("app.yaml should not be checked")
	}

	// A new traversal is independent.
	it2 := coll.Iter()
	if !it2.Next() {
		t.Errorf("fresh iterator Next() = false, err = %v", it2.Err())
	}
}

func TestIterator_Exhausted(t *testing.T) {
	coll := lazyconfig.New(lazyconfig.Flat("db.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(newTestFS())).LoadAll()

	it := coll.Iter()
	for it.Next() {
	}
	if it.Err() != nil {
		t.Errorf("Err() = %v, want nil", it.Err())
	}
	if it.State() != lazyconfig.StateExhausted {
		t.Errorf("State() = %v, want exhausted", it.State())
	}
	if it.Next() {
		t.Error("Next() after exhaustion should return false")
	}
}

func TestCollection_All(t *testing.T) {
	fsys := newTestFS()
	coll := lazyconfig.New(lazyconfig.Flat("db.yaml", "missing.yaml", "app.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(fsys)).LoadAll()

	var values []any
	var errs []error
	for v, err := range coll.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values = append(values, v)
	}

	if len(values) != 1 {
		t.Errorf("values = %v, want one value before the failure", values)
	}
	if len(errs) != 1 || !errors.Is(errs[0], lazyconfig.ErrInvalidFile) {
		t.Errorf("errs = %v, want one ErrInvalidFile", errs)
	}
}

func TestCollection_AllBreakEarly(t *testing.T) {
	fsys := newTestFS()
	coll := lazyconfig.New(lazyconfig.Flat("db.yaml", "cache.yaml", "app.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(fsys)).LoadAll()

	for range coll.All() {
		break
	}

	if fsys.Reads("cache.yaml") != 0 {
		t.Error("cache.yaml should not be read after break")
	}
}

func TestCollection_EmptyTable(t *testing.T) {
	table := mustTable(t)
	coll := lazyconfig.New(table, decode.Document()).LoadAll()

	if coll.Count() != 0 {
		t.Errorf("Count() = %d, want 0", coll.Count())
	}
	values, err := coll.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice() error = %v", err)
	}
	if len(values) != 0 {
		t.Errorf("values = %v, want empty", values)
	}
}

func TestCollection_OSFileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "db.yaml")
	jsonPath := filepath.Join(tmpDir, "cache.json")

	if err := os.WriteFile(dbPath, []byte("db: mysql\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(jsonPath, []byte(`{"cache": "redis"}`), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	table := mustTable(t, lazyconfig.Group("paths", dbPath, jsonPath))
	coll, err := lazyconfig.New(table, decode.Document()).Load("paths")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	values, err := coll.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice() error = %v", err)
	}
	want := []any{
		map[string]any{"db": "mysql"},
		map[string]any{"cache": "redis"},
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("values = %v, want %v", values, want)
	}
}

func TestCollection_OSUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permissions")
	}

	tmpDir := t.TempDir()
	secret := filepath.Join(tmpDir, "secret.yaml")
	if err := os.WriteFile(secret, []byte("secret: hidden"), 0000); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := lazyconfig.New(lazyconfig.Flat(secret), decode.Document()).LoadAll().ToSlice()
	if !errors.Is(err, lazyconfig.ErrInvalidFile) {
		t.Errorf("ToSlice() error = %v, want ErrInvalidFile", err)
	}
}

func TestLoader_Logging(t *testing.T) {
	rec := fakes.NewLogger()
	fsys := newTestFS()
	loader := lazyconfig.New(lazyconfig.Flat("db.yaml", "missing.yaml"), decode.Document(),
		lazyconfig.WithFileSystem(fsys),
		lazyconfig.WithLogger(rec.Slog()),
	)

	_, _ = loader.LoadAll().ToSlice()

	if !rec.Contains("[DEBUG] config file loaded") {
		t.Errorf("missing load message in %v", rec.Messages())
	}
	if !rec.Contains(`[WARN] config file failed`) || !rec.Contains(`"path":"missing.yaml"`) {
		t.Errorf("missing failure message in %v", rec.Messages())
	}
}
