package stub

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.stub")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestRender(t *testing.T) {
	stub := writeStub(t, "package {{package}}\n\ntype {{name}} struct{}\n")
	dest := filepath.Join(t.TempDir(), "out", "nested", "model.go")

	err := Render(stub, dest, map[string]string{
		"{{package}}": "models",
		"{{name}}":    "User",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "package models\n\ntype User struct{}\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	info, err := os.Stat(filepath.Dir(dest))
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if !info.IsDir() {
		t.Error("destination directory was not created")
	}
}

func TestRender_NoPlaceholders(t *testing.T) {
	stub := writeStub(t, "static {{x}}")
	dest := filepath.Join(t.TempDir(), "out.txt")

	if err := Render(stub, dest, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "static {{x}}" {
		t.Errorf("output = %q, want stub unchanged", got)
	}
}

func TestRender_Overwrites(t *testing.T) {
	stub := writeStub(t, "new")
	dest := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(dest, []byte("old content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Render(stub, dest, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "new" {
		t.Errorf("output = %q, want %q", got, "new")
	}
}

func TestRender_Errors(t *testing.T) {
	dir := t.TempDir()
	stub := writeStub(t, "x")

	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		stub string
		dest string
		want error
	}{
		{"missing stub", filepath.Join(dir, "missing.stub"), filepath.Join(dir, "out"), ErrStubUnreadable},
		{"stub is directory", dir, filepath.Join(dir, "out"), ErrStubUnreadable},
		{"parent is a file", stub, filepath.Join(blocker, "sub", "out"), ErrMkdirFailed},
		{"dest is a directory", stub, dir, ErrWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Render(tt.stub, tt.dest, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Render() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		placeholders map[string]string
		want         string
	}{
		{"empty map", "a {x}", nil, "a {x}"},
		{"repeated key", "{x}-{x}", map[string]string{"{x}": "1"}, "1-1"},
		{"longest key wins", "$name $nameSpace", map[string]string{"$name": "a", "$nameSpace": "b"}, "a b"},
		{"value holding a later key", "{a}", map[string]string{"{a}": "{b}", "{b}": "c"}, "c"},
		{"value holding an earlier key", "{b}", map[string]string{"{a}": "c", "{b}": "{a}"}, "{a}"},
		{"longer key applied first", "{ab}", map[string]string{"{ab}": "{a}", "{a}": "x"}, "x"},
		{"empty key ignored", "abc", map[string]string{"": "x"}, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Replace(tt.content, tt.placeholders); got != tt.want {
				t.Errorf("Replace() = %q, want %q", got, tt.want)
			}
		})
	}
}
