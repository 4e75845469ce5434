package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starling/noteboard/internal/storage"
)

func newFS(t *testing.T) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestWriteReadDelete(t *testing.T) {
	fs := newFS(t)

	if err := fs.Write("a.txt", []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !fs.Exists("a.txt") {
		t.Error("Exists = false after write")
	}
	data, err := fs.Read("a.txt")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("Read = %q", data)
	}

	// Overwrite replaces content.
	if err := fs.Write("a.txt", []byte("replaced")); err != nil {
		t.Fatal(err)
	}
	data, _ = fs.Read("a.txt")
	if string(data) != "replaced" {
		t.Errorf("after overwrite = %q", data)
	}

	if err := fs.Delete("a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if fs.Exists("a.txt") {
		t.Error("Exists = true after delete")
	}
	if _, err := fs.Read("a.txt"); err == nil {
		t.Error("Read after delete succeeded")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	fs := newFS(t)
	if err := fs.Write("b.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(fs.Root())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "b.txt" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir contents = %v", names)
	}
}

func TestRejectsUnsafeNames(t *testing.T) {
	fs := newFS(t)
	for _, name := range []string{"", "..", "../x", "sub/dir.txt", "/etc/passwd", "a/../../b"} {
		if err := fs.Write(name, []byte("x")); err == nil {
			t.Errorf("Write(%q) accepted", name)
		}
		if _, err := fs.Read(name); err == nil {
			t.Errorf("Read(%q) accepted", name)
		}
		if fs.Exists(name) {
			t.Errorf("Exists(%q) = true", name)
		}
		if err := fs.Delete(name); err == nil {
			t.Errorf("Delete(%q) accepted", name)
		}
	}
}

func TestNewFSCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	fs, err := storage.NewFS(root)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	info, err := os.Stat(fs.Root())
	if err != nil || !info.IsDir() {
		t.Errorf("root not created: %v", err)
	}
}
