package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starling/noteboard/internal/storage"
	"github.com/starling/noteboard/internal/testutil"
)

func TestWatchReportsRemovals(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "abc_notes.pdf")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed := make(chan string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- storage.Watch(ctx, root, testutil.Logger(), func(name string) {
			removed <- name
		})
	}()

	// Give the watcher a moment to register before removing.
	time.Sleep(200 * time.Millisecond)
	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-removed:
		if name != "abc_notes.pdf" {
			t.Errorf("name = %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("removal not reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop on cancel")
	}
}

func TestWatchIgnoresTempFiles(t *testing.T) {
	root := t.TempDir()
	tmp := filepath.Join(root, ".noteboard-tmp-123")
	real := filepath.Join(root, "kept.txt")
	for _, p := range []string{tmp, real} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	removed := make(chan string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = storage.Watch(ctx, root, testutil.Logger(), func(name string) {
			removed <- name
		})
	}()

	time.Sleep(200 * time.Millisecond)
	if err := os.Remove(tmp); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(real); err != nil {
		t.Fatal(err)
	}

	// The temp file removal is filtered; only the real object surfaces.
	select {
	case name := <-removed:
		if name != "kept.txt" {
			t.Errorf("first reported removal = %q", name)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("removal not reported")
	}
}
