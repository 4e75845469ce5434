// Package testutil provides shared test helpers for repositories, storage,
// and the service stack.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/starling/noteboard/internal/attachments"
	"github.com/starling/noteboard/internal/noteservice"
	"github.com/starling/noteboard/internal/repo"
	"github.com/starling/noteboard/internal/storage"
	"github.com/starling/noteboard/internal/summarizer"
)

// Classes is the class enumeration used throughout the tests.
var Classes = []string{
	"CS124", "CS128", "CS173", "MATH221", "MATH231",
	"ENG100", "CS100", "RHET105", "PHY211", "PHY212",
}

// AllowedExtensions mirrors the default upload allow-list.
var AllowedExtensions = []string{
	"pdf", "png", "jpg", "jpeg", "gif", "doc", "docx", "txt", "ppt", "pptx",
}

// Logger returns a silent logger for components that require one.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestDB creates a temporary SQLite repository that is cleaned up with the test.
func TestDB(t *testing.T) *repo.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "noteboard-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := repo.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestStore creates a temporary uploads directory with an FS provider.
func TestStore(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store.Root(), store
}

// Stack wires a full service over the given repository and a temp uploads
// directory, returning the service, the attachment manager, and the store.
func Stack(t *testing.T, r repo.Repository, pageSize int) (*noteservice.Service, *attachments.Manager, *storage.FS) {
	t.Helper()
	_, store := TestStore(t)
	mgr := attachments.NewManager(r, store, AllowedExtensions, 16<<20, Logger())
	svc := noteservice.NewService(r, mgr, summarizer.New(summarizer.Config{}), Classes, pageSize, nil)
	return svc, mgr, store
}

// StackWithEvents wires a service like Stack but over the given store and
// with an event publisher attached.
func StackWithEvents(t *testing.T, r repo.Repository, store *storage.FS, events noteservice.EventPublisher) *noteservice.Service {
	t.Helper()
	mgr := attachments.NewManager(r, store, AllowedExtensions, 16<<20, Logger())
	return noteservice.NewService(r, mgr, summarizer.New(summarizer.Config{}), Classes, 5, events)
}
