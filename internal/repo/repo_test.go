package repo_test

import (
	"errors"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/starling/noteboard/internal/apperr"
	"github.com/starling/noteboard/internal/models"
	"github.com/starling/noteboard/internal/repo"
)

// openBackends returns each Repository implementation under a name, so the
// whole contract is verified against both.
func openBackends(t *testing.T) map[string]repo.Repository {
	t.Helper()

	dbFile, err := os.CreateTemp("", "noteboard-repo-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := repo.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return map[string]repo.Repository{
		"sqlite": db,
		"memory": repo.NewMemory(),
	}
}

func newNote(author, title string) *models.Note {
	return &models.Note{
		Author:    author,
		Title:     title,
		Body:      "some body",
		ClassCode: "CS124",
		Created:   time.Now().UTC().Truncate(time.Second),
		Tags:      []string{"review"},
		Hashtags:  []string{"cs124"},
	}
}

func TestNoteLifecycle(t *testing.T) {
	for name, r := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			id1, err := r.InsertNote(newNote("alice", "first"))
			if err != nil {
				t.Fatalf("InsertNote: %v", err)
			}
			if id1 != 1 {
				t.Errorf("first id = %d, want 1", id1)
			}
			id2, err := r.InsertNote(newNote("bob", "second"))
			if err != nil {
				t.Fatalf("InsertNote: %v", err)
			}
			if id2 != id1+1 {
				t.Errorf("second id = %d, want %d", id2, id1+1)
			}

			got, err := r.GetNote(id1)
			if err != nil {
				t.Fatalf("GetNote: %v", err)
			}
			if got.Author != "alice" || got.Title != "first" {
				t.Errorf("got %+v", got)
			}
			if !reflect.DeepEqual(got.Tags, []string{"review"}) {
				t.Errorf("tags = %v", got.Tags)
			}

			got.Title = "renamed"
			got.Tags = []string{"exam"}
			if err := r.UpdateNote(got); err != nil {
				t.Fatalf("UpdateNote: %v", err)
			}
			again, err := r.GetNote(id1)
			if err != nil {
				t.Fatal(err)
			}
			if again.Title != "renamed" || !reflect.DeepEqual(again.Tags, []string{"exam"}) {
				t.Errorf("update not applied: %+v", again)
			}

			if err := r.DeleteNote(id1); err != nil {
				t.Fatalf("DeleteNote: %v", err)
			}
			if _, err := r.GetNote(id1); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("GetNote after delete err = %v", err)
			}
		})
	}
}

func TestNotFoundErrors(t *testing.T) {
	for name, r := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := r.GetNote(99); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("GetNote err = %v", err)
			}
			if err := r.DeleteNote(99); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("DeleteNote err = %v", err)
			}
			if err := r.AddLike(99); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("AddLike err = %v", err)
			}
			if err := r.AddComment(99, models.Comment{Body: "x", Created: time.Now()}); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("AddComment err = %v", err)
			}
			if _, err := r.GetAttachment(99); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("GetAttachment err = %v", err)
			}
			if err := r.UpdateNote(&models.Note{ID: 99, Body: "x"}); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("UpdateNote err = %v", err)
			}
		})
	}
}

func TestLikesAndComments(t *testing.T) {
	for name, r := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			id, err := r.InsertNote(newNote("alice", "liked"))
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 3; i++ {
				if err := r.AddLike(id); err != nil {
					t.Fatalf("AddLike: %v", err)
				}
			}

			base := time.Now().UTC().Truncate(time.Second)
			for i, body := range []string{"first comment", "second comment"} {
				c := models.Comment{Author: "bob", Body: body, Created: base.Add(time.Duration(i) * time.Second)}
				if err := r.AddComment(id, c); err != nil {
					t.Fatalf("AddComment: %v", err)
				}
			}

			got, err := r.GetNote(id)
			if err != nil {
				t.Fatal(err)
			}
			if got.Likes != 3 {
				t.Errorf("likes = %d, want 3", got.Likes)
			}
			if len(got.Comments) != 2 || got.Comments[0].Body != "first comment" {
				t.Errorf("comments = %+v", got.Comments)
			}

			all, err := r.AllNotes()
			if err != nil {
				t.Fatal(err)
			}
			if len(all) != 1 || len(all[0].Comments) != 2 {
				t.Errorf("AllNotes comments not loaded: %+v", all)
			}
		})
	}
}

func TestDistinctAuthors(t *testing.T) {
	for name, r := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, a := range []string{"carol", "alice", "carol", "bob"} {
				if _, err := r.InsertNote(newNote(a, "t")); err != nil {
					t.Fatal(err)
				}
			}
			got, err := r.DistinctAuthors()
			if err != nil {
				t.Fatal(err)
			}
			want := []string{"alice", "bob", "carol"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("authors = %v, want %v", got, want)
			}
		})
	}
}

func TestAttachmentRows(t *testing.T) {
	for name, r := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			noteID, err := r.InsertNote(newNote("alice", "with files"))
			if err != nil {
				t.Fatal(err)
			}

			a1 := &models.Attachment{NoteID: noteID, Filename: "u1_notes.pdf", OriginalName: "notes.pdf",
				FileType: "pdf", UploadedAt: time.Now().UTC().Truncate(time.Second)}
			a2 := &models.Attachment{NoteID: noteID, Filename: "u2_slides.pptx", OriginalName: "slides.pptx",
				FileType: "pptx", UploadedAt: time.Now().UTC().Truncate(time.Second)}
			if _, err := r.InsertAttachment(a1); err != nil {
				t.Fatal(err)
			}
			if _, err := r.InsertAttachment(a2); err != nil {
				t.Fatal(err)
			}

			atts, err := r.AttachmentsForNote(noteID)
			if err != nil {
				t.Fatal(err)
			}
			if len(atts) != 2 || atts[0].OriginalName != "notes.pdf" {
				t.Fatalf("attachments = %+v", atts)
			}

			got, err := r.GetAttachment(a1.ID)
			if err != nil {
				t.Fatal(err)
			}
			if got.Filename != "u1_notes.pdf" || got.NoteID != noteID {
				t.Errorf("got %+v", got)
			}

			if err := r.DeleteAttachment(a1.ID); err != nil {
				t.Fatal(err)
			}
			atts, _ = r.AttachmentsForNote(noteID)
			if len(atts) != 1 {
				t.Errorf("after delete: %+v", atts)
			}

			// Deleting the note removes remaining attachment rows.
			if err := r.DeleteNote(noteID); err != nil {
				t.Fatal(err)
			}
			if _, err := r.GetAttachment(a2.ID); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("attachment survived note deletion: err = %v", err)
			}
		})
	}
}
