package attachments_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starling/noteboard/internal/apperr"
	"github.com/starling/noteboard/internal/attachments"
	"github.com/starling/noteboard/internal/models"
	"github.com/starling/noteboard/internal/repo"
	"github.com/starling/noteboard/internal/testutil"
)

func newManager(t *testing.T) (*attachments.Manager, *repo.Memory, string) {
	t.Helper()
	r := repo.NewMemory()
	root, store := testutil.TestStore(t)
	mgr := attachments.NewManager(r, store, testutil.AllowedExtensions, 16<<20, testutil.Logger())
	return mgr, r, root
}

func TestValidate(t *testing.T) {
	mgr, _, _ := newManager(t)

	tests := []struct {
		filename string
		want     bool
	}{
		{"notes.pdf", true},
		{"photo.PNG", true},
		{"slides.pptx", true},
		{"script.exe", false},
		{"noext", false},
		{"archive.tar.gz", false},
		{"report.final.docx", true},
		{"", false},
	}
	for _, tt := range tests {
		if got := mgr.Validate(tt.filename); got != tt.want {
			t.Errorf("Validate(%q) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestStoreNamesAndRecords(t *testing.T) {
	mgr, r, root := newManager(t)
	noteID, err := r.InsertNote(&models.Note{Author: "alice", Body: "b"})
	if err != nil {
		t.Fatal(err)
	}

	att, err := mgr.Store(noteID, "my notes.pdf", []byte("pdf bytes"))
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if att.OriginalName != "my_notes.pdf" {
		t.Errorf("OriginalName = %q", att.OriginalName)
	}
	if att.FileType != "pdf" {
		t.Errorf("FileType = %q", att.FileType)
	}
	if !strings.HasSuffix(att.Filename, "_my_notes.pdf") {
		t.Errorf("stored name = %q, want uuid prefix + sanitized original", att.Filename)
	}
	if att.Filename == "my_notes.pdf" {
		t.Error("stored name carries no random prefix")
	}
	if att.Checksum == "" || len(att.Checksum) != 64 {
		t.Errorf("checksum = %q", att.Checksum)
	}

	data, err := os.ReadFile(filepath.Join(root, att.Filename))
	if err != nil {
		t.Fatalf("stored object missing: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("stored bytes = %q", data)
	}

	got, err := r.GetAttachment(att.ID)
	if err != nil {
		t.Fatalf("record missing: %v", err)
	}
	if got.NoteID != noteID {
		t.Errorf("NoteID = %d, want %d", got.NoteID, noteID)
	}

	// Same original name stored twice must not collide.
	att2, err := mgr.Store(noteID, "my notes.pdf", []byte("other bytes"))
	if err != nil {
		t.Fatal(err)
	}
	if att2.Filename == att.Filename {
		t.Error("second upload reused the first stored name")
	}
}

func TestStoreRejectsDisallowed(t *testing.T) {
	mgr, _, _ := newManager(t)
	if _, err := mgr.Store(1, "virus.exe", []byte("x")); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
}

func TestStoreRejectsOversize(t *testing.T) {
	r := repo.NewMemory()
	_, store := testutil.TestStore(t)
	mgr := attachments.NewManager(r, store, testutil.AllowedExtensions, 8, testutil.Logger())

	if _, err := mgr.Store(1, "big.txt", []byte("123456789")); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v, want ErrValidation", err)
	}
	if _, err := mgr.Store(1, "ok.txt", []byte("12345678")); err != nil {
		t.Errorf("at the limit: %v", err)
	}
}

func TestCascadeDelete(t *testing.T) {
	mgr, r, root := newManager(t)
	noteID, _ := r.InsertNote(&models.Note{Author: "alice", Body: "b"})

	a1, err := mgr.Store(noteID, "one.pdf", []byte("1"))
	if err != nil {
		t.Fatal(err)
	}
	a2, err := mgr.Store(noteID, "two.txt", []byte("2"))
	if err != nil {
		t.Fatal(err)
	}

	if err := mgr.CascadeDelete(noteID); err != nil {
		t.Fatalf("CascadeDelete: %v", err)
	}
	for _, a := range []*models.Attachment{a1, a2} {
		if _, err := r.GetAttachment(a.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("record %d survived: err = %v", a.ID, err)
		}
		if _, err := os.Stat(filepath.Join(root, a.Filename)); !os.IsNotExist(err) {
			t.Errorf("object %q survived: err = %v", a.Filename, err)
		}
	}
}

func TestCascadeDeleteNoAttachments(t *testing.T) {
	mgr, r, _ := newManager(t)
	noteID, _ := r.InsertNote(&models.Note{Author: "alice", Body: "b"})
	if err := mgr.CascadeDelete(noteID); err != nil {
		t.Errorf("CascadeDelete on bare note: %v", err)
	}
}

func TestResolve(t *testing.T) {
	mgr, r, _ := newManager(t)
	noteID, _ := r.InsertNote(&models.Note{Author: "alice", Body: "b"})
	att, err := mgr.Store(noteID, "syllabus.pdf", []byte("contents"))
	if err != nil {
		t.Fatal(err)
	}

	got, data, err := mgr.Resolve(att.ID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.OriginalName != "syllabus.pdf" || string(data) != "contents" {
		t.Errorf("got %+v, data %q", got, data)
	}

	if _, _, err := mgr.Resolve(999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id: err = %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	mgr, r, _ := newManager(t)
	// A record with a hostile stored name can only appear via direct
	// database tampering; Resolve still refuses to read it.
	for _, name := range []string{"../../etc/passwd", "/etc/passwd", `\\share\x`} {
		id, err := r.InsertAttachment(&models.Attachment{NoteID: 1, Filename: name, OriginalName: "x.pdf"})
		if err != nil {
			t.Fatal(err)
		}
		if _, _, err := mgr.Resolve(id); !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("Resolve(%q) err = %v, want ErrInvalidPath", name, err)
		}
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"notes.pdf", "notes.pdf"},
		{"my report.docx", "my_report.docx"},
		{"../../etc/passwd", "passwd"},
		{`..\..\boot.ini`, "boot.ini"},
		{"weird*name?.txt", "weirdname.txt"},
		{"résumé.pdf", "rsum.pdf"},
		{"....", "file"},
		{"-_-", "file"},
		{".pdf", ".pdf"},
		{"", "file"},
	}
	for _, tt := range tests {
		if got := attachments.Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
