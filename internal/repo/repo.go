// Package repo provides the note/attachment persistence abstraction with
// SQLite-backed and in-memory implementations.
package repo

import "github.com/starling/noteboard/internal/models"

// Repository is the persistence contract the service layer depends on.
// Implementations must return apperr.ErrNotFound for unknown ids and must
// cascade attachment and comment rows when a note is deleted.
type Repository interface {
	// InsertNote persists n and returns its assigned id.
	InsertNote(n *models.Note) (int64, error)
	// GetNote returns the note with its comments, ordered chronologically.
	GetNote(id int64) (*models.Note, error)
	// UpdateNote rewrites the mutable fields of the note (title, body,
	// author, class, tags, hashtags). Identity, created and owner stay.
	UpdateNote(n *models.Note) error
	// DeleteNote removes the note row and cascades comments and
	// attachment rows. Physical files are the attachment manager's job.
	DeleteNote(id int64) error
	// AllNotes returns every note with comments, in insertion order.
	AllNotes() ([]models.Note, error)
	// DistinctAuthors returns the unique author names, sorted ascending.
	DistinctAuthors() ([]string, error)

	// AddLike increments the note's like counter.
	AddLike(id int64) error
	// AddComment appends a comment to the note.
	AddComment(noteID int64, c models.Comment) error

	// InsertAttachment persists a and returns its assigned id.
	InsertAttachment(a *models.Attachment) (int64, error)
	// GetAttachment returns the attachment record.
	GetAttachment(id int64) (*models.Attachment, error)
	// AttachmentsForNote returns the note's attachments in upload order.
	AttachmentsForNote(noteID int64) ([]models.Attachment, error)
	// DeleteAttachment removes a single attachment record.
	DeleteAttachment(id int64) error

	Close() error
}

// Compile-time checks.
var (
	_ Repository = (*DB)(nil)
	_ Repository = (*Memory)(nil)
)
