package repo

import (
	"sync"

	"github.com/starling/noteboard/internal/apperr"
	"github.com/starling/noteboard/internal/models"
	"github.com/starling/noteboard/internal/query"
)

// Memory is an in-process Repository guarded by a mutex. It backs the
// "memory" persistence mode and the unit tests.
type Memory struct {
	mu          sync.Mutex
	notes       []models.Note
	attachments []models.Attachment
	nextAttID   int64
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{nextAttID: 1}
}

// InsertNote assigns max(id)+1 (1 when empty) and stores a copy of n.
func (m *Memory) InsertNote(n *models.Note) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var maxID int64
	for _, existing := range m.notes {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	n.ID = maxID + 1
	m.notes = append(m.notes, cloneNote(*n))
	return n.ID, nil
}

// GetNote returns a copy of the note.
func (m *Memory) GetNote(id int64) (*models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, apperr.ErrNotFound
	}
	n := cloneNote(m.notes[i])
	return &n, nil
}

// UpdateNote rewrites the mutable fields of the stored note.
func (m *Memory) UpdateNote(n *models.Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(n.ID)
	if i < 0 {
		return apperr.ErrNotFound
	}
	stored := &m.notes[i]
	stored.Author = n.Author
	stored.Title = n.Title
	stored.Body = n.Body
	stored.ClassCode = n.ClassCode
	stored.Tags = append([]string(nil), n.Tags...)
	stored.Hashtags = append([]string(nil), n.Hashtags...)
	return nil
}

// DeleteNote removes the note and its attachment records.
func (m *Memory) DeleteNote(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return apperr.ErrNotFound
	}
	m.notes = append(m.notes[:i], m.notes[i+1:]...)

	kept := m.attachments[:0]
	for _, a := range m.attachments {
		if a.NoteID != id {
			kept = append(kept, a)
		}
	}
	m.attachments = kept
	return nil
}

// AllNotes returns copies of every note in insertion order.
func (m *Memory) AllNotes() ([]models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Note, len(m.notes))
	for i, n := range m.notes {
		out[i] = cloneNote(n)
	}
	return out, nil
}

// DistinctAuthors returns unique author names sorted ascending.
func (m *Memory) DistinctAuthors() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return query.Authors(m.notes), nil
}

// AddLike increments the note's like counter.
func (m *Memory) AddLike(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return apperr.ErrNotFound
	}
	m.notes[i].Likes++
	return nil
}

// AddComment appends a comment to the note.
func (m *Memory) AddComment(noteID int64, c models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(noteID)
	if i < 0 {
		return apperr.ErrNotFound
	}
	m.notes[i].Comments = append(m.notes[i].Comments, c)
	return nil
}

// InsertAttachment assigns the next id and stores a copy of a.
func (m *Memory) InsertAttachment(a *models.Attachment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a.ID = m.nextAttID
	m.nextAttID++
	m.attachments = append(m.attachments, *a)
	return a.ID, nil
}

// GetAttachment returns a copy of the attachment record.
func (m *Memory) GetAttachment(id int64) (*models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, a := range m.attachments {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// AttachmentsForNote returns the note's attachments in upload order.
func (m *Memory) AttachmentsForNote(noteID int64) ([]models.Attachment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Attachment
	for _, a := range m.attachments {
		if a.NoteID == noteID {
			out = append(out, a)
		}
	}
	return out, nil
}

// DeleteAttachment removes a single attachment record.
func (m *Memory) DeleteAttachment(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, a := range m.attachments {
		if a.ID == id {
			m.attachments = append(m.attachments[:i], m.attachments[i+1:]...)
			return nil
		}
	}
	return apperr.ErrNotFound
}

// Close is a no-op for the in-memory repository.
func (m *Memory) Close() error {
	return nil
}

func (m *Memory) indexOf(id int64) int {
	for i, n := range m.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func cloneNote(n models.Note) models.Note {
	n.Tags = append([]string(nil), n.Tags...)
	n.Hashtags = append([]string(nil), n.Hashtags...)
	n.Comments = append([]models.Comment(nil), n.Comments...)
	return n
}
