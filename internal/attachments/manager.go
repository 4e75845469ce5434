// Package attachments manages the upload lifecycle of note attachments:
// validation, collision-free storage naming, cascade deletion, and safe
// download resolution.
package attachments

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starling/noteboard/internal/apperr"
	"github.com/starling/noteboard/internal/checksum"
	"github.com/starling/noteboard/internal/models"
	"github.com/starling/noteboard/internal/repo"
	"github.com/starling/noteboard/internal/storage"
)

// Manager coordinates attachment records and their stored objects.
type Manager struct {
	repo     repo.Repository
	store    storage.Provider
	allowed  map[string]struct{}
	maxBytes int64
	logger   *slog.Logger
}

// NewManager creates a Manager enforcing the given extension allow-list and
// per-file size ceiling.
func NewManager(r repo.Repository, store storage.Provider, allowedExts []string, maxBytes int64, logger *slog.Logger) *Manager {
	allowed := make(map[string]struct{}, len(allowedExts))
	for _, ext := range allowedExts {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &Manager{
		repo:     r,
		store:    store,
		allowed:  allowed,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Validate reports whether filename carries an allowed extension. A name
// without a dot is rejected; with multiple dots only the final segment
// counts.
func (m *Manager) Validate(filename string) bool {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return false
	}
	_, ok := m.allowed[strings.ToLower(filename[i+1:])]
	return ok
}

// Store validates and persists one uploaded file for the note, returning
// the created attachment record. The stored object name is a random UUID
// prefix joined to the sanitized original filename, so user input alone
// never determines the on-disk path.
func (m *Manager) Store(noteID int64, filename string, data []byte) (*models.Attachment, error) {
	if m.maxBytes > 0 && int64(len(data)) > m.maxBytes {
		return nil, fmt.Errorf("%w: file %q exceeds %d bytes", apperr.ErrValidation, filename, m.maxBytes)
	}
	if !m.Validate(filename) {
		return nil, fmt.Errorf("%w: file type of %q is not allowed", apperr.ErrValidation, filename)
	}

	original := Sanitize(filename)
	ext := strings.ToLower(original[strings.LastIndexByte(original, '.')+1:])
	stored := uuid.New().String() + "_" + original

	if err := m.store.Write(stored, data); err != nil {
		return nil, err
	}

	att := &models.Attachment{
		NoteID:       noteID,
		Filename:     stored,
		OriginalName: original,
		FileType:     ext,
		Checksum:     checksum.Sum(data),
		UploadedAt:   time.Now(),
	}
	if _, err := m.repo.InsertAttachment(att); err != nil {
		// Do not leave an unreferenced object behind.
		if delErr := m.store.Delete(stored); delErr != nil {
			m.logger.Warn("attachments: cleanup after failed insert",
				slog.String("name", stored), slog.String("error", delErr.Error()))
		}
		return nil, err
	}
	return att, nil
}

// Remove deletes one attachment: stored object first (best effort), then
// the record. Used for edit-time removal of selected attachments.
func (m *Manager) Remove(attachmentID int64) error {
	att, err := m.repo.GetAttachment(attachmentID)
	if err != nil {
		return err
	}
	m.deleteObject(att.Filename)
	return m.repo.DeleteAttachment(attachmentID)
}

// CascadeDelete removes every attachment of a note ahead of the note row's
// deletion. Physical removal is attempted for each object; failures are
// logged and swallowed so the record deletion always proceeds.
func (m *Manager) CascadeDelete(noteID int64) error {
	atts, err := m.repo.AttachmentsForNote(noteID)
	if err != nil {
		return err
	}
	for _, att := range atts {
		m.deleteObject(att.Filename)
		if err := m.repo.DeleteAttachment(att.ID); err != nil {
			m.logger.Warn("attachments: delete record failed",
				slog.Int64("attachment_id", att.ID), slog.String("error", err.Error()))
		}
	}
	return nil
}

// Resolve maps an attachment id to its stored bytes and presentation name
// for download. Stored names carrying traversal sequences or absolute-path
// markers are refused even though Store never produces them.
func (m *Manager) Resolve(attachmentID int64) (*models.Attachment, []byte, error) {
	att, err := m.repo.GetAttachment(attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if strings.Contains(att.Filename, "..") ||
		strings.HasPrefix(att.Filename, "/") || strings.HasPrefix(att.Filename, "\\") {
		return nil, nil, apperr.ErrInvalidPath
	}
	data, err := m.store.Read(att.Filename)
	if err != nil {
		return nil, nil, apperr.ErrNotFound
	}
	return att, data, nil
}

func (m *Manager) deleteObject(name string) {
	if !m.store.Exists(name) {
		return
	}
	if err := m.store.Delete(name); err != nil {
		m.logger.Warn("attachments: delete object failed",
			slog.String("name", name), slog.String("error", err.Error()))
	}
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Sanitize flattens a user-supplied filename to a safe basename: path
// separators and traversal sequences are stripped and remaining characters
// are restricted to a conservative set.
func Sanitize(name string) string {
	flat := strings.ReplaceAll(name, "\\", "/")
	flat = path.Base(flat)
	flat = strings.ReplaceAll(flat, "..", "")
	flat = strings.ReplaceAll(flat, " ", "_")
	flat = unsafeChars.ReplaceAllString(flat, "")
	// Names made of nothing but separators and dots collapse to a stub;
	// otherwise the leading/trailing punctuation is kept as-is.
	if strings.Trim(flat, "._-") == "" {
		return "file"
	}
	return flat
}
