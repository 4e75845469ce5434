// Package noteservice implements the core operations of the board: listing
// with the filter/sort/paginate pipeline, note CRUD with ownership checks,
// likes, comments, attachment handling, and summarization.
package noteservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/starling/noteboard/internal/apperr"
	"github.com/starling/noteboard/internal/attachments"
	"github.com/starling/noteboard/internal/models"
	"github.com/starling/noteboard/internal/query"
	"github.com/starling/noteboard/internal/repo"
	"github.com/starling/noteboard/internal/summarizer"
	"github.com/starling/noteboard/internal/tags"
)

const (
	defaultAuthor = "Anonymous"
	defaultTitle  = "Untitled"
	defaultClass  = "General"
)

// EventPublisher receives notifications after successful mutations.
type EventPublisher interface {
	PublishNoteEvent(kind string, id int64)
}

// NoteView is a note together with its attachment records.
type NoteView struct {
	models.Note
	Attachments []models.Attachment `json:"attachments"`
}

// ListResult is the full payload of a listing request.
type ListResult struct {
	Notes    []NoteView       `json:"notes"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"has_more"`
	Page     int              `json:"page"`
	Authors  []string         `json:"authors"`
	TagCloud []query.TagCount `json:"tag_cloud"`
}

// NoteDraft carries the fields of a create request.
type NoteDraft struct {
	Author  string
	Title   string
	Body    string
	Class   string
	RawTags string
}

// NoteDelta carries the fields of an edit request; empty fields keep the
// stored value.
type NoteDelta struct {
	Author  string
	Title   string
	Body    string
	Class   string
	RawTags string
}

// CommentDraft carries the fields of a comment submission.
type CommentDraft struct {
	Author string
	Body   string
}

// FileUpload is one uploaded file candidate.
type FileUpload struct {
	Filename string
	Data     []byte
}

// Service wires the repository, attachment manager, and summarizer into the
// core-exposed operations.
type Service struct {
	repo     repo.Repository
	atts     *attachments.Manager
	sum      *summarizer.Summarizer
	classes  []string
	pageSize int
	events   EventPublisher
}

// NewService creates a note service. events may be nil.
func NewService(r repo.Repository, atts *attachments.Manager, sum *summarizer.Summarizer, classes []string, pageSize int, events EventPublisher) *Service {
	return &Service{
		repo:     r,
		atts:     atts,
		sum:      sum,
		classes:  classes,
		pageSize: pageSize,
		events:   events,
	}
}

// Classes returns the configured class-code enumeration.
func (s *Service) Classes() []string {
	return s.classes
}

// List runs the filter → sort → paginate pipeline over the collection and
// aggregates authors and the tag cloud over the unfiltered set.
func (s *Service) List(_ context.Context, spec query.Spec) (*ListResult, error) {
	all, err := s.repo.AllNotes()
	if err != nil {
		return nil, err
	}

	filtered := query.Filter(all, spec, time.Now())
	sorted := query.Sort(filtered, spec.Sort)
	page := spec.Page
	if page < 1 {
		page = 1
	}
	slice, hasMore, total := query.Paginate(sorted, page, s.pageSize)

	authors, err := s.repo.DistinctAuthors()
	if err != nil {
		return nil, err
	}

	views := make([]NoteView, 0, len(slice))
	for _, n := range slice {
		v, err := s.buildView(n)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return &ListResult{
		Notes:    views,
		Total:    total,
		HasMore:  hasMore,
		Page:     page,
		Authors:  authors,
		TagCloud: query.TagCloud(all),
	}, nil
}

// Get returns a single note with its attachments.
func (s *Service) Get(_ context.Context, id int64) (*NoteView, error) {
	n, err := s.repo.GetNote(id)
	if err != nil {
		return nil, err
	}
	v, err := s.buildView(*n)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create persists a new note and its valid attachments. The note row is
// committed first so attachments can reference its id. Every file candidate
// is validated up front so a rejected upload leaves nothing persisted.
func (s *Service) Create(_ context.Context, draft NoteDraft, files []FileUpload, actor models.Principal) (*NoteView, error) {
	body := strings.TrimSpace(draft.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: body is required", apperr.ErrValidation)
	}
	class, err := s.resolveClass(draft.Class)
	if err != nil {
		return nil, err
	}
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}

	tagList, hashtags := tags.Extract(body, draft.RawTags)

	n := &models.Note{
		Author:    orDefault(draft.Author, defaultAuthor),
		Title:     orDefault(draft.Title, defaultTitle),
		Body:      body,
		ClassCode: class,
		Created:   time.Now(),
		Tags:      tagList,
		Hashtags:  hashtags,
		OwnerID:   actor.ID,
	}
	if _, err := s.repo.InsertNote(n); err != nil {
		return nil, err
	}

	for _, f := range files {
		if f.Filename == "" {
			continue
		}
		if _, err := s.atts.Store(n.ID, f.Filename, f.Data); err != nil {
			return nil, err
		}
	}

	s.publish("created", n.ID)
	return s.Get(context.Background(), n.ID)
}

// Edit updates a note in place. Empty delta fields preserve stored values;
// tags and hashtags are re-extracted from the effective body and tag input.
// The actor must own the note or be an admin.
func (s *Service) Edit(ctx context.Context, id int64, delta NoteDelta, filesToAdd []FileUpload, removeAttachmentIDs []int64, actor models.Principal) (*NoteView, error) {
	n, err := s.repo.GetNote(id)
	if err != nil {
		return nil, err
	}
	if !actor.CanModify(n) {
		return nil, apperr.ErrForbidden
	}
	if err := s.validateFiles(filesToAdd); err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(delta.Title); v != "" {
		n.Title = v
	}
	if v := strings.TrimSpace(delta.Body); v != "" {
		n.Body = v
	}
	if v := strings.TrimSpace(delta.Author); v != "" {
		n.Author = v
	}
	if delta.Class != "" {
		class, err := s.resolveClass(delta.Class)
		if err != nil {
			return nil, err
		}
		n.ClassCode = class
	}

	rawTags := delta.RawTags
	if rawTags == "" {
		rawTags = strings.Join(n.Tags, ", ")
	}
	n.Tags, n.Hashtags = tags.Extract(n.Body, rawTags)

	if err := s.repo.UpdateNote(n); err != nil {
		return nil, err
	}

	for _, attID := range removeAttachmentIDs {
		att, err := s.repo.GetAttachment(attID)
		if err != nil {
			return nil, err
		}
		if att.NoteID != id {
			return nil, apperr.ErrNotFound
		}
		if err := s.atts.Remove(attID); err != nil {
			return nil, err
		}
	}
	for _, f := range filesToAdd {
		if f.Filename == "" {
			continue
		}
		if _, err := s.atts.Store(id, f.Filename, f.Data); err != nil {
			return nil, err
		}
	}

	s.publish("updated", id)
	return s.Get(ctx, id)
}

// Delete removes a note after cascading its attachments: stored objects go
// first, then the records, then the note row.
func (s *Service) Delete(_ context.Context, id int64, actor models.Principal) error {
	n, err := s.repo.GetNote(id)
	if err != nil {
		return err
	}
	if !actor.CanModify(n) {
		return apperr.ErrForbidden
	}
	if err := s.atts.CascadeDelete(id); err != nil {
		return err
	}
	if err := s.repo.DeleteNote(id); err != nil {
		return err
	}
	s.publish("deleted", id)
	return nil
}

// Like increments the note's like counter.
func (s *Service) Like(_ context.Context, id int64) error {
	if err := s.repo.AddLike(id); err != nil {
		return err
	}
	s.publish("liked", id)
	return nil
}

// Comment appends a comment to the note.
func (s *Service) Comment(_ context.Context, id int64, draft CommentDraft) error {
	body := strings.TrimSpace(draft.Body)
	if body == "" {
		return fmt.Errorf("%w: comment body is required", apperr.ErrValidation)
	}
	c := models.Comment{
		Author:  orDefault(draft.Author, defaultAuthor),
		Body:    body,
		Created: time.Now(),
	}
	if err := s.repo.AddComment(id, c); err != nil {
		return err
	}
	s.publish("commented", id)
	return nil
}

// Download resolves an attachment to its bytes and presentation name.
func (s *Service) Download(_ context.Context, attachmentID int64) (*models.Attachment, []byte, error) {
	return s.atts.Resolve(attachmentID)
}

// Summarize produces an extractive summary of text.
func (s *Service) Summarize(_ context.Context, text string) (string, error) {
	return s.sum.Summarize(text)
}

func (s *Service) buildView(n models.Note) (NoteView, error) {
	atts, err := s.repo.AttachmentsForNote(n.ID)
	if err != nil {
		return NoteView{}, err
	}
	if atts == nil {
		atts = []models.Attachment{}
	}
	return NoteView{Note: n, Attachments: atts}, nil
}

// resolveClass maps the submitted class code to the stored one: empty means
// General, anything outside the configured enumeration is rejected.
func (s *Service) resolveClass(class string) (string, error) {
	if class == "" || class == defaultClass {
		return defaultClass, nil
	}
	for _, c := range s.classes {
		if c == class {
			return class, nil
		}
	}
	return "", fmt.Errorf("%w: unknown class %q", apperr.ErrValidation, class)
}

func (s *Service) validateFiles(files []FileUpload) error {
	for _, f := range files {
		if f.Filename == "" {
			continue
		}
		if !s.atts.Validate(f.Filename) {
			return fmt.Errorf("%w: file type of %q is not allowed", apperr.ErrValidation, f.Filename)
		}
	}
	return nil
}

func (s *Service) publish(kind string, id int64) {
	if s.events != nil {
		s.events.PublishNoteEvent(kind, id)
	}
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
