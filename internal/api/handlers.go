package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starling/noteboard/internal/noteservice"
	"github.com/starling/noteboard/internal/query"
)

// Handler holds the API route handlers.
type Handler struct {
	svc      *noteservice.Service
	maxBytes int64
}

// NewHandler creates a Handler; maxBytes caps multipart request bodies.
func NewHandler(svc *noteservice.Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

func noteID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// specFrom builds the filter specification from the listing query string.
// Missing or malformed values fall back to the permissive defaults.
func specFrom(r *http.Request) query.Spec {
	q := r.URL.Query()
	spec := query.DefaultSpec()
	if v := q.Get("class"); v != "" {
		spec.Class = v
	}
	if v := q.Get("author"); v != "" {
		spec.Author = v
	}
	if v := q.Get("tag"); v != "" {
		spec.Tag = v
	}
	if v := q.Get("date"); v != "" {
		spec.Date = v
	}
	if v := q.Get("sort"); v != "" {
		spec.Sort = query.SortKey(v)
	}
	spec.Search = q.Get("search")
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		spec.Page = page
	}
	return spec
}

// ListNotes handles GET /notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.List(r.Context(), specFrom(r))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetNote handles GET /notes/{id}.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	note, err := h.svc.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// CreateNote handles POST /notes. Multipart submissions carry form fields
// plus "attachments" files; plain JSON bodies create a note without files.
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	req, files, err := h.parseNoteRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	draft := noteservice.NoteDraft{
		Author:  req.Author,
		Title:   req.Title,
		Body:    req.Body,
		Class:   req.Class,
		RawTags: req.Tags,
	}
	note, err := h.svc.Create(r.Context(), draft, files, PrincipalFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /notes/{id}. Accepts the same shapes as create,
// plus "remove_attachments" ids in multipart form values.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	req, files, err := h.parseNoteRequest(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	removeIDs, err := removeAttachmentIDs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	delta := noteservice.NoteDelta{
		Author:  req.Author,
		Title:   req.Title,
		Body:    req.Body,
		Class:   req.Class,
		RawTags: req.Tags,
	}
	note, err := h.svc.Edit(r.Context(), id, delta, files, removeIDs, PrincipalFrom(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id}.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.Delete(r.Context(), id, PrincipalFrom(r.Context())); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LikeNote handles POST /notes/{id}/like.
func (h *Handler) LikeNote(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if err := h.svc.Like(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddComment handles POST /notes/{id}/comments.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	id, err := noteID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.Comment(r.Context(), id, noteservice.CommentDraft{Author: req.Author, Body: req.Body}); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Download handles GET /attachments/{id}/download.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("invalid id %q", raw)))
		return
	}
	att, data, err := h.svc.Download(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(att.OriginalName))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.OriginalName))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Summarize handles POST /summarize.
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	summary, err := h.svc.Summarize(r.Context(), req.Text)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SummarizeResponse{Summary: summary})
}

// parseNoteRequest reads fields and file uploads from a multipart form, or
// fields alone from a JSON body.
func (h *Handler) parseNoteRequest(w http.ResponseWriter, r *http.Request) (NoteRequest, []noteservice.FileUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)

	ctype := r.Header.Get("Content-Type")
	if strings.HasPrefix(ctype, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			return NoteRequest{}, nil, fmt.Errorf("file too large or invalid multipart")
		}
		req := NoteRequest{
			Author: r.FormValue("author"),
			Title:  r.FormValue("title"),
			Body:   r.FormValue("body"),
			Class:  r.FormValue("class"),
			Tags:   r.FormValue("tags"),
		}
		var files []noteservice.FileUpload
		if r.MultipartForm != nil {
			for _, fh := range r.MultipartForm.File["attachments"] {
				f, err := fh.Open()
				if err != nil {
					return NoteRequest{}, nil, fmt.Errorf("read upload %s", fh.Filename)
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					return NoteRequest{}, nil, fmt.Errorf("read upload %s", fh.Filename)
				}
				files = append(files, noteservice.FileUpload{Filename: fh.Filename, Data: data})
			}
		}
		return req, files, nil
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return NoteRequest{}, nil, fmt.Errorf("invalid JSON body")
	}
	return req, nil, nil
}

// removeAttachmentIDs collects edit-time attachment removals from the
// "remove_attachments" form values (repeatable, or comma-separated).
func removeAttachmentIDs(r *http.Request) ([]int64, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var ids []int64
	for _, v := range r.MultipartForm.Value["remove_attachments"] {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid attachment id %q", part)
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
