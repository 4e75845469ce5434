package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starling/noteboard/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced; resolve maps
// tokens to principals. sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *noteservice.Service, maxUploadBytes int64, authEnabled bool, resolve Resolver, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, maxUploadBytes)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, resolve))

	// Notes CRUD and reactions.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Post("/notes/{id}/like", h.LikeNote)
	r.Post("/notes/{id}/comments", h.AddComment)

	// Attachment download.
	r.Get("/attachments/{id}/download", h.Download)

	// Summarizer.
	r.Post("/summarize", h.Summarize)

	// SSE endpoint (protected by the same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
