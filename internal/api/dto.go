package api

import "github.com/starling/noteboard/internal/noteservice"

// NoteRequest is the JSON body for creating or editing a note. Multipart
// submissions carry the same fields as form values plus "attachments"
// files and, on edit, "remove_attachments" ids.
type NoteRequest struct {
	Author string `json:"author"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Class  string `json:"class"`
	Tags   string `json:"tags"`
}

// CommentRequest is the JSON body for adding a comment.
type CommentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

// SummarizeRequest is the JSON body for the summarizer endpoint.
type SummarizeRequest struct {
	Text string `json:"text"`
}

// SummarizeResponse wraps the produced summary.
type SummarizeResponse struct {
	Summary string `json:"summary"`
}

// NoteView is the full note payload (aliased from the service layer).
type NoteView = noteservice.NoteView

// ListResponse is the listing payload (aliased from the service layer).
type ListResponse = noteservice.ListResult
