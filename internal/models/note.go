// Package models defines the domain types for Noteboard.
package models

import "time"

// Note represents a user-authored post tied to a class.
type Note struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ClassCode string    `json:"class_code"`
	Created   time.Time `json:"created"`
	Tags      []string  `json:"tags"`
	Hashtags  []string  `json:"hashtags"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments"`
	OwnerID   string    `json:"owner_id,omitempty"`
}

// Comment is a free-form reply appended to a note. Comments are never
// edited or removed individually; they go away with the note.
type Comment struct {
	Author  string    `json:"author"`
	Body    string    `json:"body"`
	Created time.Time `json:"created"`
}

// Attachment is a file bound to exactly one note. Filename is the
// server-generated on-disk name; OriginalName is what the user uploaded.
type Attachment struct {
	ID           int64     `json:"id"`
	NoteID       int64     `json:"note_id"`
	Filename     string    `json:"-"`
	OriginalName string    `json:"original_name"`
	FileType     string    `json:"file_type"`
	Checksum     string    `json:"checksum"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// Principal is the authenticated actor attached to a request.
// An empty ID means anonymous.
type Principal struct {
	ID      string
	Name    string
	IsAdmin bool
}

// CanModify reports whether the principal may edit or delete the note.
// Notes without an owner are modifiable by anyone, matching the pre-auth
// deployments where ownership was not recorded.
func (p Principal) CanModify(n *Note) bool {
	if p.IsAdmin {
		return true
	}
	if n.OwnerID == "" {
		return true
	}
	return p.ID != "" && p.ID == n.OwnerID
}
