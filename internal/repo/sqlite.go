package repo

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starling/noteboard/internal/apperr"
	"github.com/starling/noteboard/internal/models"
)

// InsertNote persists n and returns the assigned id. SQLite's INTEGER
// PRIMARY KEY yields max(id)+1, which is the assignment rule the rest of
// the system assumes.
func (db *DB) InsertNote(n *models.Note) (int64, error) {
	tagsJSON, _ := json.Marshal(nonNil(n.Tags))
	hashJSON, _ := json.Marshal(nonNil(n.Hashtags))

	res, err := db.conn.Exec(`
		INSERT INTO notes (author, title, body, class_code, created, tags, hashtags, likes, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.Author, n.Title, n.Body, n.ClassCode, n.Created, string(tagsJSON), string(hashJSON), n.Likes, n.OwnerID)
	if err != nil {
		return 0, fmt.Errorf("repo: insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("repo: insert note id: %w", err)
	}
	n.ID = id
	return id, nil
}

// GetNote returns the note with comments loaded in chronological order.
func (db *DB) GetNote(id int64) (*models.Note, error) {
	row := db.conn.QueryRow(`
		SELECT id, author, title, body, class_code, created, tags, hashtags, likes, owner_id
		FROM notes WHERE id = ?
	`, id)
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("repo: get note: %w", err)
	}
	comments, err := db.commentsFor(id)
	if err != nil {
		return nil, err
	}
	n.Comments = comments
	return n, nil
}

// UpdateNote rewrites the mutable note fields.
func (db *DB) UpdateNote(n *models.Note) error {
	tagsJSON, _ := json.Marshal(nonNil(n.Tags))
	hashJSON, _ := json.Marshal(nonNil(n.Hashtags))

	res, err := db.conn.Exec(`
		UPDATE notes SET author = ?, title = ?, body = ?, class_code = ?, tags = ?, hashtags = ?
		WHERE id = ?
	`, n.Author, n.Title, n.Body, n.ClassCode, string(tagsJSON), string(hashJSON), n.ID)
	if err != nil {
		return fmt.Errorf("repo: update note: %w", err)
	}
	return requireRow(res)
}

// DeleteNote removes the note row; attachment and comment rows go with it
// via the foreign-key cascade.
func (db *DB) DeleteNote(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("repo: delete note: %w", err)
	}
	return requireRow(res)
}

// AllNotes returns every note with comments, ordered by id ascending.
func (db *DB) AllNotes() ([]models.Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, author, title, body, class_code, created, tags, hashtags, likes, owner_id
		FROM notes ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("repo: all notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	byID := make(map[int64]int)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("repo: scan note: %w", err)
		}
		byID[n.ID] = len(notes)
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	crows, err := db.conn.Query(`SELECT note_id, author, body, created FROM comments ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("repo: all comments: %w", err)
	}
	defer crows.Close()
	for crows.Next() {
		var noteID int64
		var c models.Comment
		if err := crows.Scan(&noteID, &c.Author, &c.Body, &c.Created); err != nil {
			return nil, fmt.Errorf("repo: scan comment: %w", err)
		}
		if i, ok := byID[noteID]; ok {
			notes[i].Comments = append(notes[i].Comments, c)
		}
	}
	return notes, crows.Err()
}

// DistinctAuthors returns unique author names sorted ascending.
func (db *DB) DistinctAuthors() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT author FROM notes ORDER BY author ASC`)
	if err != nil {
		return nil, fmt.Errorf("repo: distinct authors: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AddLike increments the like counter.
func (db *DB) AddLike(id int64) error {
	res, err := db.conn.Exec(`UPDATE notes SET likes = likes + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("repo: add like: %w", err)
	}
	return requireRow(res)
}

// AddComment appends a comment to the note.
func (db *DB) AddComment(noteID int64, c models.Comment) error {
	if _, err := db.GetNote(noteID); err != nil {
		return err
	}
	_, err := db.conn.Exec(`
		INSERT INTO comments (note_id, author, body, created) VALUES (?, ?, ?, ?)
	`, noteID, c.Author, c.Body, c.Created)
	if err != nil {
		return fmt.Errorf("repo: add comment: %w", err)
	}
	return nil
}

// InsertAttachment persists a and returns its assigned id.
func (db *DB) InsertAttachment(a *models.Attachment) (int64, error) {
	res, err := db.conn.Exec(`
		INSERT INTO attachments (note_id, filename, original_name, file_type, checksum, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, a.NoteID, a.Filename, a.OriginalName, a.FileType, a.Checksum, a.UploadedAt)
	if err != nil {
		return 0, fmt.Errorf("repo: insert attachment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("repo: insert attachment id: %w", err)
	}
	a.ID = id
	return id, nil
}

// GetAttachment returns a single attachment record.
func (db *DB) GetAttachment(id int64) (*models.Attachment, error) {
	var a models.Attachment
	err := db.conn.QueryRow(`
		SELECT id, note_id, filename, original_name, file_type, checksum, uploaded_at
		FROM attachments WHERE id = ?
	`, id).Scan(&a.ID, &a.NoteID, &a.Filename, &a.OriginalName, &a.FileType, &a.Checksum, &a.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("repo: get attachment: %w", err)
	}
	return &a, nil
}

// AttachmentsForNote returns the note's attachments in upload order.
func (db *DB) AttachmentsForNote(noteID int64) ([]models.Attachment, error) {
	rows, err := db.conn.Query(`
		SELECT id, note_id, filename, original_name, file_type, checksum, uploaded_at
		FROM attachments WHERE note_id = ? ORDER BY id ASC
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("repo: attachments for note: %w", err)
	}
	defer rows.Close()

	var out []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.NoteID, &a.Filename, &a.OriginalName, &a.FileType, &a.Checksum, &a.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAttachment removes a single attachment record.
func (db *DB) DeleteAttachment(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("repo: delete attachment: %w", err)
	}
	return requireRow(res)
}

func (db *DB) commentsFor(noteID int64) ([]models.Comment, error) {
	rows, err := db.conn.Query(`
		SELECT author, body, created FROM comments WHERE note_id = ? ORDER BY id ASC
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("repo: comments for note: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.Author, &c.Body, &c.Created); err != nil {
			return nil, fmt.Errorf("repo: scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*models.Note, error) {
	var n models.Note
	var tagsJSON, hashJSON string
	err := row.Scan(&n.ID, &n.Author, &n.Title, &n.Body, &n.ClassCode, &n.Created,
		&tagsJSON, &hashJSON, &n.Likes, &n.OwnerID)
	if err != nil {
		return nil, err
	}
	_ = json.Unmarshal([]byte(tagsJSON), &n.Tags)
	_ = json.Unmarshal([]byte(hashJSON), &n.Hashtags)
	return &n, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
