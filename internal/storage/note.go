package storage

import (
	"errors"
	"time"
)

// ErrNoteNotFound is returned when no note has the requested ID.
var ErrNoteNotFound = errors.New("note not found")

// Note is a stored envelope
type Note struct {
	ID       string    `json:"id"`
	Envelope string    `json:"encryptedData"`
	Created  time.Time `json:"createdAt"`
	Updated  time.Time `json:"updatedAt"`
}

// NewNote creates a note for an envelope with both timestamps set to now
func NewNote(id, envelope string) Note {
	now := time.Now().UTC()
	return Note{
		ID:       id,
		Envelope: envelope,
		Created:  now,
		Updated:  now,
	}
}
