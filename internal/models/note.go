package models

import (
	"time"
)

// Note is a personal note attached to a user account. Notes are created
// through seeding and the admin table browser; the public API lists the
// caller's own notes.
type Note struct {
	ID        int64     `json:"id" db:"note_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the Note model.
func (n *Note) TableName() string {
	return "notes"
}
