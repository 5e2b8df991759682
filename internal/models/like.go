package models

import (
	"time"
)

// Like records one user liking one public place. The pair of user and
// place is unique, so toggling is a lookup followed by an insert or delete.
type Like struct {
	ID        int64     `json:"id" db:"like_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	PlaceID   int64     `json:"place_id" db:"place_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the Like model.
func (l *Like) TableName() string {
	return "likes"
}
