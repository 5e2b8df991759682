package models

import (
	"time"
)

// Tag is a free-form label attachable to places through the place_tags
// join table.
type Tag struct {
	ID        int64     `json:"id" db:"tag_id"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=50"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the Tag model.
func (t *Tag) TableName() string {
	return "tags"
}

// PlaceTag links a place to a tag.
type PlaceTag struct {
	PlaceID int64 `json:"place_id" db:"place_id"`
	TagID   int64 `json:"tag_id" db:"tag_id"`
}
