package models

import (
	"time"

	"github.com/promesto/backend/internal/constants"
)

// Place represents a user-owned place card. Every place belongs to
// exactly one owner; visibility controls whether other users can see it.
type Place struct {
	ID         int64     `json:"id" db:"place_id"`
	OwnerID    int64     `json:"owner_id" db:"owner_id"`
	CategoryID *int64    `json:"category_id,omitempty" db:"category_id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Visibility string    `json:"visibility" db:"visibility"`
	IsFavorite bool      `json:"is_favorite" db:"is_favorite"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the Place model.
func (p *Place) TableName() string {
	return "places"
}

// IsPublic reports whether the place is visible to users other than its owner.
func (p *Place) IsPublic() bool {
	return p.Visibility == constants.VisibilityPublic
}

// IsOwnedBy reports whether the given user owns the place.
func (p *Place) IsOwnedBy(userID int64) bool {
	return p.OwnerID == userID
}

// PlaceForm carries the client-supplied fields for creating or updating
// a place.
type PlaceForm struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Content    string `json:"content" validate:"required,min=1,max=5000"`
	IsPublic   bool   `json:"is_public"`
	CategoryID *int64 `json:"category_id,omitempty" validate:"omitempty,min=1"`
}

// Visibility maps the form's public flag to a visibility value.
func (f *PlaceForm) Visibility() string {
	if f.IsPublic {
		return constants.VisibilityPublic
	}
	return constants.VisibilityPrivate
}

// VisibilityResult is the outcome of a visibility toggle.
type VisibilityResult struct {
	IsPublic bool `json:"is_public"`
}

// FavoriteResult is the outcome of a favorite toggle.
type FavoriteResult struct {
	IsFavorite bool `json:"is_favorite"`
}

// PlaceWithLikes is a place joined with its like aggregate. LikedByViewer
// reflects the requesting user and is always false for anonymous viewers.
type PlaceWithLikes struct {
	Place
	Owner         UserSummary `json:"owner"`
	LikesCount    int         `json:"likes_count"`
	LikedByViewer bool        `json:"liked_by_viewer"`
}

// LikeResult is the outcome of a like toggle: the viewer's new state and
// a freshly counted total, read after the mutation.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}
