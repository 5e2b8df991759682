// Package models defines the data structures used throughout the ProMesto API.
package models

import (
	"time"
)

// User represents a registered user of the ProMesto application.
// Accounts are created through Google sign-in, so there is no local
// password; the email is the stable identity key.
type User struct {
	ID        int64     `json:"id" db:"user_id"`
	Email     string    `json:"email" db:"email" validate:"required,email"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=100"`
	Image     string    `json:"image,omitempty" db:"image"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User instance from a verified identity profile.
func NewUser(email, name, image string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Name:      name,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return "users"
}

// UserSummary is the public projection of a user attached to shared
// resources such as public places.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Image: u.Image,
	}
}
