package models

import (
	"time"
)

// Category groups places into a browsable topic. Categories are shared
// across users and maintained through seeding and the admin table browser.
type Category struct {
	ID        int64     `json:"id" db:"category_id"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=100"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the Category model.
func (c *Category) TableName() string {
	return "categories"
}

// DefaultCategories returns the starter categories seeded into a fresh
// database.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Nature"},
		{Name: "Food & Drink"},
		{Name: "Culture"},
		{Name: "Nightlife"},
		{Name: "Hidden Gems"},
	}
}
