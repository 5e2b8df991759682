// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and column names. These constants ensure consistent and
// correct database access patterns throughout the application, reducing the risk
// of SQL errors and simplifying database schema changes.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers is the name of the table storing user account information.
	TableUsers = "users"

	// TablePlaces is the name of the table storing user-owned place records.
	TablePlaces = "places"

	// TableLikes is the name of the table storing per-user, per-place like markers.
	TableLikes = "likes"

	// TableNotes is the name of the table storing user-owned notes.
	TableNotes = "notes"

	// TableCategories is the name of the table storing place categories.
	TableCategories = "categories"

	// TableTags is the name of the table storing tags.
	TableTags = "tags"

	// TablePlaceTags is the name of the join table between places and tags.
	TablePlaceTags = "place_tags"
)

// Common Column Names define frequently used database column names.
const (
	// ColumnUserID is the primary key column of the users table.
	ColumnUserID = "user_id"

	// ColumnPlaceID is the primary key column of the places table.
	ColumnPlaceID = "place_id"

	// ColumnLikeID is the primary key column of the likes table.
	ColumnLikeID = "like_id"

	// ColumnNoteID is the primary key column of the notes table.
	ColumnNoteID = "note_id"

	// ColumnCategoryID is the primary key column of the categories table.
	ColumnCategoryID = "category_id"

	// ColumnTagID is the primary key column of the tags table.
	ColumnTagID = "tag_id"

	// ColumnOwnerID is the owner reference column on places and notes.
	ColumnOwnerID = "owner_id"
)

// Visibility values for places.
const (
	// VisibilityPrivate restricts a place to its owner.
	VisibilityPrivate = "PRIVATE"

	// VisibilityPublic lists a place to all users and makes it likeable.
	VisibilityPublic = "PUBLIC"
)
