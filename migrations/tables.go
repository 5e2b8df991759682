package migrations

import (
	"context"
	"database/sql"
)

// createUsersTable creates the users table. Accounts are keyed by the
// email reported by Google; image always holds a string so profile
// rendering never deals with NULL.
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					email VARCHAR(255) NOT NULL,
					name VARCHAR(100) NOT NULL,
					image VARCHAR(512) NOT NULL DEFAULT '',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_email UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createCategoriesTable creates the categories table.
func createCategoriesTable() Migration {
	return Migration{
		Name:        "create_categories_table",
		Description: "Creates the categories table",
		TableName:   "categories",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS categories (
					category_id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_category_name UNIQUE (name)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createPlacesTable creates the places table. Visibility is constrained
// to the two supported states; deleting a category detaches its places
// rather than removing them.
func createPlacesTable() Migration {
	return Migration{
		Name:        "create_places_table",
		Description: "Creates the places table",
		TableName:   "places",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS places (
					place_id BIGSERIAL PRIMARY KEY,
					owner_id BIGINT NOT NULL,
					category_id BIGINT,
					title VARCHAR(200) NOT NULL,
					content TEXT NOT NULL,
					visibility VARCHAR(10) NOT NULL DEFAULT 'PRIVATE',
					is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_owner FOREIGN KEY (owner_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT fk_category FOREIGN KEY (category_id) REFERENCES categories(category_id) ON DELETE SET NULL,
					CONSTRAINT chk_visibility CHECK (visibility IN ('PRIVATE', 'PUBLIC'))
				);
				CREATE INDEX IF NOT EXISTS idx_places_owner_id ON places(owner_id);
				CREATE INDEX IF NOT EXISTS idx_places_visibility ON places(visibility);
				CREATE INDEX IF NOT EXISTS idx_places_created_at ON places(created_at);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createLikesTable creates the likes table. The unique pair constraint
// is the backstop that keeps a user's like on a place single even under
// concurrent toggles.
func createLikesTable() Migration {
	return Migration{
		Name:        "create_likes_table",
		Description: "Creates the likes table",
		TableName:   "likes",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS likes (
					like_id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					place_id BIGINT NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT fk_place FOREIGN KEY (place_id) REFERENCES places(place_id) ON DELETE CASCADE,
					CONSTRAINT idx_user_place UNIQUE (user_id, place_id)
				);
				CREATE INDEX IF NOT EXISTS idx_likes_place_id ON likes(place_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createNotesTable creates the notes table.
func createNotesTable() Migration {
	return Migration{
		Name:        "create_notes_table",
		Description: "Creates the notes table",
		TableName:   "notes",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS notes (
					note_id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					title VARCHAR(200) NOT NULL,
					content TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_notes_user_id ON notes(user_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createTagsTable creates the tags table.
func createTagsTable() Migration {
	return Migration{
		Name:        "create_tags_table",
		Description: "Creates the tags table",
		TableName:   "tags",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS tags (
					tag_id BIGSERIAL PRIMARY KEY,
					name VARCHAR(50) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_tag_name UNIQUE (name)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createPlaceTagsTable creates the join table between places and tags.
func createPlaceTagsTable() Migration {
	return Migration{
		Name:        "create_place_tags_table",
		Description: "Creates the place_tags join table",
		TableName:   "place_tags",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS place_tags (
					place_id BIGINT NOT NULL,
					tag_id BIGINT NOT NULL,
					PRIMARY KEY (place_id, tag_id),
					CONSTRAINT fk_pt_place FOREIGN KEY (place_id) REFERENCES places(place_id) ON DELETE CASCADE,
					CONSTRAINT fk_pt_tag FOREIGN KEY (tag_id) REFERENCES tags(tag_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_place_tags_tag_id ON place_tags(tag_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
