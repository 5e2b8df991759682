package migrations

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promesto/backend/internal/database"
)

func newTestMigrator(t *testing.T) (*Migrator, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return NewMigrator(&database.Pool{DB: mockDB}), mock
}

func expectTableExists(mock sqlmock.Sqlmock, table string, exists bool) {
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestGetMigrations(t *testing.T) {
	migrations := GetMigrations()

	require.Len(t, migrations, 7)

	tables := make([]string, len(migrations))
	for i, m := range migrations {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.TableName)
		assert.NotNil(t, m.RunSQL)
		tables[i] = m.TableName
	}

	// Dependency order: referenced tables come before their referrers
	assert.Equal(t, []string{"users", "categories", "places", "likes", "notes", "tags", "place_tags"}, tables)
}

func TestRunMigrations(t *testing.T) {
	t.Run("UpToDateDatabaseRunsNothing", func(t *testing.T) {
		migrator, mock := newTestMigrator(t)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		migrations := GetMigrations()
		for _, m := range migrations {
			expectTableExists(mock, m.TableName, true)
		}

		nameRows := sqlmock.NewRows([]string{"name"})
		for _, m := range migrations {
			nameRows.AddRow(m.Name)
		}
		mock.ExpectQuery("SELECT name FROM migrations").WillReturnRows(nameRows)

		// is_favorite column check
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := migrator.RunMigrations(context.Background())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissingTableIsCreated", func(t *testing.T) {
		migrator, mock := newTestMigrator(t)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		migrations := GetMigrations()
		for _, m := range migrations {
			if m.TableName == "notes" {
				expectTableExists(mock, m.TableName, false)

				mock.ExpectBegin()
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS notes").
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec("INSERT INTO migrations").
					WithArgs(m.Name, m.Description).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			} else {
				expectTableExists(mock, m.TableName, true)
			}
		}

		nameRows := sqlmock.NewRows([]string{"name"})
		for _, m := range migrations {
			nameRows.AddRow(m.Name)
		}
		mock.ExpectQuery("SELECT name FROM migrations").WillReturnRows(nameRows)

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := migrator.RunMigrations(context.Background())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ExistingUnrecordedTableIsRecorded", func(t *testing.T) {
		migrator, mock := newTestMigrator(t)

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
			WillReturnResult(sqlmock.NewResult(0, 0))

		migrations := GetMigrations()
		for _, m := range migrations {
			expectTableExists(mock, m.TableName, true)
		}

		// Every migration is recorded except the tags table
		nameRows := sqlmock.NewRows([]string{"name"})
		for _, m := range migrations {
			if m.TableName != "tags" {
				nameRows.AddRow(m.Name)
			}
		}
		mock.ExpectQuery("SELECT name FROM migrations").WillReturnRows(nameRows)

		expectTableExists(mock, "tags", true)
		mock.ExpectExec("INSERT INTO migrations").
			WithArgs("create_tags_table", "Creates the tags table").
			WillReturnResult(sqlmock.NewResult(1, 1))

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := migrator.RunMigrations(context.Background())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsurePlaceFavoriteColumn(t *testing.T) {
	t.Run("MissingColumnIsAdded", func(t *testing.T) {
		migrator, mock := newTestMigrator(t)

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec("ALTER TABLE places ADD COLUMN is_favorite").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := migrator.ensurePlaceFavoriteColumn(context.Background())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PresentColumnIsLeftAlone", func(t *testing.T) {
		migrator, mock := newTestMigrator(t)

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := migrator.ensurePlaceFavoriteColumn(context.Background())
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunMigrationRollsBackOnFailure(t *testing.T) {
	migrator, mock := newTestMigrator(t)

	migration := createNotesTable()

	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS notes").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := migrator.runMigration(context.Background(), migration)
	require.Error(t, err)
	assert.Contains(t, err.Error(), migration.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
