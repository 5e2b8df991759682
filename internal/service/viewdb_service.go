// This file implements the admin table browser: metadata-driven CRUD over
// a fixed set of tables on two named database targets. A static registry
// maps each table key to its column metadata, which drives both the
// generated list columns and the generated SQL, so only enumerated tables
// and columns are ever touched. Every call is bounded by a query timeout
// that surfaces as a distinguished error.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/promesto/backend/internal/config"
	"github.com/promesto/backend/internal/constants"
	"github.com/promesto/backend/internal/database"
	"github.com/promesto/backend/internal/utils"
)

// Field types understood by the table browser's generated forms.
const (
	FieldString   = "string"
	FieldNumber   = "number"
	FieldDatetime = "datetime"
	FieldEnum     = "enum"
)

// FieldMeta describes one editable column of a browsable table.
type FieldMeta struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Type       string   `json:"type"`
	Required   bool     `json:"required"`
	EnumValues []string `json:"enum_values,omitempty"`
}

// TableMeta describes one browsable table: its primary key column and the
// columns exposed to the browser.
type TableMeta struct {
	Key      string      `json:"key"`
	Label    string      `json:"label"`
	IDColumn string      `json:"id_column"`
	Fields   []FieldMeta `json:"fields"`
}

// tableRegistry enumerates every table the browser may touch. Only keys
// and columns listed here ever reach generated SQL.
var tableRegistry = []TableMeta{
	{
		Key:      constants.TableUsers,
		Label:    "Users",
		IDColumn: constants.ColumnUserID,
		Fields: []FieldMeta{
			{Key: "email", Label: "Email", Type: FieldString, Required: true},
			{Key: "name", Label: "Name", Type: FieldString, Required: true},
			{Key: "image", Label: "Avatar URL", Type: FieldString},
			{Key: "created_at", Label: "Created", Type: FieldDatetime},
			{Key: "updated_at", Label: "Updated", Type: FieldDatetime},
		},
	},
	{
		Key:      constants.TablePlaces,
		Label:    "Places",
		IDColumn: constants.ColumnPlaceID,
		Fields: []FieldMeta{
			{Key: "owner_id", Label: "Owner", Type: FieldNumber, Required: true},
			{Key: "category_id", Label: "Category", Type: FieldNumber},
			{Key: "title", Label: "Title", Type: FieldString, Required: true},
			{Key: "content", Label: "Content", Type: FieldString, Required: true},
			{Key: "visibility", Label: "Visibility", Type: FieldEnum, Required: true,
				EnumValues: []string{constants.VisibilityPrivate, constants.VisibilityPublic}},
			{Key: "is_favorite", Label: "Favorite", Type: FieldEnum,
				EnumValues: []string{"false", "true"}},
			{Key: "created_at", Label: "Created", Type: FieldDatetime},
			{Key: "updated_at", Label: "Updated", Type: FieldDatetime},
		},
	},
	{
		Key:      constants.TableLikes,
		Label:    "Likes",
		IDColumn: constants.ColumnLikeID,
		Fields: []FieldMeta{
			{Key: "user_id", Label: "User", Type: FieldNumber, Required: true},
			{Key: "place_id", Label: "Place", Type: FieldNumber, Required: true},
			{Key: "created_at", Label: "Created", Type: FieldDatetime},
		},
	},
	{
		Key:      constants.TableNotes,
		Label:    "Notes",
		IDColumn: constants.ColumnNoteID,
		Fields: []FieldMeta{
			{Key: "user_id", Label: "User", Type: FieldNumber, Required: true},
			{Key: "title", Label: "Title", Type: FieldString, Required: true},
			{Key: "content", Label: "Content", Type: FieldString},
			{Key: "created_at", Label: "Created", Type: FieldDatetime},
			{Key: "updated_at", Label: "Updated", Type: FieldDatetime},
		},
	},
	{
		Key:      constants.TableCategories,
		Label:    "Categories",
		IDColumn: constants.ColumnCategoryID,
		Fields: []FieldMeta{
			{Key: "name", Label: "Name", Type: FieldString, Required: true},
			{Key: "created_at", Label: "Created", Type: FieldDatetime},
		},
	},
	{
		Key:      constants.TableTags,
		Label:    "Tags",
		IDColumn: constants.ColumnTagID,
		Fields: []FieldMeta{
			{Key: "name", Label: "Name", Type: FieldString, Required: true},
			{Key: "created_at", Label: "Created", Type: FieldDatetime},
		},
	},
}

// ViewDBService serves the admin table browser over the configured
// database targets.
type ViewDBService struct {
	targets map[string]*config.DatabaseSettings
	tables  map[string]*TableMeta

	// open is swappable so tests can inject sqlmock-backed pools
	open func(*config.DatabaseSettings) (*database.Pool, error)

	mu    sync.Mutex
	pools map[string]*database.Pool
}

// NewViewDBService creates a ViewDBService with the two named targets
// from configuration. Target pools are opened lazily on first use and
// cached for the life of the process.
func NewViewDBService(cfg *config.AppConfig) *ViewDBService {
	tables := make(map[string]*TableMeta, len(tableRegistry))
	for i := range tableRegistry {
		tables[tableRegistry[i].Key] = &tableRegistry[i]
	}

	return &ViewDBService{
		targets: map[string]*config.DatabaseSettings{
			constants.ViewDBTargetLocal:      &cfg.LocalDatabase,
			constants.ViewDBTargetProduction: &cfg.Database,
		},
		tables: tables,
		open:   database.Open,
		pools:  make(map[string]*database.Pool),
	}
}

// ListTables returns the metadata of every browsable table for a target.
func (s *ViewDBService) ListTables(target string) ([]TableMeta, error) {
	if _, err := s.targetSettings(target); err != nil {
		return nil, err
	}
	return tableRegistry, nil
}

// ListRows returns one page of rows from a browsable table, newest rows
// first, along with the total count.
func (s *ViewDBService) ListRows(ctx context.Context, target, table string, page, pageSize int) ([]map[string]interface{}, int, error) {
	meta, pool, err := s.resolve(target, table)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ViewDBQueryTimeout)
	defer cancel()

	// Total count
	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", meta.Key)
	if err := pool.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, s.wrapError(target, table, err)
	}

	// Page of rows
	columns := append([]string{meta.IDColumn}, fieldKeys(meta)...)
	query := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY %s DESC LIMIT $1 OFFSET $2",
		strings.Join(columns, ", "), meta.Key, meta.IDColumn,
	)

	rows, err := pool.QueryContext(ctx, query, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, s.wrapError(target, table, err)
	}
	defer rows.Close()

	result := make([]map[string]interface{}, 0, pageSize)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan row from %s: %w", meta.Key, err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			// Drivers hand text columns back as []byte
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, s.wrapError(target, table, err)
	}

	return result, total, nil
}

// CreateRow inserts a row built from the given field values and returns
// its new ID.
func (s *ViewDBService) CreateRow(ctx context.Context, target, table string, values map[string]interface{}) (int64, error) {
	meta, pool, err := s.resolve(target, table)
	if err != nil {
		return 0, err
	}

	if err := validateRowValues(meta, values, true); err != nil {
		return 0, err
	}

	columns, args := boundFields(meta, values)
	if len(columns) == 0 {
		return 0, utils.NewBadRequestError("No known fields provided")
	}

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		meta.Key, strings.Join(columns, ", "), strings.Join(placeholders, ", "), meta.IDColumn,
	)

	ctx, cancel := context.WithTimeout(ctx, constants.ViewDBQueryTimeout)
	defer cancel()

	var id int64
	if err := pool.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, s.wrapError(target, table, err)
	}

	log.Info().
		Str("target", target).
		Str("table", table).
		Int64("row_id", id).
		Msg("Table browser row created")

	return id, nil
}

// UpdateRow rewrites the given fields of a row.
func (s *ViewDBService) UpdateRow(ctx context.Context, target, table string, id int64, values map[string]interface{}) error {
	meta, pool, err := s.resolve(target, table)
	if err != nil {
		return err
	}

	if err := validateRowValues(meta, values, false); err != nil {
		return err
	}

	columns, args := boundFields(meta, values)
	if len(columns) == 0 {
		return utils.NewBadRequestError("No known fields provided")
	}

	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		meta.Key, strings.Join(assignments, ", "), meta.IDColumn, len(args),
	)

	ctx, cancel := context.WithTimeout(ctx, constants.ViewDBQueryTimeout)
	defer cancel()

	result, err := pool.ExecContext(ctx, query, args...)
	if err != nil {
		return s.wrapError(target, table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Row", id)
	}

	log.Info().
		Str("target", target).
		Str("table", table).
		Int64("row_id", id).
		Msg("Table browser row updated")

	return nil
}

// DeleteRow removes a row by ID.
func (s *ViewDBService) DeleteRow(ctx context.Context, target, table string, id int64) error {
	meta, pool, err := s.resolve(target, table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", meta.Key, meta.IDColumn)

	ctx, cancel := context.WithTimeout(ctx, constants.ViewDBQueryTimeout)
	defer cancel()

	result, err := pool.ExecContext(ctx, query, id)
	if err != nil {
		return s.wrapError(target, table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return utils.NewNotFoundError("Row", id)
	}

	log.Info().
		Str("target", target).
		Str("table", table).
		Int64("row_id", id).
		Msg("Table browser row deleted")

	return nil
}

// targetSettings validates a target name.
func (s *ViewDBService) targetSettings(target string) (*config.DatabaseSettings, error) {
	settings, ok := s.targets[target]
	if !ok {
		return nil, utils.NewNotFoundError("Database target", target)
	}
	if !settings.IsConfigured() {
		return nil, utils.NewBadRequestError(fmt.Sprintf("Database target '%s' is not configured", target))
	}
	return settings, nil
}

// resolve validates the target and table and returns the table metadata
// with the target's pool.
func (s *ViewDBService) resolve(target, table string) (*TableMeta, *database.Pool, error) {
	settings, err := s.targetSettings(target)
	if err != nil {
		return nil, nil, err
	}

	meta, ok := s.tables[table]
	if !ok {
		return nil, nil, utils.NewNotFoundError("Table", table)
	}

	pool, err := s.pool(target, settings)
	if err != nil {
		return nil, nil, err
	}

	return meta, pool, nil
}

// pool returns the cached connection pool for a target, opening it on
// first use. Opening does not ping; a dead target surfaces as a query
// timeout instead.
func (s *ViewDBService) pool(target string, settings *config.DatabaseSettings) (*database.Pool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pool, ok := s.pools[target]; ok {
		return pool, nil
	}

	pool, err := s.open(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to open target %s: %w", target, err)
	}

	s.pools[target] = pool
	return pool, nil
}

// Close releases every cached target pool.
func (s *ViewDBService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for target, pool := range s.pools {
		pool.Close()
		delete(s.pools, target)
	}
}

// wrapError classifies a table browser failure. Deadline expiry becomes
// the distinguished timeout error pointing at target configuration;
// everything else keeps its cause.
func (s *ViewDBService) wrapError(target, table string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		log.Error().
			Str("target", target).
			Str("table", table).
			Msg("Table browser query timed out")
		return utils.NewTimeoutError(constants.MsgViewDBTimeout, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return utils.NewNotFoundError("Row", table)
	}
	return utils.ParseError(err)
}

// fieldKeys returns the column keys of a table's fields.
func fieldKeys(meta *TableMeta) []string {
	keys := make([]string, len(meta.Fields))
	for i, f := range meta.Fields {
		keys[i] = f.Key
	}
	return keys
}

// boundFields filters the submitted values down to known columns,
// preserving registry order so generated SQL is deterministic.
func boundFields(meta *TableMeta, values map[string]interface{}) ([]string, []interface{}) {
	var columns []string
	var args []interface{}
	for _, f := range meta.Fields {
		if v, ok := values[f.Key]; ok {
			columns = append(columns, f.Key)
			args = append(args, v)
		}
	}
	return columns, args
}

// validateRowValues checks submitted values against the field metadata.
// Creates require every required field; updates only validate the fields
// present. Enum fields must carry one of their declared values.
func validateRowValues(meta *TableMeta, values map[string]interface{}, create bool) error {
	for _, f := range meta.Fields {
		v, present := values[f.Key]

		if create && f.Required && (!present || v == nil || v == "") {
			return utils.NewValidationError(f.Key, "This field is required")
		}

		if !present || v == nil {
			continue
		}

		if f.Type == FieldEnum {
			str := fmt.Sprintf("%v", v)
			if !utils.ContainsString(f.EnumValues, str) {
				return utils.NewValidationError(f.Key,
					fmt.Sprintf("Must be one of: %s", utils.JoinStrings(f.EnumValues, ", ")))
			}
		}
	}
	return nil
}
