package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saccokit/sacco-backoffice/internal/apperrors"
	"github.com/saccokit/sacco-backoffice/internal/model"
)

// SettingRepository provides data access methods for the sacco_setting
// key/value table.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository with the provided database connection.
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// GetSettings retrieves all settings ordered by key.
func (r *SettingRepository) GetSettings(ctx context.Context) ([]model.Setting, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, "key", value, updated_at FROM sacco_setting ORDER BY "key"`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sacco_setting table: %w", err)
	}
	defer rows.Close()

	settings := []model.Setting{}
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sacco_setting table: %w", err)
	}

	return settings, nil
}

// GetSetting retrieves one setting by key.
func (r *SettingRepository) GetSetting(ctx context.Context, key string) (model.Setting, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, "key", value, updated_at FROM sacco_setting WHERE "key" = ?`, key,
	)

	s, err := scanSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Setting{}, apperrors.ErrSettingNotFound
	}
	if err != nil {
		return model.Setting{}, err
	}
	return s, nil
}

// UpsertSetting inserts or replaces a setting value.
func (r *SettingRepository) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sacco_setting (id, "key", value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		uuid.New().String(), key, value, FormatDateTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

func scanSetting(row interface{ Scan(...any) error }) (model.Setting, error) {
	var s model.Setting
	var updatedAtStr sql.NullString

	if err := row.Scan(&s.ID, &s.Key, &s.Value, &updatedAtStr); err != nil {
		return model.Setting{}, err
	}
	if updatedAtStr.Valid {
		t, err := ParseTime(updatedAtStr.String)
		if err != nil {
			return model.Setting{}, err
		}
		s.UpdatedAt = &t
	}
	return s, nil
}
