// Package repository provides persistence implementations for admin settings.
package repository

import (
	"context"
	"database/sql"
)

// passwordKey is the admin_settings row holding the canonical admin secret.
const passwordKey = "admin_password"

// PostgresSettingsRepository implements the canonical credential store
// backed by the single-row-per-key admin_settings table.
type PostgresSettingsRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSettingsRepository creates a new PostgresSettingsRepository with
// the given database connection.
func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{DB: db}
}

// GetPassword reads the canonical admin password. Returns sql.ErrNoRows when
// the row has never been written.
func (r *PostgresSettingsRepository) GetPassword(ctx context.Context) (string, error) {
	var value string
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT setting_value FROM admin_settings WHERE setting_key = $1`,
		passwordKey,
	).Scan(&value)
	return value, err
}

// SetPassword persists the canonical admin password, creating the row on
// first write.
func (r *PostgresSettingsRepository) SetPassword(ctx context.Context, password string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO admin_settings (setting_key, setting_value) VALUES ($1, $2)
		 ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value`,
		passwordKey, password,
	)
	return err
}
