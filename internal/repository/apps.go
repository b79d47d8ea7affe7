// Package repository provides persistence implementations for the portfolio
// services using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/deokslife/portfolio-api/internal/models"
	"github.com/lib/pq"
)

// appColumns is the column list shared by every App select.
const appColumns = `id, title, description, url, github_url, image_url, tech_stack,
		category, COALESCE(development_date, ''), download_url, download_filename,
		download_filesize, created_at, updated_at`

// PostgresAppRepository implements portfolio app persistence against a
// PostgreSQL database.
type PostgresAppRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAppRepository creates a new PostgresAppRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresAppRepository(db *sql.DB) *PostgresAppRepository {
	return &PostgresAppRepository{DB: db}
}

// scanApp scans one apps row in appColumns order.
func scanApp(row interface{ Scan(...any) error }) (*models.App, error) {
	var app models.App
	err := row.Scan(
		&app.ID, &app.Title, &app.Description, &app.URL, &app.GithubURL,
		&app.ImageURL, &app.TechStack, &app.Category, &app.DevelopmentDate,
		&app.DownloadURL, &app.DownloadFilename, &app.DownloadFilesize,
		&app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// devDate maps an empty development date to NULL so the NULLS LAST
// ordering keeps undated apps at the bottom of the list.
func devDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// List returns every app ordered by development date descending (undated
// apps last), tiebroken by creation time descending.
func (r *PostgresAppRepository) List(ctx context.Context) ([]models.App, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+appColumns+` FROM apps
		ORDER BY development_date DESC NULLS LAST, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var apps []models.App
	for rows.Next() {
		app, err := scanApp(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// GetByID fetches a single app by id. Returns sql.ErrNoRows if absent.
func (r *PostgresAppRepository) GetByID(ctx context.Context, id int64) (*models.App, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+appColumns+` FROM apps WHERE id = $1
	`, id)
	return scanApp(row)
}

// Create inserts a new app and returns the stored record with its assigned
// id and timestamps.
func (r *PostgresAppRepository) Create(ctx context.Context, app *models.App) (*models.App, error) {
	stored := *app
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO apps (title, description, url, github_url, image_url, tech_stack,
			category, development_date, download_url, download_filename, download_filesize)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`, app.Title, app.Description, app.URL, app.GithubURL, app.ImageURL, app.TechStack,
		app.Category, devDate(app.DevelopmentDate), app.DownloadURL,
		app.DownloadFilename, app.DownloadFilesize,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}
	return &stored, nil
}

// Update writes every mutable column of app and refreshes updated_at.
// Returns sql.ErrNoRows if the id does not exist.
func (r *PostgresAppRepository) Update(ctx context.Context, app *models.App) (*models.App, error) {
	stored := *app
	err := r.DB.QueryRowContext(ctx, `
		UPDATE apps SET title = $1, description = $2, url = $3, github_url = $4,
			image_url = $5, tech_stack = $6, category = $7, development_date = $8,
			download_url = $9, download_filename = $10, download_filesize = $11,
			updated_at = now()
		WHERE id = $12
		RETURNING updated_at
	`, app.Title, app.Description, app.URL, app.GithubURL, app.ImageURL,
		app.TechStack, app.Category, devDate(app.DevelopmentDate), app.DownloadURL,
		app.DownloadFilename, app.DownloadFilesize, app.ID,
	).Scan(&stored.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetAssets fetches the storage URLs of an app. Called before Delete so the
// blobs can still be cleaned up once the row is gone.
func (r *PostgresAppRepository) GetAssets(ctx context.Context, id int64) (*models.AppAssets, error) {
	var assets models.AppAssets
	err := r.DB.QueryRowContext(ctx, `
		SELECT image_url, download_url FROM apps WHERE id = $1
	`, id).Scan(&assets.ImageURL, &assets.DownloadURL)
	if err != nil {
		return nil, err
	}
	return &assets, nil
}

// GetAssetsByIDs fetches the storage URLs for a set of apps in one query.
func (r *PostgresAppRepository) GetAssetsByIDs(ctx context.Context, ids []int64) (map[int64]models.AppAssets, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, image_url, download_url FROM apps WHERE id = ANY($1)
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("GetAssetsByIDs: %w", err)
	}
	defer rows.Close()

	assets := make(map[int64]models.AppAssets, len(ids))
	for rows.Next() {
		var id int64
		var a models.AppAssets
		if err := rows.Scan(&id, &a.ImageURL, &a.DownloadURL); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		assets[id] = a
	}
	return assets, rows.Err()
}

// Delete removes the app row. Returns sql.ErrNoRows if the id does not exist.
func (r *PostgresAppRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM apps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
