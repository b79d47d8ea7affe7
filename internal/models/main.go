// Package models defines the core data structures for portfolio apps and skills.
package models

import "time"

// DefaultCategory is assigned to apps created without an explicit category.
const DefaultCategory = "web project"

// App represents one portfolio entry.
type App struct {
	// ID is the store-assigned identifier, immutable after creation.
	ID int64 `json:"id"`
	// Title is the display name of the project. Required.
	Title string `json:"title"`
	// Description is a free-text summary. May be empty.
	Description string `json:"description"`
	// URL is an optional link to the running project.
	URL string `json:"url,omitempty"`
	// GithubURL is an optional link to the source repository.
	GithubURL string `json:"github_url,omitempty"`
	// ImageURL references the preview image: either a public storage URL
	// or an inline data: URL.
	ImageURL string `json:"image_url,omitempty"`
	// TechStack is a free-text, comma-separated list of technologies.
	TechStack string `json:"tech_stack,omitempty"`
	// Category is a free-text label, defaulted to DefaultCategory.
	Category string `json:"category,omitempty"`
	// DevelopmentDate is a year-month string ("2024-01"). May be empty.
	DevelopmentDate string `json:"development_date,omitempty"`
	// DownloadURL references a downloadable build of the project.
	DownloadURL string `json:"download_url,omitempty"`
	// DownloadFilename is the original name of the downloadable file.
	DownloadFilename string `json:"download_filename,omitempty"`
	// DownloadFilesize is the size of the downloadable file in bytes.
	DownloadFilesize int64 `json:"download_filesize,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppUpdate carries a partial update for an App. Nil fields are left
// untouched on the stored record; updated_at is always refreshed.
type AppUpdate struct {
	Title            *string `json:"title,omitempty"`
	Description      *string `json:"description,omitempty"`
	URL              *string `json:"url,omitempty"`
	GithubURL        *string `json:"github_url,omitempty"`
	ImageURL         *string `json:"image_url,omitempty"`
	TechStack        *string `json:"tech_stack,omitempty"`
	Category         *string `json:"category,omitempty"`
	DevelopmentDate  *string `json:"development_date,omitempty"`
	DownloadURL      *string `json:"download_url,omitempty"`
	DownloadFilename *string `json:"download_filename,omitempty"`
	DownloadFilesize *int64  `json:"download_filesize,omitempty"`
}

// Apply merges the non-nil fields onto app.
func (u *AppUpdate) Apply(app *App) {
	if u.Title != nil {
		app.Title = *u.Title
	}
	if u.Description != nil {
		app.Description = *u.Description
	}
	if u.URL != nil {
		app.URL = *u.URL
	}
	if u.GithubURL != nil {
		app.GithubURL = *u.GithubURL
	}
	if u.ImageURL != nil {
		app.ImageURL = *u.ImageURL
	}
	if u.TechStack != nil {
		app.TechStack = *u.TechStack
	}
	if u.Category != nil {
		app.Category = *u.Category
	}
	if u.DevelopmentDate != nil {
		app.DevelopmentDate = *u.DevelopmentDate
	}
	if u.DownloadURL != nil {
		app.DownloadURL = *u.DownloadURL
	}
	if u.DownloadFilename != nil {
		app.DownloadFilename = *u.DownloadFilename
	}
	if u.DownloadFilesize != nil {
		app.DownloadFilesize = *u.DownloadFilesize
	}
}

// AppAssets holds the storage references of an App, fetched before the row
// is deleted so the blobs can be cleaned up afterwards.
type AppAssets struct {
	ImageURL    string
	DownloadURL string
}

// CleanupReport is the outcome of a best-effort asset cleanup. It is a
// report, not a pass/fail gate: the row deletion it accompanies has already
// succeeded by the time it is produced.
type CleanupReport struct {
	ImageDeleted bool     `json:"image_deleted"`
	FileDeleted  bool     `json:"file_deleted"`
	Errors       []string `json:"errors,omitempty"`
}

// DeleteOutcome reports the result of one id within a bulk delete.
type DeleteOutcome struct {
	ID      int64  `json:"id"`
	Deleted bool   `json:"deleted"`
	Error   string `json:"error,omitempty"`
}

// Skills is the client-side skills panel: four named lists of free-text
// entries, replaced atomically on save.
type Skills struct {
	Frontend []string `json:"frontend"`
	Backend  []string `json:"backend"`
	Database []string `json:"database"`
	Tools    []string `json:"tools"`
}
