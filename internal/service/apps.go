package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deokslife/portfolio-api/internal/models"
	"go.uber.org/zap"
)

// AppRepository defines the persistence operations needed by the AppService.
type AppRepository interface {
	// List returns every app in display order.
	List(ctx context.Context) ([]models.App, error)
	// GetByID fetches a single app, returning sql.ErrNoRows if absent.
	GetByID(ctx context.Context, id int64) (*models.App, error)
	// Create inserts an app and returns the stored record.
	Create(ctx context.Context, app *models.App) (*models.App, error)
	// Update writes every mutable column and refreshes updated_at.
	Update(ctx context.Context, app *models.App) (*models.App, error)
	// GetAssets fetches the storage URLs of an app.
	GetAssets(ctx context.Context, id int64) (*models.AppAssets, error)
	// GetAssetsByIDs fetches storage URLs for several apps at once.
	GetAssetsByIDs(ctx context.Context, ids []int64) (map[int64]models.AppAssets, error)
	// Delete removes the app row, returning sql.ErrNoRows if absent.
	Delete(ctx context.Context, id int64) error
}

// Authorizer gates mutating operations on the admin password.
type Authorizer interface {
	Authorize(ctx context.Context, candidate string) error
}

// AssetCleaner removes the blobs referenced by a deleted app.
type AssetCleaner interface {
	DeleteAppAssets(ctx context.Context, imageURL, downloadURL string) models.CleanupReport
}

// AppService implements the portfolio CRUD business logic. Deletes fetch the
// record's asset URLs first, remove the row, and then clean up the blobs
// best-effort; cleanup outcomes never affect the delete result.
type AppService struct {
	repo    AppRepository
	gate    Authorizer
	cleaner AssetCleaner
	log     *zap.Logger
}

// NewAppService constructs an AppService with the provided collaborators.
func NewAppService(repo AppRepository, gate Authorizer, cleaner AssetCleaner, log *zap.Logger) *AppService {
	return &AppService{repo: repo, gate: gate, cleaner: cleaner, log: log}
}

// List returns every app ordered for display. Public, no gate.
func (s *AppService) List(ctx context.Context) ([]models.App, error) {
	return s.repo.List(ctx)
}

// Create validates and persists a new app. Caller-supplied id and timestamps
// are discarded; the category defaults when absent.
func (s *AppService) Create(ctx context.Context, app *models.App, password string) (*models.App, error) {
	if err := s.gate.Authorize(ctx, password); err != nil {
		return nil, err
	}

	if strings.TrimSpace(app.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	toStore := *app
	toStore.ID = 0
	toStore.CreatedAt = time.Time{}
	toStore.UpdatedAt = time.Time{}
	if toStore.Category == "" {
		toStore.Category = models.DefaultCategory
	}

	return s.repo.Create(ctx, &toStore)
}

// Update merges the non-nil fields of upd onto the stored record and
// refreshes its update time. Fields absent from upd are left untouched.
func (s *AppService) Update(ctx context.Context, id int64, upd *models.AppUpdate, password string) (*models.App, error) {
	if err := s.gate.Authorize(ctx, password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	upd.Apply(existing)
	if upd.Title != nil && strings.TrimSpace(existing.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return updated, nil
}

// Delete removes an app. The row deletion's success is independent of the
// asset cleanup that follows: cleanup failures are logged, never surfaced.
func (s *AppService) Delete(ctx context.Context, id int64, password string) error {
	if err := s.gate.Authorize(ctx, password); err != nil {
		return err
	}
	return s.deleteOne(ctx, id, nil)
}

// BulkDelete removes several apps, each independently. A missing or failing
// id never aborts the batch; outcomes are reported per id.
func (s *AppService) BulkDelete(ctx context.Context, ids []int64, password string) ([]models.DeleteOutcome, error) {
	if err := s.gate.Authorize(ctx, password); err != nil {
		return nil, err
	}

	// One round trip for all asset URLs; rows already gone simply have no entry.
	assets, err := s.repo.GetAssetsByIDs(ctx, ids)
	if err != nil {
		s.log.Warn("fetching assets for bulk delete failed", zap.Error(err))
		assets = nil
	}

	outcomes := make([]models.DeleteOutcome, 0, len(ids))
	for _, id := range ids {
		outcome := models.DeleteOutcome{ID: id, Deleted: true}
		var known *models.AppAssets
		if a, ok := assets[id]; ok {
			known = &a
		}
		if err := s.deleteOne(ctx, id, known); err != nil {
			outcome.Deleted = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// deleteOne removes one row and then cleans up its blobs. assets may be
// pre-fetched; when nil they are looked up before the row goes away.
func (s *AppService) deleteOne(ctx context.Context, id int64, assets *models.AppAssets) error {
	if assets == nil {
		a, err := s.repo.GetAssets(ctx, id)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			// The row may still be deletable; cleanup is skipped.
			s.log.Warn("fetching assets before delete failed", zap.Int64("id", id), zap.Error(err))
		}
		assets = a
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if assets != nil {
		report := s.cleaner.DeleteAppAssets(ctx, assets.ImageURL, assets.DownloadURL)
		for _, msg := range report.Errors {
			s.log.Error("asset cleanup failed", zap.Int64("id", id), zap.String("error", msg))
		}
	}
	return nil
}
