package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/deokslife/portfolio-api/internal/models"
	"github.com/deokslife/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type mockAppRepo struct {
	ListFunc           func(ctx context.Context) ([]models.App, error)
	GetByIDFunc        func(ctx context.Context, id int64) (*models.App, error)
	CreateFunc         func(ctx context.Context, app *models.App) (*models.App, error)
	UpdateFunc         func(ctx context.Context, app *models.App) (*models.App, error)
	GetAssetsFunc      func(ctx context.Context, id int64) (*models.AppAssets, error)
	GetAssetsByIDsFunc func(ctx context.Context, ids []int64) (map[int64]models.AppAssets, error)
	DeleteFunc         func(ctx context.Context, id int64) error
}

func (m *mockAppRepo) List(ctx context.Context) ([]models.App, error) { return m.ListFunc(ctx) }
func (m *mockAppRepo) GetByID(ctx context.Context, id int64) (*models.App, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockAppRepo) Create(ctx context.Context, app *models.App) (*models.App, error) {
	return m.CreateFunc(ctx, app)
}
func (m *mockAppRepo) Update(ctx context.Context, app *models.App) (*models.App, error) {
	return m.UpdateFunc(ctx, app)
}
func (m *mockAppRepo) GetAssets(ctx context.Context, id int64) (*models.AppAssets, error) {
	return m.GetAssetsFunc(ctx, id)
}
func (m *mockAppRepo) GetAssetsByIDs(ctx context.Context, ids []int64) (map[int64]models.AppAssets, error) {
	return m.GetAssetsByIDsFunc(ctx, ids)
}
func (m *mockAppRepo) Delete(ctx context.Context, id int64) error { return m.DeleteFunc(ctx, id) }

// allowGate authorizes exactly one password.
type allowGate struct {
	password string
}

func (g *allowGate) Authorize(_ context.Context, candidate string) error {
	if candidate == "" {
		return service.ErrMissingCredential
	}
	if candidate != g.password {
		return service.ErrWrongCredential
	}
	return nil
}

// recordingCleaner records cleanup calls and returns a canned report.
type recordingCleaner struct {
	calls  []models.AppAssets
	report models.CleanupReport
}

func (c *recordingCleaner) DeleteAppAssets(_ context.Context, imageURL, downloadURL string) models.CleanupReport {
	c.calls = append(c.calls, models.AppAssets{ImageURL: imageURL, DownloadURL: downloadURL})
	return c.report
}

func newAppService(repo *mockAppRepo, cleaner *recordingCleaner) *service.AppService {
	return service.NewAppService(repo, &allowGate{password: "pw"}, cleaner, zap.NewNop())
}

func TestCreate_GateDenied(t *testing.T) {
	svc := newAppService(&mockAppRepo{}, &recordingCleaner{})

	_, err := svc.Create(context.Background(), &models.App{Title: "x"}, "wrong")
	if !errors.Is(err, service.ErrWrongCredential) {
		t.Fatalf("expected ErrWrongCredential, got %v", err)
	}

	_, err = svc.Create(context.Background(), &models.App{Title: "x"}, "")
	if !errors.Is(err, service.ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestCreate_TitleRequired(t *testing.T) {
	svc := newAppService(&mockAppRepo{}, &recordingCleaner{})

	_, err := svc.Create(context.Background(), &models.App{Title: "   "}, "pw")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreate_StripsCallerIdentityAndDefaultsCategory(t *testing.T) {
	var got *models.App
	repo := &mockAppRepo{
		CreateFunc: func(_ context.Context, app *models.App) (*models.App, error) {
			got = app
			stored := *app
			stored.ID = 10
			stored.CreatedAt = time.Now()
			stored.UpdatedAt = stored.CreatedAt
			return &stored, nil
		},
	}
	svc := newAppService(repo, &recordingCleaner{})

	in := &models.App{ID: 999, Title: "site", CreatedAt: time.Now().Add(-time.Hour)}
	created, err := svc.Create(context.Background(), in, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 0 || !got.CreatedAt.IsZero() {
		t.Errorf("caller-supplied identity not stripped: %+v", got)
	}
	if got.Category != models.DefaultCategory {
		t.Errorf("expected default category, got %q", got.Category)
	}
	if created.ID != 10 {
		t.Errorf("expected assigned id, got %d", created.ID)
	}
}

func TestUpdate_PartialMerge(t *testing.T) {
	existing := models.App{
		ID: 5, Title: "old title", Description: "keep me",
		TechStack: "Go, Postgres", Category: "web project",
	}
	var written *models.App
	repo := &mockAppRepo{
		GetByIDFunc: func(_ context.Context, id int64) (*models.App, error) {
			cp := existing
			return &cp, nil
		},
		UpdateFunc: func(_ context.Context, app *models.App) (*models.App, error) {
			written = app
			updated := *app
			updated.UpdatedAt = time.Now()
			return &updated, nil
		},
	}
	svc := newAppService(repo, &recordingCleaner{})

	newTitle := "new title"
	updated, err := svc.Update(context.Background(), 5, &models.AppUpdate{Title: &newTitle}, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written.Title != "new title" {
		t.Errorf("title not updated: %+v", written)
	}
	if written.Description != "keep me" || written.TechStack != "Go, Postgres" {
		t.Errorf("absent fields must stay untouched: %+v", written)
	}
	if updated.UpdatedAt.IsZero() {
		t.Errorf("update time must be refreshed")
	}
}

func TestUpdate_EmptyPayloadTouchesOnlyUpdateTime(t *testing.T) {
	existing := models.App{ID: 5, Title: "t", Description: "d", Category: "web project"}
	repo := &mockAppRepo{
		GetByIDFunc: func(_ context.Context, id int64) (*models.App, error) {
			cp := existing
			return &cp, nil
		},
		UpdateFunc: func(_ context.Context, app *models.App) (*models.App, error) {
			if *app != existing {
				t.Errorf("empty update must not change fields: %+v", app)
			}
			updated := *app
			updated.UpdatedAt = time.Now()
			return &updated, nil
		},
	}
	svc := newAppService(repo, &recordingCleaner{})

	if _, err := svc.Update(context.Background(), 5, &models.AppUpdate{}, "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockAppRepo{
		GetByIDFunc: func(context.Context, int64) (*models.App, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := newAppService(repo, &recordingCleaner{})

	_, err := svc.Update(context.Background(), 404, &models.AppUpdate{}, "pw")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_FetchesAssetsBeforeRowDelete(t *testing.T) {
	var order []string
	repo := &mockAppRepo{
		GetAssetsFunc: func(context.Context, int64) (*models.AppAssets, error) {
			order = append(order, "assets")
			return &models.AppAssets{ImageURL: "http://s/project-images/a.png"}, nil
		},
		DeleteFunc: func(context.Context, int64) error {
			order = append(order, "delete")
			return nil
		},
	}
	cleaner := &recordingCleaner{report: models.CleanupReport{ImageDeleted: true, FileDeleted: true}}
	svc := newAppService(repo, cleaner)

	if err := svc.Delete(context.Background(), 1, "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 2 || order[0] != "assets" || order[1] != "delete" {
		t.Errorf("asset URLs must be fetched before the row delete, got %v", order)
	}
	if len(cleaner.calls) != 1 || cleaner.calls[0].ImageURL != "http://s/project-images/a.png" {
		t.Errorf("cleanup not invoked with fetched URLs: %+v", cleaner.calls)
	}
}

func TestDelete_CleanupFailureDoesNotFailDelete(t *testing.T) {
	repo := &mockAppRepo{
		GetAssetsFunc: func(context.Context, int64) (*models.AppAssets, error) {
			return &models.AppAssets{ImageURL: "http://s/project-images/a.png"}, nil
		},
		DeleteFunc: func(context.Context, int64) error { return nil },
	}
	cleaner := &recordingCleaner{report: models.CleanupReport{
		ImageDeleted: false, FileDeleted: true,
		Errors: []string{"image deletion failed: gone"},
	}}
	svc := newAppService(repo, cleaner)

	if err := svc.Delete(context.Background(), 1, "pw"); err != nil {
		t.Fatalf("delete must succeed despite cleanup failure, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockAppRepo{
		GetAssetsFunc: func(context.Context, int64) (*models.AppAssets, error) {
			return nil, sql.ErrNoRows
		},
		DeleteFunc: func(context.Context, int64) error { return sql.ErrNoRows },
	}
	svc := newAppService(repo, &recordingCleaner{})

	err := svc.Delete(context.Background(), 404, "pw")
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBulkDelete_PartialFailure(t *testing.T) {
	repo := &mockAppRepo{
		GetAssetsByIDsFunc: func(_ context.Context, ids []int64) (map[int64]models.AppAssets, error) {
			// id 2 is already gone, so it has no assets entry.
			return map[int64]models.AppAssets{
				1: {ImageURL: "http://s/project-images/one.png"},
				3: {},
			}, nil
		},
		GetAssetsFunc: func(context.Context, int64) (*models.AppAssets, error) {
			return nil, sql.ErrNoRows
		},
		DeleteFunc: func(_ context.Context, id int64) error {
			if id == 2 {
				return sql.ErrNoRows
			}
			return nil
		},
	}
	cleaner := &recordingCleaner{report: models.CleanupReport{ImageDeleted: true, FileDeleted: true}}
	svc := newAppService(repo, cleaner)

	outcomes, err := svc.BulkDelete(context.Background(), []int64{1, 2, 3}, "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].Deleted || !outcomes[2].Deleted {
		t.Errorf("ids 1 and 3 must be deleted: %+v", outcomes)
	}
	if outcomes[1].Deleted || outcomes[1].Error == "" {
		t.Errorf("id 2 must be reported as failed, not abort the batch: %+v", outcomes)
	}
}

func TestBulkDelete_GateDenied(t *testing.T) {
	svc := newAppService(&mockAppRepo{}, &recordingCleaner{})

	_, err := svc.BulkDelete(context.Background(), []int64{1}, "wrong")
	if !errors.Is(err, service.ErrWrongCredential) {
		t.Fatalf("expected ErrWrongCredential, got %v", err)
	}
}
