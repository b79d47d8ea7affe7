// Package http provides HTTP handlers for the portfolio API: app CRUD,
// admin-password operations, and asset uploads.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deokslife/portfolio-api/internal/models"
	"github.com/deokslife/portfolio-api/internal/service"
)

// AppService defines the interface for app operations required by the
// HTTP handlers.
type AppService interface {
	// List returns every app in display order.
	List(ctx context.Context) ([]models.App, error)
	// Create persists a new app after authorizing the password.
	Create(ctx context.Context, app *models.App, password string) (*models.App, error)
	// Update merges a partial payload onto the stored record.
	Update(ctx context.Context, id int64, upd *models.AppUpdate, password string) (*models.App, error)
	// Delete removes an app and best-effort cleans up its assets.
	Delete(ctx context.Context, id int64, password string) error
	// BulkDelete removes several apps with per-id outcomes.
	BulkDelete(ctx context.Context, ids []int64, password string) ([]models.DeleteOutcome, error)
}

// AppHandler handles HTTP requests for portfolio apps.
type AppHandler struct {
	AppService AppService
}

// writeServiceError maps service errors onto HTTP status codes with a
// human-readable message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCredential), errors.Is(err, service.ErrWrongCredential):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// List handles GET /api/apps. Public, reflects store state at call time.
func (h *AppHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.AppService.List(r.Context())
	if err != nil {
		http.Error(w, "failed to fetch apps", http.StatusInternalServerError)
		return
	}
	if apps == nil {
		apps = []models.App{}
	}
	writeJSON(w, apps)
}

// Create handles POST /api/apps. The payload carries the app fields plus an
// admin_password field.
func (h *AppHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		models.App
		AdminPassword string `json:"admin_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	app, err := h.AppService.Create(r.Context(), &req.App, req.AdminPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, app)
}

// Update handles PUT /api/apps/{id}. Fields absent from the payload are
// left untouched on the stored record.
func (h *AppHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid app id", http.StatusBadRequest)
		return
	}

	var req struct {
		models.AppUpdate
		AdminPassword string `json:"admin_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	app, err := h.AppService.Update(r.Context(), id, &req.AppUpdate, req.AdminPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, app)
}

// Delete handles DELETE /api/apps/{id}. Asset cleanup runs after the row
// deletion and never affects the response.
func (h *AppHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		http.Error(w, "invalid app id", http.StatusBadRequest)
		return
	}

	var req struct {
		AdminPassword string `json:"admin_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.AppService.Delete(r.Context(), id, req.AdminPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"success": true})
}

// BulkDelete handles DELETE /api/apps. Each id is deleted independently and
// reported per id; the batch never aborts.
func (h *AppHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs           []int64 `json:"ids"`
		AdminPassword string  `json:"admin_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.IDs) == 0 {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	outcomes, err := h.AppService.BulkDelete(r.Context(), req.IDs, req.AdminPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"results": outcomes})
}
