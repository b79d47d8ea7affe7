package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// CredentialService defines the interface for admin-password operations
// required by the AuthHandler.
type CredentialService interface {
	// Check reports whether candidate matches the canonical password.
	Check(ctx context.Context, candidate string) bool
	// Change rotates the admin password after authorizing current.
	Change(ctx context.Context, current, newPassword string) error
}

// AuthHandler handles HTTP requests for admin-password checks and changes.
type AuthHandler struct {
	CredentialService CredentialService
}

// CheckPassword handles POST /api/auth/check. A mismatch is answered with
// 200 and {"valid":false}, not 401. Clients key off the flag.
func (h *AuthHandler) CheckPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "password check failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"valid": h.CredentialService.Check(r.Context(), req.Password)})
}

// ChangePassword handles PUT /api/auth/password. It requires the current
// password and a new one of at least four characters.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	if err := h.CredentialService.Change(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, map[string]any{"success": true, "message": "password updated"})
}
