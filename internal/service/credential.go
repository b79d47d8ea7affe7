package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// DefaultAdminPassword is the compiled-in fallback secret, used whenever the
// canonical copy cannot be read and as the initial value before the first
// rotation.
const DefaultAdminPassword = "deokslife"

// minPasswordLen is the only format requirement on a new admin password.
const minPasswordLen = 4

// SettingsRepository defines the persistence operations required by the
// credential service.
type SettingsRepository interface {
	// GetPassword reads the canonical admin password.
	GetPassword(ctx context.Context) (string, error)
	// SetPassword persists a new canonical admin password.
	SetPassword(ctx context.Context, password string) error
}

// CredentialService owns the single admin secret. The remote row is the sole
// authority; reads never fail to the caller and fall back to the default.
type CredentialService struct {
	repo       SettingsRepository
	defaultPwd string
	log        *zap.Logger
}

// NewCredentialService constructs a CredentialService. defaultPwd overrides
// the compiled-in fallback when non-empty.
func NewCredentialService(repo SettingsRepository, defaultPwd string, log *zap.Logger) *CredentialService {
	if defaultPwd == "" {
		defaultPwd = DefaultAdminPassword
	}
	return &CredentialService{repo: repo, defaultPwd: defaultPwd, log: log}
}

// Current returns the canonical admin password. Any read failure, including
// a never-written row, resolves to the default value. It never returns an
// error: a usable secret always exists.
func (s *CredentialService) Current(ctx context.Context) string {
	pwd, err := s.repo.GetPassword(ctx)
	if err != nil {
		s.log.Warn("reading admin password failed, using default", zap.Error(err))
		return s.defaultPwd
	}
	if pwd == "" {
		return s.defaultPwd
	}
	return pwd
}

// Authorize decides whether a mutating operation may proceed. The candidate
// is trimmed and compared case-sensitively against the canonical password.
// This is the complete server-side algorithm; the client-side retry chain
// lives in the admin client, not here.
func (s *CredentialService) Authorize(ctx context.Context, candidate string) error {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ErrMissingCredential
	}
	if candidate != s.Current(ctx) {
		return ErrWrongCredential
	}
	return nil
}

// Check reports whether candidate matches the canonical password without
// treating a mismatch as an error. Used by the check endpoint, which answers
// 200 with a valid flag either way.
func (s *CredentialService) Check(ctx context.Context, candidate string) bool {
	return strings.TrimSpace(candidate) == s.Current(ctx)
}

// Change rotates the admin password. current must authorize, and the new
// value must be at least four characters after trimming. A write failure is
// surfaced as ErrStoreUnavailable.
func (s *CredentialService) Change(ctx context.Context, current, newPassword string) error {
	if err := s.Authorize(ctx, current); err != nil {
		return err
	}

	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: new password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	if err := s.repo.SetPassword(ctx, newPassword); err != nil {
		s.log.Error("saving admin password failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
