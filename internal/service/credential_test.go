package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/deokslife/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type mockSettingsRepo struct {
	GetPasswordFunc func(ctx context.Context) (string, error)
	SetPasswordFunc func(ctx context.Context, password string) error
}

func (m *mockSettingsRepo) GetPassword(ctx context.Context) (string, error) {
	return m.GetPasswordFunc(ctx)
}
func (m *mockSettingsRepo) SetPassword(ctx context.Context, password string) error {
	return m.SetPasswordFunc(ctx, password)
}

func TestCurrent_FallsBackToDefaultOnReadFailure(t *testing.T) {
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	svc := service.NewCredentialService(repo, "", zap.NewNop())

	if got := svc.Current(context.Background()); got != service.DefaultAdminPassword {
		t.Fatalf("Current = %q; want default %q", got, service.DefaultAdminPassword)
	}
}

func TestCurrent_FallsBackToConfiguredDefault(t *testing.T) {
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "", errors.New("no rows")
		},
	}
	svc := service.NewCredentialService(repo, "fromenv", zap.NewNop())

	if got := svc.Current(context.Background()); got != "fromenv" {
		t.Fatalf("Current = %q; want %q", got, "fromenv")
	}
}

func TestAuthorize(t *testing.T) {
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "secret", nil
		},
	}
	svc := service.NewCredentialService(repo, "", zap.NewNop())

	tests := []struct {
		name      string
		candidate string
		wantErr   error
	}{
		{"exact match", "secret", nil},
		{"trimmed match", "  secret \n", nil},
		{"empty", "", service.ErrMissingCredential},
		{"whitespace only", "   ", service.ErrMissingCredential},
		{"wrong", "Secret", service.ErrWrongCredential},
		{"default no longer valid after rotation", service.DefaultAdminPassword, service.ErrWrongCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(context.Background(), tt.candidate)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Authorize(%q) = %v; want %v", tt.candidate, err, tt.wantErr)
			}
		})
	}
}

func TestCheck_MismatchIsNotAnError(t *testing.T) {
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "secret", nil
		},
	}
	svc := service.NewCredentialService(repo, "", zap.NewNop())

	if svc.Check(context.Background(), "nope") {
		t.Error("Check should be false for a mismatch")
	}
	if !svc.Check(context.Background(), " secret ") {
		t.Error("Check should be true for a trimmed match")
	}
}

func TestChange_WrongCurrent(t *testing.T) {
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "secret", nil
		},
	}
	svc := service.NewCredentialService(repo, "", zap.NewNop())

	err := svc.Change(context.Background(), "wrong", "newpass")
	if !errors.Is(err, service.ErrWrongCredential) {
		t.Fatalf("expected ErrWrongCredential, got %v", err)
	}
}

func TestChange_TooShort(t *testing.T) {
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "secret", nil
		},
	}
	svc := service.NewCredentialService(repo, "", zap.NewNop())

	err := svc.Change(context.Background(), "secret", " abc ")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestChange_StoreFailure(t *testing.T) {
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "secret", nil
		},
		SetPasswordFunc: func(context.Context, string) error {
			return errors.New("write timeout")
		},
	}
	svc := service.NewCredentialService(repo, "", zap.NewNop())

	err := svc.Change(context.Background(), "secret", "newpass")
	if !errors.Is(err, service.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestChange_PersistsTrimmedValue(t *testing.T) {
	var saved string
	repo := &mockSettingsRepo{
		GetPasswordFunc: func(context.Context) (string, error) {
			return "secret", nil
		},
		SetPasswordFunc: func(_ context.Context, password string) error {
			saved = password
			return nil
		},
	}
	svc := service.NewCredentialService(repo, "", zap.NewNop())

	if err := svc.Change(context.Background(), "secret", "  newpass  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved != "newpass" {
		t.Errorf("saved %q; want trimmed %q", saved, "newpass")
	}
}
