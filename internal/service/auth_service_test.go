package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawsuite/petflow/internal/config"
	"github.com/pawsuite/petflow/internal/domain"
	"github.com/pawsuite/petflow/pkg/auth"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing fixture password: %v", err)
	}

	repo := &fakeUserRepo{users: map[string]*domain.User{
		"rex@petflow.test": {
			ID:           uuid.New(),
			Email:        "rex@petflow.test",
			PasswordHash: string(hash),
			Role:         domain.RoleReceptionist,
			IsActive:     true,
		},
		"gone@petflow.test": {
			ID:           uuid.New(),
			Email:        "gone@petflow.test",
			PasswordHash: string(hash),
			Role:         domain.RoleVet,
			IsActive:     false,
		},
	}}

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		Issuer:          "petflow-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	return NewAuthService(repo, jwtManager, zap.NewNop()), repo
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "rex@petflow.test", "correct horse battery", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login(): %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Error("Login() returned empty tokens")
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"wrong password", "rex@petflow.test", "nope", ErrInvalidCredentials},
		{"unknown user", "nobody@petflow.test", "whatever", ErrInvalidCredentials},
		{"inactive account", "gone@petflow.test", "correct horse battery", ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Login(ctx, tt.email, tt.password, "127.0.0.1"); !errors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "rex@petflow.test", "correct horse battery", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login(): %v", err)
	}

	renewed, err := svc.RefreshToken(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken(): %v", err)
	}
	if renewed.AccessToken == "" {
		t.Error("RefreshToken() returned empty access token")
	}

	// An access token is not a refresh token.
	if _, err := svc.RefreshToken(ctx, pair.AccessToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("RefreshToken(access) error = %v, want ErrInvalidCredentials", err)
	}

	// Deactivated between logins: refresh stops working.
	repo.users["rex@petflow.test"].IsActive = false
	if _, err := svc.RefreshToken(ctx, pair.RefreshToken); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("RefreshToken() for inactive user error = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo := newAuthFixture(t)
	ctx := context.Background()
	userID := repo.users["rex@petflow.test"].ID

	if err := svc.ChangePassword(ctx, userID, "nope", "a brand new passphrase"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ChangePassword() with wrong current error = %v, want ErrInvalidCredentials", err)
	}

	var vErr *ValidationError
	if err := svc.ChangePassword(ctx, userID, "correct horse battery", "short"); !errors.As(err, &vErr) {
		t.Fatalf("ChangePassword() with short password error = %v, want ValidationError", err)
	}

	if err := svc.ChangePassword(ctx, userID, "correct horse battery", "a brand new passphrase"); err != nil {
		t.Fatalf("ChangePassword(): %v", err)
	}
	if _, err := svc.Login(ctx, "rex@petflow.test", "a brand new passphrase", "127.0.0.1"); err != nil {
		t.Errorf("Login() after password change: %v", err)
	}
}
