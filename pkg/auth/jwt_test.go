package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pawsuite/petflow/internal/config"
	"github.com/pawsuite/petflow/internal/domain"
)

func testManager() *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		Issuer:          "petflow-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	m := testManager()

	providerID := uuid.New()
	in := &domain.Claims{
		UserID:     uuid.New(),
		Email:      "vet@petflow.test",
		Role:       domain.RoleVet,
		ProviderID: &providerID,
	}

	pair, err := m.GenerateTokenPair(in)
	if err != nil {
		t.Fatalf("GenerateTokenPair(): %v", err)
	}
	if pair.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", pair.TokenType)
	}

	got, err := m.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken(): %v", err)
	}
	if got.UserID != in.UserID || got.Email != in.Email || got.Role != in.Role {
		t.Errorf("claims round-trip = %+v, want %+v", got, in)
	}
	if got.ProviderID == nil || *got.ProviderID != providerID {
		t.Errorf("ProviderID = %v, want %v", got.ProviderID, providerID)
	}
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager()

	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateTokenPair(): %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.RefreshToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("ValidateAccessToken(refresh) error = %v, want ErrTokenTypeMismatch", err)
	}
	if _, err := m.ValidateRefreshToken(pair.AccessToken); !errors.Is(err, ErrTokenTypeMismatch) {
		t.Errorf("ValidateRefreshToken(access) error = %v, want ErrTokenTypeMismatch", err)
	}
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	m := testManager()
	other := NewJWTManager(config.JWTConfig{
		Secret:          "a-completely-different-signing-secret",
		Issuer:          "petflow-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	pair, err := other.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleCustomer})
	if err != nil {
		t.Fatalf("GenerateTokenPair(): %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ValidateAccessToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-at-least-32-characters!!",
		Issuer:          "petflow-test",
		AccessTokenTTL:  -1 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})

	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RoleVet})
	if err != nil {
		t.Fatalf("GenerateTokenPair(): %v", err)
	}

	if _, err := m.ValidateAccessToken(pair.AccessToken); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateAccessToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	m := testManager()
	if _, err := m.ValidateAccessToken("not.a.jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ValidateAccessToken() error = %v, want ErrTokenInvalid", err)
	}
}
