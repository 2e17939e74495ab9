package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pawsuite/petflow/internal/domain"
	"github.com/pawsuite/petflow/pkg/auth"
)

var ErrAccountInactive = errors.New("account is inactive")

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	log        *zap.Logger
}

func NewAuthService(userRepo UserRepository, jwtManager *auth.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based user enumeration.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	claims := &domain.Claims{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		ProviderID: user.ProviderID,
		CustomerID: user.CustomerID,
	}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate user is still active
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       user.Role,
		ProviderID: user.ProviderID,
		CustomerID: user.CustomerID,
	})
}

// ChangePassword updates a user's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if len(newPassword) < 12 {
		return &ValidationError{Fields: []string{"password must be at least 12 characters"}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}
