package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog_api/internal/common"
	"blog_api/internal/common/security"
	"blog_api/internal/domain/repository"
	"blog_api/internal/platform/config"
)

// TokenService turns an email/password pair into a signed, time-bound
// identity token and validates tokens presented on later requests. Tokens
// are never persisted; expiry is the only invalidation mechanism, so any
// process holding the shared secret can verify independently.
type TokenService struct {
	userRepo repository.UserRepository
}

func NewTokenService(userRepo repository.UserRepository) *TokenService {
	return &TokenService{userRepo: userRepo}
}

// Issue verifies the credentials and returns the encoded, signed token.
func (s *TokenService) Issue(ctx context.Context, email, password string) (string, error) {
	claims, err := s.IssueClaims(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := security.SignClaims(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// IssueClaims runs the same credential check as Issue but hands back the
// decoded claim set, for callers that inspect the identity directly.
// An unknown email and a wrong password are indistinguishable to the caller.
func (s *TokenService) IssueClaims(ctx context.Context, email, password string) (*security.Claims, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	return security.NewClaims(user.ID, user.Email, user.Name, user.Surname,
		time.Now(), config.AppConfig.JWTExp), nil
}

// Verify decodes and validates a presented token, always returning the
// claim set on success. Pure computation, safe to call from any number of
// request handlers concurrently.
func (s *TokenService) Verify(tokenString string) (*security.Claims, error) {
	if tokenString == "" {
		return nil, common.ErrTokenMissing
	}
	return security.ParseClaims(tokenString)
}
