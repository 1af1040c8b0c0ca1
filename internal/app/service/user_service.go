package service

import (
	"context"
	"fmt"
	"strings"

	"blog_api/internal/common"
	"blog_api/internal/common/security"
	"blog_api/internal/domain/model"
	"blog_api/internal/domain/repository"

	"github.com/google/uuid"
)

type UserService struct {
	userRepo     repository.UserRepository
	tokenService *TokenService
}

func NewUserService(userRepo repository.UserRepository, tokenService *TokenService) *UserService {
	return &UserService{userRepo: userRepo, tokenService: tokenService}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,alpha"`
	Surname  string `json:"surname" validate:"required,alpha"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// When true the response carries the decoded claims instead of the
	// encoded token.
	Decoded bool `json:"decoded"`
}

type LoginResult struct {
	Token  string
	Claims *security.Claims
}

// UpdateRequest deliberately carries only the mutable profile fields.
// Payload attempts to change id, role, password or created_at are dropped
// during decoding and never reach the store.
type UpdateRequest struct {
	Name    string `json:"name" validate:"required,alpha"`
	Surname string `json:"surname" validate:"required,alpha"`
	Email   string `json:"email" validate:"required,email"`
}

type UpdateResult struct {
	Claims  *security.Claims       `json:"user"`
	Changes map[string]interface{} `json:"changes"`
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = strings.TrimSpace(req.Email)

	if verr := common.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	// Pre-check for a friendly field error; the unique index on email is
	// what actually closes the race.
	taken, err := s.userRepo.EmailTaken(ctx, req.Email, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if taken {
		return nil, &common.ValidationError{Fields: map[string]string{
			"email": "is already registered",
		}}
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Surname:        req.Surname,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on the duplicate-email race.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user.HashedPassword = "" // Clear hash before returning
	return user, nil
}

func (s *UserService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Email = strings.TrimSpace(req.Email)

	if verr := common.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	claims, err := s.tokenService.IssueClaims(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	token, err := security.SignClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &LoginResult{Token: token, Claims: claims}, nil
}

// Update verifies the presented token, applies the allowed subset of
// profile fields to the token's subject, and returns the identity claims
// together with the applied change set.
func (s *UserService) Update(ctx context.Context, tokenString string, req UpdateRequest) (*UpdateResult, error) {
	claims, err := s.tokenService.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = strings.TrimSpace(req.Email)

	if verr := common.ValidateStruct(req); verr != nil {
		return nil, verr
	}

	taken, err := s.userRepo.EmailTaken(ctx, req.Email, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if taken {
		return nil, &common.ValidationError{Fields: map[string]string{
			"email": "is already registered",
		}}
	}

	changes := map[string]interface{}{
		"name":    req.Name,
		"surname": req.Surname,
		"email":   req.Email,
	}
	if err := s.userRepo.UpdatePartial(ctx, claims.Subject, changes); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &UpdateResult{Claims: claims, Changes: changes}, nil
}

func (s *UserService) Detail(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}
