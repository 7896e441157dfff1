package service

import (
	"context"
	"errors"
	"fmt"
	"k12_reviser_v2/internal/common"
	"k12_reviser_v2/internal/common/security"
	"k12_reviser_v2/internal/domain/model"
	"k12_reviser_v2/internal/domain/repository"
	"time"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type SignupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
	StudentClass string `json:"student_class"`
}

type SignupResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        *model.User `json:"user"`
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*SignupResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, fmt.Errorf("missing required fields: %w", common.ErrValidation)
	}

	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The enrolled class is only meaningful for students; it is discarded for
	// every other role even when supplied.
	var studentClass *string
	if req.Role == model.RoleStudent && req.StudentClass != "" {
		studentClass = &req.StudentClass
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           req.Role,
		StudentClass:   studentClass,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo maps unique violations to common.ErrConflict
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &SignupResponse{Message: "User registered successfully", UserID: user.ID}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear before returning
	return &LoginResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// ResolveCaller maps a caller-supplied account id to a stored account.
// A missing or unresolvable id yields a nil caller, not an error: most
// endpoints serve anonymous requests and the access policy treats an absent
// caller as unconstrained.
func (s *AuthService) ResolveCaller(ctx context.Context, userID string) (*model.User, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}
