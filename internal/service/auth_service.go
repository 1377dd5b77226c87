package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/repository"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService provides authentication related services
type AuthService interface {
	Login(ctx context.Context, req model.LoginRequest) (*model.User, string, time.Time, error)
	CurrentUser(ctx context.Context, userID int) (*model.User, error)
	ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error
}

type authService struct {
	userRepo repository.UserRepository
	jwtUtil  *utils.JWTUtil
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, jwtUtil *utils.JWTUtil) AuthService {
	return &authService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

// Login authenticates by roll number or username and returns the user with
// a fresh session token. The identifier is tried as a roll number first,
// then as a username, both case-insensitively, so students can log in with
// either. A missing user and a wrong password are indistinguishable to the
// caller.
func (s *authService) Login(ctx context.Context, req model.LoginRequest) (*model.User, string, time.Time, error) {
	user, err := s.userRepo.FindByRollNumber(ctx, req.Username)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("error finding user by roll number: %w", err)
	}
	if user == nil {
		user, err = s.userRepo.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, "", time.Time{}, fmt.Errorf("error finding user by username: %w", err)
		}
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiry, err := s.jwtUtil.GenerateToken(user.ID, user.Username, user.Role, user.TokenVersion)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, expiry, nil
}

// CurrentUser returns the account behind an authenticated request.
func (s *authService) CurrentUser(ctx context.Context, userID int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
// The store bumps the token epoch, so every outstanding session token stops
// verifying, including the one that authorized this call.
func (s *authService) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if !utils.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
