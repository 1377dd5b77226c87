package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/model"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/repository"
	"github.com/GPC-Itarsi/GPC-Itarsi/internal/utils"
)

var (
	ErrUserAlreadyExists = errors.New("user with this username, email or roll number already exists")
	ErrForbidden         = errors.New("forbidden: user does not have permission for this action")
)

// UserService provides account provisioning and profile management. Role
// changes go through the dedicated ChangeRole path only.
type UserService interface {
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Get(ctx context.Context, id int) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) (*model.User, error)
	ChangeRole(ctx context.Context, id int, req model.ChangeRoleRequest) (*model.User, error)
	Delete(ctx context.Context, id int) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Create provisions a new account with role-variant validation.
func (s *userService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		Email:        req.Email,
		Phone:        req.Phone,
		Bio:          req.Bio,
		Teacher:      req.Teacher,
		Student:      req.Student,
		Developer:    req.Developer,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding user by ID: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateProfile mutates the profile fields present in the request. The role
// itself is immutable here; a profile for a different role is rejected.
func (s *userService) UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Teacher != nil {
		user.Teacher = req.Teacher
	}
	if req.Student != nil {
		user.Student = req.Student
	}
	if req.Developer != nil {
		user.Developer = req.Developer
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ChangeRole is the admin-privileged role mutation. The new role's profile
// must be supplied; profiles of the old role are dropped.
func (s *userService) ChangeRole(ctx context.Context, id int, req model.ChangeRoleRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Role = req.Role
	user.Teacher = req.Teacher
	user.Student = req.Student
	user.Developer = req.Developer

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to change role: %w", err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// BootstrapAdmin creates the initial admin account when ADMIN_USERNAME and
// ADMIN_PASSWORD are configured and no such user exists yet.
func BootstrapAdmin(ctx context.Context, userRepo repository.UserRepository, username, password, email string) error {
	if username == "" || password == "" {
		return nil
	}

	existing, err := userRepo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("error checking for existing admin: %w", err)
	}
	if existing != nil {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &model.User{
		Username:     strings.ToLower(username),
		Name:         "Administrator",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Email:        email,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Printf("Bootstrap admin user %q created", username)
	return nil
}
