// internal/service/user_service.go
package service

import (
	"context"
	"fmt"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

// UserService defines the interface for user management.
type UserService interface {
	CreateUser(ctx context.Context, name, email string, avatar *string) (*domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, id int64, name string, avatar *string) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// userService implements the UserService interface.
// User CRUD involves no multi-row mutations, so it works directly on the
// pooled handle without a transaction manager.
type userService struct {
	dbExecutor repository.DBExecutor
	userRepo   repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(dbExecutor repository.DBExecutor, userRepo repository.UserRepository) UserService {
	return &userService{dbExecutor: dbExecutor, userRepo: userRepo}
}

// CreateUser registers a new user. A duplicate email surfaces as
// util.ErrDuplicateEmail, translated from the store's unique violation.
func (s *userService) CreateUser(ctx context.Context, name, email string, avatar *string) (*domain.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required: %w", util.ErrInvalidInput)
	}

	user := domain.NewUser(name, email, avatar)
	if err := s.userRepo.CreateUser(ctx, s.dbExecutor, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *userService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, s.dbExecutor, email)
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return user, nil
}

// ListUsers retrieves all users.
func (s *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.ListUsers(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// UpdateUser updates a user's name and avatar.
func (s *userService) UpdateUser(ctx context.Context, id int64, name string, avatar *string) (*domain.User, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", util.ErrInvalidInput)
	}

	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	user.Name = name
	user.Avatar = avatar
	if err := s.userRepo.UpdateUser(ctx, s.dbExecutor, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	updated, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update user: failed to re-fetch user %d: %w", id, err)
	}
	return updated, nil
}

// DeleteUser removes a user by ID.
func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.userRepo.DeleteUser(ctx, s.dbExecutor, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
