// internal/repository/user_repo.go
package repository

import (
	"context"

	"splitledger/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user to the database using the provided DBExecutor.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID using the provided DBExecutor.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByEmail retrieves a user by their email using the provided DBExecutor.
	GetUserByEmail(ctx context.Context, q DBExecutor, email string) (*domain.User, error)
	// ListUsers retrieves all users using the provided DBExecutor.
	ListUsers(ctx context.Context, q DBExecutor) ([]domain.User, error)
	// UpdateUser updates a user's name and avatar using the provided DBExecutor.
	UpdateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// DeleteUser removes a user by ID using the provided DBExecutor.
	DeleteUser(ctx context.Context, q DBExecutor, id int64) error
}
