// internal/repository/group_repo.go
package repository

import (
	"context"

	"splitledger/internal/domain"
)

// GroupRepository defines the interface for group data operations.
type GroupRepository interface {
	// CreateGroup adds a new group to the database using the provided DBExecutor.
	CreateGroup(ctx context.Context, q DBExecutor, group *domain.Group) error
	// GetGroupByID retrieves a group by its ID using the provided DBExecutor.
	GetGroupByID(ctx context.Context, q DBExecutor, id int64) (*domain.Group, error)
	// ListGroups retrieves all groups using the provided DBExecutor.
	ListGroups(ctx context.Context, q DBExecutor) ([]domain.Group, error)
	// ListGroupsByUser retrieves all groups a user belongs to, with join dates.
	ListGroupsByUser(ctx context.Context, q DBExecutor, userID int64) ([]domain.UserGroup, error)
	// UpdateGroup updates a group's name and description using the provided DBExecutor.
	UpdateGroup(ctx context.Context, q DBExecutor, group *domain.Group) error
	// DeleteGroup removes a group by ID using the provided DBExecutor.
	DeleteGroup(ctx context.Context, q DBExecutor, id int64) error
}

// MembershipRepository defines the interface for user-group membership data operations.
type MembershipRepository interface {
	// AddMember creates a membership row using the provided DBExecutor.
	// A duplicate (user, group) pair fails with the store's unique violation.
	AddMember(ctx context.Context, q DBExecutor, membership *domain.Membership) error
	// GetMembership retrieves the membership for a (group, user) pair.
	GetMembership(ctx context.Context, q DBExecutor, groupID, userID int64) (*domain.Membership, error)
	// ListMembers retrieves the current members of a group with their user records.
	ListMembers(ctx context.Context, q DBExecutor, groupID int64) ([]domain.GroupMember, error)
	// RemoveMember deletes the membership for a (group, user) pair.
	RemoveMember(ctx context.Context, q DBExecutor, groupID, userID int64) error
}
