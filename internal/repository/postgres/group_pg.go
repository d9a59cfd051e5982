// internal/repository/postgres/group_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

// GroupRepository implements repository.GroupRepository for PostgreSQL.
type GroupRepository struct {
	// Methods receive a DBExecutor directly, so no handle is held here.
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db *sqlx.DB) repository.GroupRepository {
	return &GroupRepository{}
}

// CreateGroup inserts a new group using the provided DBExecutor.
func (r *GroupRepository) CreateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	query := `INSERT INTO groups (name, description, created_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query, group.Name, group.Description, group.CreatedBy, group.CreatedAt, group.UpdatedAt).Scan(&group.ID)
	if err != nil {
		return fmt.Errorf("failed to create group: %w", err)
	}
	return nil
}

// GetGroupByID retrieves a group by ID using the provided DBExecutor.
func (r *GroupRepository) GetGroupByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Group, error) {
	var group domain.Group
	query := `SELECT id, name, description, created_by, created_at, updated_at FROM groups WHERE id = $1`
	err := q.GetContext(ctx, &group, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to get group by ID %d: %w", id, err)
	}
	return &group, nil
}

// ListGroups retrieves all groups using the provided DBExecutor.
func (r *GroupRepository) ListGroups(ctx context.Context, q repository.DBExecutor) ([]domain.Group, error) {
	groups := []domain.Group{}
	query := `SELECT id, name, description, created_by, created_at, updated_at FROM groups ORDER BY id`
	if err := q.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// ListGroupsByUser retrieves all groups a user belongs to with join dates.
func (r *GroupRepository) ListGroupsByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.UserGroup, error) {
	groups := []domain.UserGroup{}
	query := `
		SELECT g.id, g.name, g.description, g.created_by, g.created_at, g.updated_at, ug.joined_at
		FROM user_groups ug
		INNER JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = $1
		ORDER BY ug.joined_at`
	if err := q.SelectContext(ctx, &groups, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list groups for user %d: %w", userID, err)
	}
	return groups, nil
}

// UpdateGroup updates a group's name and description using the provided DBExecutor.
func (r *GroupRepository) UpdateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	query := `UPDATE groups SET name = $1, description = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, group.Name, group.Description, time.Now().UTC(), group.ID)
	if err != nil {
		return fmt.Errorf("failed to update group %d: %w", group.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating group %d: %w", group.ID, err)
	}
	if rowsAffected == 0 {
		return util.ErrGroupNotFound
	}
	return nil
}

// DeleteGroup removes a group by ID using the provided DBExecutor.
// Memberships, balances, transactions and settlements cascade in the schema.
func (r *GroupRepository) DeleteGroup(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after deleting group %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return util.ErrGroupNotFound
	}
	return nil
}

// MembershipRepository implements repository.MembershipRepository for PostgreSQL.
type MembershipRepository struct{}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(db *sqlx.DB) repository.MembershipRepository {
	return &MembershipRepository{}
}

// AddMember creates a membership row using the provided DBExecutor.
// A concurrent duplicate insert trips the unique (user_id, group_id)
// constraint and is translated to util.ErrAlreadyMember.
func (r *MembershipRepository) AddMember(ctx context.Context, q repository.DBExecutor, membership *domain.Membership) error {
	query := `INSERT INTO user_groups (user_id, group_id, joined_at) VALUES ($1, $2, $3) RETURNING id`
	err := q.QueryRowContext(ctx, query, membership.UserID, membership.GroupID, membership.JoinedAt).Scan(&membership.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return util.ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member %d to group %d: %w", membership.UserID, membership.GroupID, err)
	}
	return nil
}

// GetMembership retrieves the membership for a (group, user) pair.
func (r *MembershipRepository) GetMembership(ctx context.Context, q repository.DBExecutor, groupID, userID int64) (*domain.Membership, error) {
	var membership domain.Membership
	query := `SELECT id, user_id, group_id, joined_at FROM user_groups WHERE group_id = $1 AND user_id = $2`
	err := q.GetContext(ctx, &membership, query, groupID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get membership of user %d in group %d: %w", userID, groupID, err)
	}
	return &membership, nil
}

// ListMembers retrieves the current members of a group with their user records.
func (r *MembershipRepository) ListMembers(ctx context.Context, q repository.DBExecutor, groupID int64) ([]domain.GroupMember, error) {
	members := []domain.GroupMember{}
	query := `
		SELECT u.id AS user_id, u.name, u.email, ug.joined_at
		FROM user_groups ug
		INNER JOIN users u ON u.id = ug.user_id
		WHERE ug.group_id = $1
		ORDER BY ug.joined_at`
	if err := q.SelectContext(ctx, &members, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list members of group %d: %w", groupID, err)
	}
	return members, nil
}

// RemoveMember deletes the membership for a (group, user) pair.
func (r *MembershipRepository) RemoveMember(ctx context.Context, q repository.DBExecutor, groupID, userID int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM user_groups WHERE group_id = $1 AND user_id = $2`, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove member %d from group %d: %w", userID, groupID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after removing member %d from group %d: %w", userID, groupID, err)
	}
	if rowsAffected == 0 {
		return util.ErrMembershipNotFound
	}
	return nil
}
