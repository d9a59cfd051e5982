// internal/service/group_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
	"splitledger/pkg/db"
)

// GroupService defines the interface for group and membership management.
type GroupService interface {
	CreateGroup(ctx context.Context, name string, description *string, createdBy int64) (*domain.Group, error)
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
	GetGroupWithMembers(ctx context.Context, id int64) (*domain.GroupWithMembers, error)
	GetUserGroups(ctx context.Context, userID int64) ([]domain.UserGroup, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	AddMembers(ctx context.Context, groupID int64, userIDs []int64) ([]domain.GroupMember, error)
	RemoveMember(ctx context.Context, groupID, userID int64) error
	UpdateGroup(ctx context.Context, id int64, name string, description *string) (*domain.Group, error)
	DeleteGroup(ctx context.Context, id int64) error
}

// groupService implements the GroupService interface.
type groupService struct {
	dbBeginner     db.DBTxBeginner
	dbExecutor     repository.DBExecutor
	userRepo       repository.UserRepository
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	balanceRepo    repository.BalanceRepository
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
}

// NewGroupService creates a new instance of GroupService.
func NewGroupService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	balanceRepo repository.BalanceRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) GroupService {
	return &groupService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		userRepo:       userRepo,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		balanceRepo:    balanceRepo,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
	}
}

// CreateGroup creates a group together with the creator's membership and zero
// balance row in one atomic unit.
func (s *groupService) CreateGroup(ctx context.Context, name string, description *string, createdBy int64) (*domain.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required: %w", util.ErrInvalidInput)
	}

	if _, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, createdBy); err != nil {
		return nil, fmt.Errorf("create group: creator: %w", err)
	}

	group := domain.NewGroup(name, description, createdBy)

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create group: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create group: transaction controller does not implement DBExecutor")
	}

	if err := s.groupRepo.CreateGroup(ctx, txExecutor, group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	membership := &domain.Membership{UserID: createdBy, GroupID: group.ID, JoinedAt: time.Now().UTC()}
	if err := s.membershipRepo.AddMember(ctx, txExecutor, membership); err != nil {
		return nil, fmt.Errorf("create group: add creator membership: %w", err)
	}

	if err := s.balanceRepo.CreateBalance(ctx, txExecutor, group.ID, createdBy); err != nil {
		return nil, fmt.Errorf("create group: init creator balance: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create group: failed to commit transaction: %w", err)
	}

	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *groupService) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return group, nil
}

// GetGroupWithMembers retrieves a group hydrated with its member list.
func (s *groupService) GetGroupWithMembers(ctx context.Context, id int64) (*domain.GroupWithMembers, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get group with members: %w", err)
	}

	members, err := s.membershipRepo.ListMembers(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get group with members: %w", err)
	}

	return &domain.GroupWithMembers{Group: *group, Members: members}, nil
}

// GetUserGroups retrieves the groups a user belongs to.
func (s *groupService) GetUserGroups(ctx context.Context, userID int64) ([]domain.UserGroup, error) {
	groups, err := s.groupRepo.ListGroupsByUser(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get user groups: %w", err)
	}
	return groups, nil
}

// ListGroups retrieves all groups.
func (s *groupService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.groupRepo.ListGroups(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

// AddMembers adds users to a group, creating each membership together with its
// zero balance row in one atomic unit. A concurrent duplicate join loses the
// race on the unique (user, group) constraint and surfaces as "already a
// member" rather than a raw store error.
func (s *groupService) AddMembers(ctx context.Context, groupID int64, userIDs []int64) ([]domain.GroupMember, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("no users to add: %w", util.ErrInvalidInput)
	}

	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("add members: %w", err)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("add members: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("add members: transaction controller does not implement DBExecutor")
	}

	added := make([]domain.GroupMember, 0, len(userIDs))
	for _, userID := range userIDs {
		user, err := s.userRepo.GetUserByID(ctx, txExecutor, userID)
		if err != nil {
			return nil, fmt.Errorf("add members: user %d: %w", userID, err)
		}

		membership := &domain.Membership{UserID: userID, GroupID: groupID, JoinedAt: time.Now().UTC()}
		if err := s.membershipRepo.AddMember(ctx, txExecutor, membership); err != nil {
			return nil, fmt.Errorf("add members: user %d: %w", userID, err)
		}

		if err := s.balanceRepo.CreateBalance(ctx, txExecutor, groupID, userID); err != nil {
			return nil, fmt.Errorf("add members: init balance for user %d: %w", userID, err)
		}

		added = append(added, domain.GroupMember{
			UserID:   userID,
			Name:     user.Name,
			Email:    user.Email,
			JoinedAt: membership.JoinedAt,
		})
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("add members: failed to commit transaction: %w", err)
	}

	return added, nil
}

// RemoveMember deletes a membership and its balance row. The member must not
// carry an outstanding balance; the guard prevents silently losing track of
// unsettled debt when someone leaves. The precondition read outside the
// transaction produces a friendly error carrying the amount, but the
// authoritative check is the conditional delete inside the transaction, which
// only removes a row whose balance is still exactly zero.
func (s *groupService) RemoveMember(ctx context.Context, groupID, userID int64) error {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	if _, err := s.membershipRepo.GetMembership(ctx, s.dbExecutor, groupID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	balance, err := s.balanceRepo.GetBalance(ctx, s.dbExecutor, groupID, userID)
	if err != nil && !util.IsError(err, util.ErrNotFound) {
		return fmt.Errorf("remove member: check balance: %w", err)
	}
	if balance != nil && !balance.Balance.IsZero() {
		return fmt.Errorf("user %d has balance %s in group %d: %w",
			userID, balance.Balance.StringFixed(2), groupID, util.ErrOutstandingBalance)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("remove member: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("remove member: transaction controller does not implement DBExecutor")
	}

	if balance != nil {
		if err := s.balanceRepo.DeleteZeroBalance(ctx, txExecutor, groupID, userID); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}
	}

	if err := s.membershipRepo.RemoveMember(ctx, txExecutor, groupID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("remove member: failed to commit transaction: %w", err)
	}

	return nil
}

// UpdateGroup updates a group's name and description.
func (s *groupService) UpdateGroup(ctx context.Context, id int64, name string, description *string) (*domain.Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required: %w", util.ErrInvalidInput)
	}

	group, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	group.Name = name
	group.Description = description
	if err := s.groupRepo.UpdateGroup(ctx, s.dbExecutor, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}

	updated, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("update group: failed to re-fetch group %d: %w", id, err)
	}
	return updated, nil
}

// DeleteGroup removes a group; its memberships, balances, transactions and
// settlements cascade in the store.
func (s *groupService) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.groupRepo.DeleteGroup(ctx, s.dbExecutor, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}
