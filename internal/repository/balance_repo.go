// internal/repository/balance_repo.go
package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
)

// BalanceRepository defines the interface for balance data operations.
//
// ApplyDelta and ResetGroup are relative, parameterized updates executed by
// the store itself; callers never compute a new balance from a previously read
// value, so concurrent writers cannot lose updates.
type BalanceRepository interface {
	// CreateBalance inserts a zero balance row for a new member using the provided DBExecutor.
	CreateBalance(ctx context.Context, q DBExecutor, groupID, userID int64) error
	// GetBalance retrieves the balance row for a (group, user) pair.
	GetBalance(ctx context.Context, q DBExecutor, groupID, userID int64) (*domain.Balance, error)
	// ListGroupBalances retrieves all balances of a group joined with member names.
	ListGroupBalances(ctx context.Context, q DBExecutor, groupID int64) ([]domain.MemberBalance, error)
	// ApplyDelta atomically adds delta to a member's balance and refreshes last_updated.
	ApplyDelta(ctx context.Context, q DBExecutor, groupID, userID int64, delta decimal.Decimal) error
	// ResetGroup sets every balance in the group to zero and refreshes last_updated.
	ResetGroup(ctx context.Context, q DBExecutor, groupID int64) error
	// DeleteZeroBalance removes the balance row for a (group, user) pair only
	// when the balance is exactly zero; a non-zero balance at execution time
	// fails with ErrOutstandingBalance.
	DeleteZeroBalance(ctx context.Context, q DBExecutor, groupID, userID int64) error
}
