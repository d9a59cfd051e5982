// internal/repository/postgres/balance_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

// BalanceRepository implements repository.BalanceRepository for PostgreSQL.
type BalanceRepository struct {
	// Methods receive a DBExecutor directly, so no handle is held here.
}

// NewBalanceRepository creates a new BalanceRepository.
func NewBalanceRepository(db *sqlx.DB) repository.BalanceRepository {
	return &BalanceRepository{}
}

// CreateBalance inserts a zero balance row for a new member.
func (r *BalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, groupID, userID int64) error {
	query := `INSERT INTO balances (group_id, user_id, balance, last_updated) VALUES ($1, $2, 0.00, $3)`
	if _, err := q.ExecContext(ctx, query, groupID, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to create balance for user %d in group %d: %w", userID, groupID, err)
	}
	return nil
}

// GetBalance retrieves the balance row for a (group, user) pair.
func (r *BalanceRepository) GetBalance(ctx context.Context, q repository.DBExecutor, groupID, userID int64) (*domain.Balance, error) {
	var balance domain.Balance
	query := `SELECT id, group_id, user_id, balance, last_updated FROM balances WHERE group_id = $1 AND user_id = $2`
	err := q.GetContext(ctx, &balance, query, groupID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get balance for user %d in group %d: %w", userID, groupID, err)
	}
	return &balance, nil
}

// ListGroupBalances retrieves all balances of a group joined with member names.
func (r *BalanceRepository) ListGroupBalances(ctx context.Context, q repository.DBExecutor, groupID int64) ([]domain.MemberBalance, error) {
	balances := []domain.MemberBalance{}
	query := `
		SELECT b.user_id, u.name AS user_name, b.balance, b.last_updated
		FROM balances b
		INNER JOIN users u ON u.id = b.user_id
		WHERE b.group_id = $1
		ORDER BY b.user_id`
	if err := q.SelectContext(ctx, &balances, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list balances for group %d: %w", groupID, err)
	}
	return balances, nil
}

// ApplyDelta atomically adds delta to a member's balance.
// The adjustment happens in SQL relative to the stored value, so two
// concurrent transactions on the same row serialize on the row lock and
// neither update is lost.
func (r *BalanceRepository) ApplyDelta(ctx context.Context, q repository.DBExecutor, groupID, userID int64, delta decimal.Decimal) error {
	query := `UPDATE balances SET balance = balance + $1, last_updated = $2 WHERE group_id = $3 AND user_id = $4`
	result, err := q.ExecContext(ctx, query, delta, time.Now().UTC(), groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to apply balance delta for user %d in group %d: %w", userID, groupID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after applying balance delta for user %d in group %d: %w", userID, groupID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no balance row for user %d in group %d: %w", userID, groupID, util.ErrNotFound)
	}
	return nil
}

// ResetGroup sets every balance in the group to zero.
// Run inside the settlement's transaction this locks all of the group's
// balance rows until commit, serializing against concurrent delta updates.
func (r *BalanceRepository) ResetGroup(ctx context.Context, q repository.DBExecutor, groupID int64) error {
	query := `UPDATE balances SET balance = 0.00, last_updated = $1 WHERE group_id = $2`
	if _, err := q.ExecContext(ctx, query, time.Now().UTC(), groupID); err != nil {
		return fmt.Errorf("failed to reset balances for group %d: %w", groupID, err)
	}
	return nil
}

// DeleteZeroBalance removes the balance row for a (group, user) pair, but only
// when the balance is exactly zero. The condition lives in the statement so a
// delta committed after the caller's precondition read cannot be deleted: the
// row simply doesn't match and the removal fails with ErrOutstandingBalance.
func (r *BalanceRepository) DeleteZeroBalance(ctx context.Context, q repository.DBExecutor, groupID, userID int64) error {
	query := `DELETE FROM balances WHERE group_id = $1 AND user_id = $2 AND balance = 0.00`
	result, err := q.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete balance for user %d in group %d: %w", userID, groupID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted balance rows for user %d in group %d: %w", userID, groupID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("balance for user %d in group %d is no longer zero: %w", userID, groupID, util.ErrOutstandingBalance)
	}
	return nil
}
