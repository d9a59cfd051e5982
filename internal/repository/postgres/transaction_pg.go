// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct {
	// Methods receive a DBExecutor directly, so no handle is held here.
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a transaction row and populates its ID.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (group_id, paid_by, total_amount, description, transaction_date, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		transaction.GroupID,
		transaction.PaidBy,
		transaction.TotalAmount,
		transaction.Description,
		transaction.TransactionDate,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// CreateShares inserts the participant share rows for a transaction.
func (r *TransactionRepository) CreateShares(ctx context.Context, q repository.DBExecutor, transactionID int64, shares []domain.Share) error {
	query := `INSERT INTO transaction_participants (transaction_id, user_id, share_amount) VALUES ($1, $2, $3)`
	for _, share := range shares {
		if _, err := q.ExecContext(ctx, query, transactionID, share.UserID, share.ShareAmount); err != nil {
			return fmt.Errorf("failed to create share for user %d on transaction %d: %w", share.UserID, transactionID, err)
		}
	}
	return nil
}

// GetTransactionDetail retrieves a transaction hydrated with group, payer and
// participant names.
func (r *TransactionRepository) GetTransactionDetail(ctx context.Context, q repository.DBExecutor, id int64) (*domain.TransactionDetail, error) {
	var detail domain.TransactionDetail
	query := `
		SELECT t.id, t.group_id, g.name AS group_name, t.paid_by, u.name AS paid_by_name,
		       t.total_amount, t.description, t.transaction_date, t.created_at
		FROM transactions t
		INNER JOIN groups g ON g.id = t.group_id
		INNER JOIN users u ON u.id = t.paid_by
		WHERE t.id = $1`
	err := q.GetContext(ctx, &detail, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}

	participants := []domain.ShareDetail{}
	sharesQuery := `
		SELECT tp.user_id, u.name AS user_name, tp.share_amount
		FROM transaction_participants tp
		INNER JOIN users u ON u.id = tp.user_id
		WHERE tp.transaction_id = $1
		ORDER BY tp.user_id`
	if err := q.SelectContext(ctx, &participants, sharesQuery, id); err != nil {
		return nil, fmt.Errorf("failed to get participants for transaction %d: %w", id, err)
	}
	detail.Participants = participants

	return &detail, nil
}

// ListGroupTransactions retrieves a group's transactions newest first with
// payer names and participant counts.
func (r *TransactionRepository) ListGroupTransactions(ctx context.Context, q repository.DBExecutor, groupID int64, limit, offset int) ([]domain.TransactionSummary, error) {
	summaries := []domain.TransactionSummary{}
	query := `
		SELECT t.id, t.total_amount, t.description, t.transaction_date, u.name AS paid_by_name, t.created_at,
		       (SELECT COUNT(*) FROM transaction_participants tp WHERE tp.transaction_id = t.id) AS participant_count
		FROM transactions t
		INNER JOIN users u ON u.id = t.paid_by
		WHERE t.group_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &summaries, query, groupID, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list transactions for group %d: %w", groupID, err)
	}
	return summaries, nil
}

// CountGroupTransactions returns the number of transactions recorded for a group.
func (r *TransactionRepository) CountGroupTransactions(ctx context.Context, q repository.DBExecutor, groupID int64) (int64, error) {
	var count int64
	if err := q.GetContext(ctx, &count, `SELECT COUNT(*) FROM transactions WHERE group_id = $1`, groupID); err != nil {
		return 0, fmt.Errorf("failed to count transactions for group %d: %w", groupID, err)
	}
	return count, nil
}

// SettlementRepository implements repository.SettlementRepository for PostgreSQL.
type SettlementRepository struct{}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(db *sqlx.DB) repository.SettlementRepository {
	return &SettlementRepository{}
}

// CreateSettlement inserts a settlement row and populates its ID.
func (r *SettlementRepository) CreateSettlement(ctx context.Context, q repository.DBExecutor, settlement *domain.Settlement) error {
	query := `INSERT INTO settlements (group_id, settled_by, description, settled_at)
              VALUES ($1, $2, $3, $4) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		settlement.GroupID,
		settlement.SettledBy,
		settlement.Description,
		settlement.SettledAt,
	).Scan(&settlement.ID)
	if err != nil {
		return fmt.Errorf("failed to create settlement: %w", err)
	}
	return nil
}

// GetSettlementDetail retrieves a settlement hydrated with group and user names.
func (r *SettlementRepository) GetSettlementDetail(ctx context.Context, q repository.DBExecutor, id int64) (*domain.SettlementDetail, error) {
	var detail domain.SettlementDetail
	query := `
		SELECT s.id, s.group_id, g.name AS group_name, s.settled_by, u.name AS settled_by_name,
		       s.description, s.settled_at
		FROM settlements s
		INNER JOIN groups g ON g.id = s.group_id
		INNER JOIN users u ON u.id = s.settled_by
		WHERE s.id = $1`
	err := q.GetContext(ctx, &detail, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, util.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get settlement %d: %w", id, err)
	}
	return &detail, nil
}

// ListGroupSettlements retrieves a group's settlements newest first.
func (r *SettlementRepository) ListGroupSettlements(ctx context.Context, q repository.DBExecutor, groupID int64) ([]domain.SettlementDetail, error) {
	settlements := []domain.SettlementDetail{}
	query := `
		SELECT s.id, s.group_id, g.name AS group_name, s.settled_by, u.name AS settled_by_name,
		       s.description, s.settled_at
		FROM settlements s
		INNER JOIN groups g ON g.id = s.group_id
		INNER JOIN users u ON u.id = s.settled_by
		WHERE s.group_id = $1
		ORDER BY s.settled_at DESC`
	if err := q.SelectContext(ctx, &settlements, query, groupID); err != nil {
		return nil, fmt.Errorf("failed to list settlements for group %d: %w", groupID, err)
	}
	return settlements, nil
}
