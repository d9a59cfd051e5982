// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"splitledger/internal/domain"
)

// TransactionRepository defines the interface for transaction data operations.
type TransactionRepository interface {
	// CreateTransaction inserts a transaction row and populates its ID using the provided DBExecutor.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// CreateShares inserts the participant share rows for a transaction.
	CreateShares(ctx context.Context, q DBExecutor, transactionID int64, shares []domain.Share) error
	// GetTransactionDetail retrieves a transaction hydrated with group, payer
	// and participant names.
	GetTransactionDetail(ctx context.Context, q DBExecutor, id int64) (*domain.TransactionDetail, error)
	// ListGroupTransactions retrieves a group's transactions newest first with
	// payer names and participant counts.
	ListGroupTransactions(ctx context.Context, q DBExecutor, groupID int64, limit, offset int) ([]domain.TransactionSummary, error)
	// CountGroupTransactions returns the number of transactions recorded for a group.
	CountGroupTransactions(ctx context.Context, q DBExecutor, groupID int64) (int64, error)
}

// SettlementRepository defines the interface for settlement data operations.
type SettlementRepository interface {
	// CreateSettlement inserts a settlement row and populates its ID using the provided DBExecutor.
	CreateSettlement(ctx context.Context, q DBExecutor, settlement *domain.Settlement) error
	// GetSettlementDetail retrieves a settlement hydrated with group and user names.
	GetSettlementDetail(ctx context.Context, q DBExecutor, id int64) (*domain.SettlementDetail, error)
	// ListGroupSettlements retrieves a group's settlements newest first with settler names.
	ListGroupSettlements(ctx context.Context, q DBExecutor, groupID int64) ([]domain.SettlementDetail, error)
}
