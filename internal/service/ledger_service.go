// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"splitledger/internal/calculator"
	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/internal/util"
	"splitledger/pkg/db"
)

// RecordTransactionInput carries a proposed shared expense.
type RecordTransactionInput struct {
	GroupID     int64
	PaidBy      int64
	TotalAmount decimal.Decimal
	Shares      []domain.Share
	Date        time.Time
	Description *string
}

// EqualSplitInput carries a proposed expense split evenly across participants.
type EqualSplitInput struct {
	GroupID        int64
	PaidBy         int64
	TotalAmount    decimal.Decimal
	ParticipantIDs []int64
	Date           time.Time
	Description    *string
}

// LedgerService defines the interface for the balance ledger engine: recording
// transactions, settling a group, and reporting balances.
type LedgerService interface {
	RecordTransaction(ctx context.Context, in RecordTransactionInput) (*domain.TransactionDetail, error)
	RecordEqualSplit(ctx context.Context, in EqualSplitInput) (*domain.TransactionDetail, error)
	Settle(ctx context.Context, groupID, settledBy int64, description *string) (*domain.SettlementDetail, error)
	GetBalanceSheet(ctx context.Context, groupID int64) (*domain.BalanceSheet, error)
	GetTransaction(ctx context.Context, id int64) (*domain.TransactionDetail, error)
	ListGroupTransactions(ctx context.Context, groupID int64, limit, offset int) ([]domain.TransactionSummary, error)
	ListGroupSettlements(ctx context.Context, groupID int64) ([]domain.SettlementDetail, error)
}

// ledgerService implements the LedgerService interface.
type ledgerService struct {
	dbBeginner     db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor     repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	groupRepo      repository.GroupRepository
	membershipRepo repository.MembershipRepository
	balanceRepo    repository.BalanceRepository
	txRepo         repository.TransactionRepository
	settlementRepo repository.SettlementRepository
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	groupRepo repository.GroupRepository,
	membershipRepo repository.MembershipRepository,
	balanceRepo repository.BalanceRepository,
	txRepo repository.TransactionRepository,
	settlementRepo repository.SettlementRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) LedgerService {
	return &ledgerService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		balanceRepo:    balanceRepo,
		txRepo:         txRepo,
		settlementRepo: settlementRepo,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
	}
}

// RecordTransaction validates a proposed transaction against group and
// membership state, then persists the transaction, its shares and the balance
// deltas as a single atomic unit. All validation happens before any mutation:
// a failed precondition leaves no rows behind.
func (s *ledgerService) RecordTransaction(ctx context.Context, in RecordTransactionInput) (*domain.TransactionDetail, error) {
	if in.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("total amount must be positive: %w", util.ErrInvalidInput)
	}
	if len(in.Shares) == 0 {
		return nil, fmt.Errorf("transaction needs at least one participant: %w", util.ErrInvalidInput)
	}

	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, in.GroupID); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	if _, err := s.membershipRepo.GetMembership(ctx, s.dbExecutor, in.GroupID, in.PaidBy); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("payer %d: %w", in.PaidBy, util.ErrNotAMember)
		}
		return nil, fmt.Errorf("record transaction: check payer membership: %w", err)
	}

	for _, share := range in.Shares {
		if _, err := s.membershipRepo.GetMembership(ctx, s.dbExecutor, in.GroupID, share.UserID); err != nil {
			if util.IsError(err, util.ErrNotFound) {
				return nil, fmt.Errorf("participant %d: %w", share.UserID, util.ErrNotAMember)
			}
			return nil, fmt.Errorf("record transaction: check participant membership: %w", err)
		}
	}

	if !calculator.ShareSumMatches(in.TotalAmount, in.Shares) {
		return nil, util.ErrShareSumMismatch
	}

	transaction := domain.NewTransaction(in.GroupID, in.PaidBy, in.TotalAmount, in.Description, in.Date)

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("record transaction: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("record transaction: transaction controller does not implement DBExecutor")
	}

	if err := s.txRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	if err := s.txRepo.CreateShares(ctx, txExecutor, transaction.ID, in.Shares); err != nil {
		return nil, fmt.Errorf("record transaction: %w", err)
	}

	deltas := calculator.BalanceDeltas(in.TotalAmount, in.PaidBy, in.Shares)
	// Apply deltas in ascending user order so concurrent transactions on the
	// same group lock balance rows in the same order and cannot deadlock.
	userIDs := make([]int64, 0, len(deltas))
	for userID := range deltas {
		userIDs = append(userIDs, userID)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	for _, userID := range userIDs {
		if deltas[userID].IsZero() {
			continue
		}
		if err := s.balanceRepo.ApplyDelta(ctx, txExecutor, in.GroupID, userID, deltas[userID]); err != nil {
			return nil, fmt.Errorf("record transaction: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("record transaction: failed to commit transaction: %w", err)
	}

	// Informational read; deliberately outside the atomic unit.
	detail, err := s.txRepo.GetTransactionDetail(ctx, s.dbExecutor, transaction.ID)
	if err != nil {
		return nil, fmt.Errorf("record transaction: failed to re-fetch transaction %d: %w", transaction.ID, err)
	}
	return detail, nil
}

// RecordEqualSplit splits the total evenly across the participants and
// delegates to RecordTransaction. The cent remainder left by rounding goes to
// the payer's share (or the first participant when the payer does not take
// part), so the shares always sum to the total exactly.
func (s *ledgerService) RecordEqualSplit(ctx context.Context, in EqualSplitInput) (*domain.TransactionDetail, error) {
	shares, err := calculator.EqualShares(in.TotalAmount, in.PaidBy, in.ParticipantIDs)
	if err != nil {
		return nil, fmt.Errorf("equal split: %s: %w", err, util.ErrInvalidInput)
	}

	return s.RecordTransaction(ctx, RecordTransactionInput{
		GroupID:     in.GroupID,
		PaidBy:      in.PaidBy,
		TotalAmount: in.TotalAmount,
		Shares:      shares,
		Date:        in.Date,
		Description: in.Description,
	})
}

// Settle atomically resets every balance in the group to zero and records a
// settlement event. Past transactions are untouched; this is a destructive,
// non-reversible reset of the running balances.
func (s *ledgerService) Settle(ctx context.Context, groupID, settledBy int64, description *string) (*domain.SettlementDetail, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	if _, err := s.membershipRepo.GetMembership(ctx, s.dbExecutor, groupID, settledBy); err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("settler %d: %w", settledBy, util.ErrNotAMember)
		}
		return nil, fmt.Errorf("settle: check settler membership: %w", err)
	}

	settlement := &domain.Settlement{
		GroupID:     groupID,
		SettledBy:   settledBy,
		Description: description,
		SettledAt:   time.Now().UTC(),
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("settle: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("settle: transaction controller does not implement DBExecutor")
	}

	// The group-wide update locks every balance row until commit, so an
	// in-flight RecordTransaction on the same group lands fully before or
	// fully after the reset, never in between.
	if err := s.balanceRepo.ResetGroup(ctx, txExecutor, groupID); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	if err := s.settlementRepo.CreateSettlement(ctx, txExecutor, settlement); err != nil {
		return nil, fmt.Errorf("settle: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("settle: failed to commit transaction: %w", err)
	}

	detail, err := s.settlementRepo.GetSettlementDetail(ctx, s.dbExecutor, settlement.ID)
	if err != nil {
		return nil, fmt.Errorf("settle: failed to re-fetch settlement %d: %w", settlement.ID, err)
	}
	return detail, nil
}

// GetBalanceSheet returns a snapshot of a group's balances, its transaction
// count, and the most recent balance update.
func (s *ledgerService) GetBalanceSheet(ctx context.Context, groupID int64) (*domain.BalanceSheet, error) {
	group, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("get balance sheet: %w", err)
	}

	members, err := s.balanceRepo.ListGroupBalances(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("get balance sheet: %w", err)
	}

	count, err := s.txRepo.CountGroupTransactions(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("get balance sheet: %w", err)
	}

	var lastUpdated *time.Time
	for i := range members {
		if lastUpdated == nil || members[i].LastUpdated.After(*lastUpdated) {
			t := members[i].LastUpdated
			lastUpdated = &t
		}
	}

	return &domain.BalanceSheet{
		GroupID:           group.ID,
		GroupName:         group.Name,
		Members:           members,
		TotalTransactions: count,
		LastUpdated:       lastUpdated,
	}, nil
}

// GetTransaction retrieves a hydrated transaction by ID.
func (s *ledgerService) GetTransaction(ctx context.Context, id int64) (*domain.TransactionDetail, error) {
	detail, err := s.txRepo.GetTransactionDetail(ctx, s.dbExecutor, id)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return detail, nil
}

// ListGroupTransactions retrieves a group's transaction history, newest first.
func (s *ledgerService) ListGroupTransactions(ctx context.Context, groupID int64, limit, offset int) ([]domain.TransactionSummary, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	summaries, err := s.txRepo.ListGroupTransactions(ctx, s.dbExecutor, groupID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return summaries, nil
}

// ListGroupSettlements retrieves a group's settlement history, newest first.
func (s *ledgerService) ListGroupSettlements(ctx context.Context, groupID int64) ([]domain.SettlementDetail, error) {
	if _, err := s.groupRepo.GetGroupByID(ctx, s.dbExecutor, groupID); err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	settlements, err := s.settlementRepo.ListGroupSettlements(ctx, s.dbExecutor, groupID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}
	return settlements, nil
}
