package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"splitledger/internal/domain"
	"splitledger/internal/util"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decEq(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(dec(want)) })
}

type ledgerMocks struct {
	groupRepo      *MockGroupRepository
	membershipRepo *MockMembershipRepository
	balanceRepo    *MockBalanceRepository
	txRepo         *MockTransactionRepository
	settlementRepo *MockSettlementRepository
	tx             *MockTxController
}

func newLedgerService(t *testing.T, forbidAtomicUnit bool) (LedgerService, *ledgerMocks) {
	t.Helper()
	m := &ledgerMocks{
		groupRepo:      new(MockGroupRepository),
		membershipRepo: new(MockMembershipRepository),
		balanceRepo:    new(MockBalanceRepository),
		txRepo:         new(MockTransactionRepository),
		settlementRepo: new(MockSettlementRepository),
		tx:             new(MockTxController),
	}
	begin, commit, rollback := txFuncs(m.tx)
	if forbidAtomicUnit {
		begin = forbidTx(t)
	}
	svc := NewLedgerService(nil, nil, m.groupRepo, m.membershipRepo, m.balanceRepo, m.txRepo, m.settlementRepo, begin, commit, rollback)
	return svc, m
}

func member(groupID, userID int64) *domain.Membership {
	return &domain.Membership{ID: userID, UserID: userID, GroupID: groupID, JoinedAt: time.Now().UTC()}
}

// U1 pays 30.00 split evenly across {U1, U2, U3}: U1 gains 20.00, the others
// each lose 10.00.
func TestRecordTransaction_Success(t *testing.T) {
	svc, m := newLedgerService(t, false)
	ctx := context.Background()

	shares := []domain.Share{
		{UserID: 1, ShareAmount: dec("10.00")},
		{UserID: 2, ShareAmount: dec("10.00")},
		{UserID: 3, ShareAmount: dec("10.00")},
	}

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7, Name: "Trip"}, nil)
	for _, id := range []int64{1, 2, 3} {
		m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), id).Return(member(7, id), nil)
	}

	m.txRepo.On("CreateTransaction", ctx, m.tx, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Transaction).ID = 42
		}).Return(nil)
	m.txRepo.On("CreateShares", ctx, m.tx, int64(42), shares).Return(nil)

	m.balanceRepo.On("ApplyDelta", ctx, m.tx, int64(7), int64(1), decEq("20.00")).Return(nil)
	m.balanceRepo.On("ApplyDelta", ctx, m.tx, int64(7), int64(2), decEq("-10.00")).Return(nil)
	m.balanceRepo.On("ApplyDelta", ctx, m.tx, int64(7), int64(3), decEq("-10.00")).Return(nil)

	wantDetail := &domain.TransactionDetail{ID: 42, GroupID: 7, PaidBy: 1, TotalAmount: dec("30.00")}
	m.txRepo.On("GetTransactionDetail", ctx, mock.Anything, int64(42)).Return(wantDetail, nil)

	detail, err := svc.RecordTransaction(ctx, RecordTransactionInput{
		GroupID:     7,
		PaidBy:      1,
		TotalAmount: dec("30.00"),
		Shares:      shares,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, wantDetail, detail)
	assert.True(t, m.tx.committed, "atomic unit must commit")
	assert.False(t, m.tx.rolledBack)
	m.balanceRepo.AssertNumberOfCalls(t, "ApplyDelta", 3)
}

func TestRecordTransaction_ShareSumMismatch(t *testing.T) {
	// Shares sum to 19.99 against a stated total of 20.00.
	svc, m := newLedgerService(t, true)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7}, nil)
	m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), mock.Anything).Return(member(7, 1), nil)

	_, err := svc.RecordTransaction(ctx, RecordTransactionInput{
		GroupID:     7,
		PaidBy:      1,
		TotalAmount: dec("20.00"),
		Shares: []domain.Share{
			{UserID: 1, ShareAmount: dec("10.00")},
			{UserID: 2, ShareAmount: dec("9.99")},
		},
		Date: time.Now(),
	})

	require.Error(t, err)
	assert.True(t, util.IsError(err, util.ErrInvalidInput))
	m.txRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordTransaction_NonMemberParticipant(t *testing.T) {
	svc, m := newLedgerService(t, true)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7}, nil)
	m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), int64(1)).Return(member(7, 1), nil)
	m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), int64(99)).Return(nil, util.ErrMembershipNotFound)

	_, err := svc.RecordTransaction(ctx, RecordTransactionInput{
		GroupID:     7,
		PaidBy:      1,
		TotalAmount: dec("20.00"),
		Shares: []domain.Share{
			{UserID: 1, ShareAmount: dec("10.00")},
			{UserID: 99, ShareAmount: dec("10.00")},
		},
		Date: time.Now(),
	})

	require.Error(t, err)
	assert.True(t, util.IsError(err, util.ErrInvalidState))
	assert.Contains(t, err.Error(), "99", "error identifies the offending participant")
	m.txRepo.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	m.balanceRepo.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordTransaction_PayerNotMember(t *testing.T) {
	svc, m := newLedgerService(t, true)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7}, nil)
	m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), int64(5)).Return(nil, util.ErrMembershipNotFound)

	_, err := svc.RecordTransaction(ctx, RecordTransactionInput{
		GroupID:     7,
		PaidBy:      5,
		TotalAmount: dec("10.00"),
		Shares:      []domain.Share{{UserID: 5, ShareAmount: dec("10.00")}},
		Date:        time.Now(),
	})

	require.Error(t, err)
	assert.True(t, util.IsError(err, util.ErrInvalidState))
}

func TestRecordTransaction_GroupNotFound(t *testing.T) {
	svc, m := newLedgerService(t, true)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(404)).Return(nil, util.ErrGroupNotFound)

	_, err := svc.RecordTransaction(ctx, RecordTransactionInput{
		GroupID:     404,
		PaidBy:      1,
		TotalAmount: dec("10.00"),
		Shares:      []domain.Share{{UserID: 1, ShareAmount: dec("10.00")}},
		Date:        time.Now(),
	})

	require.Error(t, err)
	assert.True(t, util.IsError(err, util.ErrNotFound))
}

func TestRecordEqualSplit_RemainderStaysConsistent(t *testing.T) {
	// 10.00 across three people does not divide evenly; the payer's share
	// absorbs the extra cent so the share-sum check passes.
	svc, m := newLedgerService(t, false)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7}, nil)
	for _, id := range []int64{1, 2, 3} {
		m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), id).Return(member(7, id), nil)
	}

	m.txRepo.On("CreateTransaction", ctx, m.tx, mock.AnythingOfType("*domain.Transaction")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Transaction).ID = 9
		}).Return(nil)
	m.txRepo.On("CreateShares", ctx, m.tx, int64(9), mock.MatchedBy(func(shares []domain.Share) bool {
		sum := decimal.Zero
		for _, s := range shares {
			sum = sum.Add(s.ShareAmount)
		}
		return sum.Equal(dec("10.00"))
	})).Return(nil)
	m.balanceRepo.On("ApplyDelta", ctx, m.tx, int64(7), mock.Anything, mock.Anything).Return(nil)
	m.txRepo.On("GetTransactionDetail", ctx, mock.Anything, int64(9)).Return(&domain.TransactionDetail{ID: 9}, nil)

	_, err := svc.RecordEqualSplit(ctx, EqualSplitInput{
		GroupID:        7,
		PaidBy:         1,
		TotalAmount:    dec("10.00"),
		ParticipantIDs: []int64{1, 2, 3},
		Date:           time.Now(),
	})

	require.NoError(t, err)
	assert.True(t, m.tx.committed)
}

func TestSettle_Success(t *testing.T) {
	svc, m := newLedgerService(t, false)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7, Name: "Trip"}, nil)
	m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), int64(2)).Return(member(7, 2), nil)

	m.balanceRepo.On("ResetGroup", ctx, m.tx, int64(7)).Return(nil)
	m.settlementRepo.On("CreateSettlement", ctx, m.tx, mock.AnythingOfType("*domain.Settlement")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*domain.Settlement).ID = 5
		}).Return(nil)

	wantDetail := &domain.SettlementDetail{ID: 5, GroupID: 7, SettledBy: 2, SettledByName: "Uma"}
	m.settlementRepo.On("GetSettlementDetail", ctx, mock.Anything, int64(5)).Return(wantDetail, nil)

	detail, err := svc.Settle(ctx, 7, 2, nil)

	require.NoError(t, err)
	assert.Equal(t, wantDetail, detail)
	assert.True(t, m.tx.committed)
	m.balanceRepo.AssertCalled(t, "ResetGroup", ctx, m.tx, int64(7))
}

func TestSettle_SettlerNotMember(t *testing.T) {
	svc, m := newLedgerService(t, true)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7}, nil)
	m.membershipRepo.On("GetMembership", ctx, mock.Anything, int64(7), int64(9)).Return(nil, util.ErrMembershipNotFound)

	_, err := svc.Settle(ctx, 7, 9, nil)

	require.Error(t, err)
	assert.True(t, util.IsError(err, util.ErrInvalidState))
	m.balanceRepo.AssertNotCalled(t, "ResetGroup", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetBalanceSheet(t *testing.T) {
	svc, m := newLedgerService(t, true)
	ctx := context.Background()

	older := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	members := []domain.MemberBalance{
		{UserID: 1, UserName: "Ana", Balance: dec("20.00"), LastUpdated: older},
		{UserID: 2, UserName: "Ben", Balance: dec("-10.00"), LastUpdated: newer},
		{UserID: 3, UserName: "Cai", Balance: dec("-10.00"), LastUpdated: older},
	}

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(7)).Return(&domain.Group{ID: 7, Name: "Trip"}, nil)
	m.balanceRepo.On("ListGroupBalances", ctx, mock.Anything, int64(7)).Return(members, nil)
	m.txRepo.On("CountGroupTransactions", ctx, mock.Anything, int64(7)).Return(int64(4), nil)

	sheet, err := svc.GetBalanceSheet(ctx, 7)

	require.NoError(t, err)
	assert.Equal(t, int64(7), sheet.GroupID)
	assert.Equal(t, "Trip", sheet.GroupName)
	assert.Equal(t, int64(4), sheet.TotalTransactions)
	require.NotNil(t, sheet.LastUpdated)
	assert.Equal(t, newer, *sheet.LastUpdated)

	// Reads are idempotent: a second call with no writes returns the same values.
	again, err := svc.GetBalanceSheet(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, sheet, again)
}

func TestGetBalanceSheet_EmptyGroup(t *testing.T) {
	svc, m := newLedgerService(t, true)
	ctx := context.Background()

	m.groupRepo.On("GetGroupByID", ctx, mock.Anything, int64(8)).Return(&domain.Group{ID: 8, Name: "New"}, nil)
	m.balanceRepo.On("ListGroupBalances", ctx, mock.Anything, int64(8)).Return([]domain.MemberBalance{}, nil)
	m.txRepo.On("CountGroupTransactions", ctx, mock.Anything, int64(8)).Return(int64(0), nil)

	sheet, err := svc.GetBalanceSheet(ctx, 8)

	require.NoError(t, err)
	assert.Empty(t, sheet.Members)
	assert.Nil(t, sheet.LastUpdated)
}
