package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"splitledger/internal/domain"
	"splitledger/internal/repository"
	"splitledger/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockTxController is a mock transaction handle. It embeds MockDBExecutor so
// it satisfies repository.DBExecutor the way *sqlx.Tx does.
type MockTxController struct {
	MockDBExecutor
	committed  bool
	rolledBack bool
}

func (m *MockTxController) Commit() error {
	m.committed = true
	return nil
}

func (m *MockTxController) Rollback() error {
	m.rolledBack = true
	return nil
}

// txFuncs returns transaction lifecycle functions wired to a single
// MockTxController, so tests can assert commit/rollback behavior.
func txFuncs(tx *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	begin := func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
		return tx, nil
	}
	commit := func(c db.TxController) error { return c.Commit() }
	rollback := func(c db.TxController) {
		if !tx.committed {
			_ = c.Rollback()
		}
	}
	return begin, commit, rollback
}

// forbidTx returns a BeginTxFunc that fails the test if called; used to prove
// that failed preconditions never open an atomic unit.
func forbidTx(t *testing.T) db.BeginTxFunc {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
		t.Fatal("no transaction may be started when a precondition fails")
		return nil, nil
	}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, q repository.DBExecutor) ([]domain.User, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockGroupRepository is a mock implementation of repository.GroupRepository.
type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) CreateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	args := m.Called(ctx, q, group)
	return args.Error(0)
}

func (m *MockGroupRepository) GetGroupByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Group, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListGroups(ctx context.Context, q repository.DBExecutor) ([]domain.Group, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListGroupsByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.UserGroup, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserGroup), args.Error(1)
}

func (m *MockGroupRepository) UpdateGroup(ctx context.Context, q repository.DBExecutor, group *domain.Group) error {
	args := m.Called(ctx, q, group)
	return args.Error(0)
}

func (m *MockGroupRepository) DeleteGroup(ctx context.Context, q repository.DBExecutor, id int64) error {
	args := m.Called(ctx, q, id)
	return args.Error(0)
}

// MockMembershipRepository is a mock implementation of repository.MembershipRepository.
type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) AddMember(ctx context.Context, q repository.DBExecutor, membership *domain.Membership) error {
	args := m.Called(ctx, q, membership)
	return args.Error(0)
}

func (m *MockMembershipRepository) GetMembership(ctx context.Context, q repository.DBExecutor, groupID, userID int64) (*domain.Membership, error) {
	args := m.Called(ctx, q, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListMembers(ctx context.Context, q repository.DBExecutor, groupID int64) ([]domain.GroupMember, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GroupMember), args.Error(1)
}

func (m *MockMembershipRepository) RemoveMember(ctx context.Context, q repository.DBExecutor, groupID, userID int64) error {
	args := m.Called(ctx, q, groupID, userID)
	return args.Error(0)
}

// MockBalanceRepository is a mock implementation of repository.BalanceRepository.
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, groupID, userID int64) error {
	args := m.Called(ctx, q, groupID, userID)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetBalance(ctx context.Context, q repository.DBExecutor, groupID, userID int64) (*domain.Balance, error) {
	args := m.Called(ctx, q, groupID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) ListGroupBalances(ctx context.Context, q repository.DBExecutor, groupID int64) ([]domain.MemberBalance, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberBalance), args.Error(1)
}

func (m *MockBalanceRepository) ApplyDelta(ctx context.Context, q repository.DBExecutor, groupID, userID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, groupID, userID, delta)
	return args.Error(0)
}

func (m *MockBalanceRepository) ResetGroup(ctx context.Context, q repository.DBExecutor, groupID int64) error {
	args := m.Called(ctx, q, groupID)
	return args.Error(0)
}

func (m *MockBalanceRepository) DeleteZeroBalance(ctx context.Context, q repository.DBExecutor, groupID, userID int64) error {
	args := m.Called(ctx, q, groupID, userID)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) CreateShares(ctx context.Context, q repository.DBExecutor, transactionID int64, shares []domain.Share) error {
	args := m.Called(ctx, q, transactionID, shares)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionDetail(ctx context.Context, q repository.DBExecutor, id int64) (*domain.TransactionDetail, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionDetail), args.Error(1)
}

func (m *MockTransactionRepository) ListGroupTransactions(ctx context.Context, q repository.DBExecutor, groupID int64, limit, offset int) ([]domain.TransactionSummary, error) {
	args := m.Called(ctx, q, groupID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionSummary), args.Error(1)
}

func (m *MockTransactionRepository) CountGroupTransactions(ctx context.Context, q repository.DBExecutor, groupID int64) (int64, error) {
	args := m.Called(ctx, q, groupID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettlementRepository is a mock implementation of repository.SettlementRepository.
type MockSettlementRepository struct {
	mock.Mock
}

func (m *MockSettlementRepository) CreateSettlement(ctx context.Context, q repository.DBExecutor, settlement *domain.Settlement) error {
	args := m.Called(ctx, q, settlement)
	return args.Error(0)
}

func (m *MockSettlementRepository) GetSettlementDetail(ctx context.Context, q repository.DBExecutor, id int64) (*domain.SettlementDetail, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementDetail), args.Error(1)
}

func (m *MockSettlementRepository) ListGroupSettlements(ctx context.Context, q repository.DBExecutor, groupID int64) ([]domain.SettlementDetail, error) {
	args := m.Called(ctx, q, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SettlementDetail), args.Error(1)
}
