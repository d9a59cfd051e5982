// internal/domain/balance.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Balance is a member's running net position within a group.
// Positive = should receive money; negative = owes money.
// One row exists per current member, created on join, reset (not deleted) on
// settlement, deleted only with the membership.
type Balance struct {
	ID          int64           `db:"id" json:"id"`             // Primary key, SERIAL in DB
	GroupID     int64           `db:"group_id" json:"group_id"` // Foreign key to Group
	UserID      int64           `db:"user_id" json:"user_id"`   // Foreign key to User
	Balance     decimal.Decimal `db:"balance" json:"balance"`   // Signed amount, NUMERIC(10,2) in DB
	LastUpdated time.Time       `db:"last_updated" json:"last_updated"`
}

// MemberBalance is a balance row joined with the member's name for reporting.
type MemberBalance struct {
	UserID      int64           `db:"user_id" json:"user_id"`
	UserName    string          `db:"user_name" json:"user_name"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	LastUpdated time.Time       `db:"last_updated" json:"last_updated"`
}

// BalanceSheet is a consistent snapshot of a group's balances.
type BalanceSheet struct {
	GroupID           int64           `json:"group_id"`
	GroupName         string          `json:"group_name"`
	Members           []MemberBalance `json:"members"`
	TotalTransactions int64           `json:"total_transactions"`
	LastUpdated       *time.Time      `json:"last_updated"` // nil when no balance was ever updated
}
