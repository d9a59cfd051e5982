// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations
)

// Transaction represents one shared expense within a group: the payer covered
// TotalAmount and each participant owes their share of it.
type Transaction struct {
	ID              int64           `db:"id" json:"id"`                     // Primary key, SERIAL in DB
	GroupID         int64           `db:"group_id" json:"group_id"`         // Foreign key to Group
	PaidBy          int64           `db:"paid_by" json:"paid_by"`           // Foreign key to User
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"` // Positive amount, NUMERIC(10,2) in DB
	Description     *string         `db:"description" json:"description"`   // Optional description
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"` // Calendar date, no time component
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// NewTransaction creates a new Transaction instance.
func NewTransaction(groupID, paidBy int64, totalAmount decimal.Decimal, description *string, transactionDate time.Time) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		GroupID:         groupID,
		PaidBy:          paidBy,
		TotalAmount:     totalAmount,
		Description:     description,
		TransactionDate: transactionDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Share is the portion of a transaction's total attributed to one participant.
// For a committed transaction the shares sum exactly to the total.
type Share struct {
	UserID      int64           `db:"user_id" json:"user_id"`
	ShareAmount decimal.Decimal `db:"share_amount" json:"share_amount"`
}

// ShareDetail is a share joined with the participant's name.
type ShareDetail struct {
	UserID      int64           `db:"user_id" json:"user_id"`
	UserName    string          `db:"user_name" json:"user_name"`
	ShareAmount decimal.Decimal `db:"share_amount" json:"share_amount"`
}

// TransactionDetail is a transaction hydrated with group, payer and
// participant names for caller convenience.
type TransactionDetail struct {
	ID              int64           `db:"id" json:"id"`
	GroupID         int64           `db:"group_id" json:"group_id"`
	GroupName       string          `db:"group_name" json:"group_name"`
	PaidBy          int64           `db:"paid_by" json:"paid_by"`
	PaidByName      string          `db:"paid_by_name" json:"paid_by_name"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Description     *string         `db:"description" json:"description"`
	TransactionDate time.Time       `db:"transaction_date" json:"transaction_date"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	Participants    []ShareDetail   `json:"participants"`
}

// TransactionSummary is a list-view row for a group's transaction history.
type TransactionSummary struct {
	ID               int64           `db:"id" json:"id"`
	TotalAmount      decimal.Decimal `db:"total_amount" json:"total_amount"`
	Description      *string         `db:"description" json:"description"`
	TransactionDate  time.Time       `db:"transaction_date" json:"transaction_date"`
	PaidByName       string          `db:"paid_by_name" json:"paid_by_name"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	ParticipantCount int64           `db:"participant_count" json:"participant_count"`
}
