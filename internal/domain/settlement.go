// internal/domain/settlement.go
package domain

import "time"

// Settlement records a point in time at which all balances in a group were
// reset to zero. It is a historical event, not a reversible operation; past
// transactions are untouched.
type Settlement struct {
	ID          int64     `db:"id" json:"id"`                   // Primary key, SERIAL in DB
	GroupID     int64     `db:"group_id" json:"group_id"`       // Foreign key to Group
	SettledBy   int64     `db:"settled_by" json:"settled_by"`   // User who triggered the settlement
	Description *string   `db:"description" json:"description"` // Optional description
	SettledAt   time.Time `db:"settled_at" json:"settled_at"`
}

// SettlementDetail is a settlement hydrated with group and user names.
type SettlementDetail struct {
	ID            int64     `db:"id" json:"id"`
	GroupID       int64     `db:"group_id" json:"group_id"`
	GroupName     string    `db:"group_name" json:"group_name"`
	SettledBy     int64     `db:"settled_by" json:"settled_by"`
	SettledByName string    `db:"settled_by_name" json:"settled_by_name"`
	Description   *string   `db:"description" json:"description"`
	SettledAt     time.Time `db:"settled_at" json:"settled_at"`
}
