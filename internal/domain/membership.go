// internal/domain/membership.go
package domain

import "time"

// Membership links a user to a group. A user has at most one membership per
// group, enforced by a unique (user_id, group_id) constraint.
type Membership struct {
	ID       int64     `db:"id" json:"id"`             // Primary key, SERIAL in DB
	UserID   int64     `db:"user_id" json:"user_id"`   // Foreign key to User
	GroupID  int64     `db:"group_id" json:"group_id"` // Foreign key to Group
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}
