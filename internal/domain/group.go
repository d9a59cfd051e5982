// internal/domain/group.go
package domain

import "time"

// Group represents a set of users sharing expenses.
type Group struct {
	ID          int64     `db:"id" json:"id"`                   // Primary key, SERIAL in DB
	Name        string    `db:"name" json:"name"`               // Group name
	Description *string   `db:"description" json:"description"` // Optional description
	CreatedBy   int64     `db:"created_by" json:"created_by"`   // Foreign key to User
	CreatedAt   time.Time `db:"created_at" json:"created_at"`   // Timestamp of creation
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`   // Timestamp of last update
}

// NewGroup creates a new Group instance.
func NewGroup(name string, description *string, createdBy int64) *Group {
	now := time.Now().UTC()
	return &Group{
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// GroupMember is a group member joined with their user record.
type GroupMember struct {
	UserID   int64     `db:"user_id" json:"user_id"`
	Name     string    `db:"name" json:"name"`
	Email    string    `db:"email" json:"email"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

// GroupWithMembers is a group hydrated with its current member list.
type GroupWithMembers struct {
	Group
	Members []GroupMember `json:"members"`
}

// UserGroup is a group as seen from a member's perspective.
type UserGroup struct {
	Group
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}
