// internal/domain/user.go
package domain

import "time"

// User represents a person who can join groups and take part in transactions.
type User struct {
	ID        int64     `db:"id" json:"id"`                 // Primary key, SERIAL in DB
	Name      string    `db:"name" json:"name"`             // Display name
	Email     string    `db:"email" json:"email"`           // Unique email
	Avatar    *string   `db:"avatar" json:"avatar"`         // Optional avatar URL
	CreatedAt time.Time `db:"created_at" json:"created_at"` // Timestamp of creation
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"` // Timestamp of last update
}

// NewUser creates a new User instance.
func NewUser(name, email string, avatar *string) *User {
	now := time.Now().UTC()
	return &User{
		Name:      name,
		Email:     email,
		Avatar:    avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
