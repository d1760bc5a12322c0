package entity

import (
	"time"
)

// AccountStatus is the lifecycle state of a user account.
// Stored as its string value in the account_status column.
type AccountStatus string

const (
	StatusPending    AccountStatus = "PENDING"
	StatusActive     AccountStatus = "ACTIVE"
	StatusBanned     AccountStatus = "BANNED"
	StatusPermBanned AccountStatus = "PERM_BANNED"
)

// Valid reports whether s is one of the known account statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusBanned, StatusPermBanned:
		return true
	}
	return false
}

// User is the aggregate root for the user domain.
// ID is assigned by storage; UUID is the externally visible identifier
// (immutable and globally unique once assigned, never reused).
type User struct {
	ID            int64
	UUID          string
	Username      string
	Email         string
	CountryCode   string
	PhoneNumber   string
	AccountStatus AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	LastLoginAt   *time.Time
}
