package repository

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when an account id is not present in a store.
var ErrNotFound = errors.New("account not found")

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive     Status = "Active"
	StatusCheckpoint Status = "Checkpoint"
	StatusLocked     Status = "Locked"
	StatusDisabled   Status = "Disabled"
)

// Statuses lists every status in display order.
func Statuses() []Status {
	return []Status{StatusActive, StatusCheckpoint, StatusLocked, StatusDisabled}
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Valid reports whether s is exactly one of the known statuses.
func (s Status) Valid() bool {
	for _, st := range Statuses() {
		if s == st {
			return true
		}
	}
	return false
}

// Account represents a managed social account row.
type Account struct {
	ID             string
	Name           string
	Email          string
	UID            string // numeric external id, kept as digits
	Password       string
	TwoFASecret    string
	Cookies        string // serialized cookie JSON
	Status         Status
	FriendCount    int
	HasSuggestions bool
	CreatedAt      time.Time // zero when unknown
	LastUpdated    time.Time // zero when unknown
	Notes          string
}
