// Package storage provides abstractions for persistent account data.
// Tab documents live in the docstore package; users and their reward
// history live here.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tabie/internal/models"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserStore defines the user persistence operations.
type UserStore interface {
	// CreateUser persists a new user. The email must be unique.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrUserNotFound when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrUserNotFound when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePaymentAccounts replaces the user's payout handles.
	UpdatePaymentAccounts(ctx context.Context, userID string, accounts models.PaymentAccounts) error
}

// RewardStore records points earned for settled tabs.
type RewardStore interface {
	// AddRewardEntry records the entry unless the tab was already rewarded.
	// It reports whether a new entry was written.
	AddRewardEntry(ctx context.Context, entry *models.RewardEntry) (bool, error)

	// GetRewards returns the user's balance and history, newest first.
	GetRewards(ctx context.Context, userID string) (*models.Rewards, error)
}
