package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/storage"
)

const userColumns = "id, email, display_name, password_hash, venmo, cashapp, paypal, created_at, updated_at"

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.DisplayName,
		user.PasswordHash,
		user.PaymentAccounts.Venmo,
		user.PaymentAccounts.CashApp,
		user.PaymentAccounts.PayPal,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	user, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// UpdatePaymentAccounts replaces the user's payout handles.
func (s *SQLiteStore) UpdatePaymentAccounts(ctx context.Context, userID string, accounts models.PaymentAccounts) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET venmo = ?, cashapp = ?, paypal = ?, updated_at = ? WHERE id = ?",
		accounts.Venmo, accounts.CashApp, accounts.PayPal, time.Now().Unix(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment accounts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update payment accounts: %w", err)
	}
	if n == 0 {
		return storage.ErrUserNotFound
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.DisplayName,
		&user.PasswordHash,
		&user.PaymentAccounts.Venmo,
		&user.PaymentAccounts.CashApp,
		&user.PaymentAccounts.PayPal,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	user.PaymentAccounts.AdminName = user.DisplayName
	return user, nil
}
