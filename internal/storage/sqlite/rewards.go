package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tabie/internal/models"
)

// AddRewardEntry records points for a settled tab. A tab is rewarded at most
// once; a second entry for the same tab is ignored and reports false.
func (s *SQLiteStore) AddRewardEntry(ctx context.Context, entry *models.RewardEntry) (bool, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.EarnedAt == 0 {
		entry.EarnedAt = time.Now().Unix()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO reward_entries (id, user_id, tab_id, tab_name, subtotal, points_earned, earned_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.TabID, entry.TabName, entry.Subtotal, entry.PointsEarned, entry.EarnedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert reward entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert reward entry: %w", err)
	}
	return n == 1, nil
}

// GetRewards returns the user's points and history, newest first.
func (s *SQLiteStore) GetRewards(ctx context.Context, userID string) (*models.Rewards, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, tab_id, tab_name, subtotal, points_earned, earned_at
		 FROM reward_entries WHERE user_id = ? ORDER BY earned_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reward entries: %w", err)
	}
	defer rows.Close()

	rewards := &models.Rewards{History: []*models.RewardEntry{}}
	for rows.Next() {
		entry := &models.RewardEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.TabID, &entry.TabName,
			&entry.Subtotal, &entry.PointsEarned, &entry.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reward entry: %w", err)
		}
		rewards.Lifetime += entry.PointsEarned
		rewards.History = append(rewards.History, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reward entries: %w", err)
	}
	rewards.Balance = rewards.Lifetime
	return rewards, nil
}
