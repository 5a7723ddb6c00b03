package models

// RewardEntry records points earned by an organizer for a settled tab.
// At most one entry exists per tab.
type RewardEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// UserID is the organizer who earned the points.
	UserID string

	// TabID is the tab that was settled.
	TabID string

	// TabName is the restaurant name at the time of settlement.
	TabName string

	// Subtotal is the tab subtotal the points were computed from.
	Subtotal float64

	// PointsEarned is floor(Subtotal).
	PointsEarned int64

	// EarnedAt is the Unix timestamp when the points were awarded.
	EarnedAt int64
}

// Rewards is a user's points balance and history, newest first.
type Rewards struct {
	Balance  int64
	Lifetime int64
	History  []*RewardEntry
}
