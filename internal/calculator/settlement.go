package calculator

import "github.com/mmynk/tabie/internal/models"

// Debt represents what one guest owes the organizer.
type Debt struct {
	From   string // Guest person ID
	To     string // Organizer person ID
	Amount float64
	Status models.PaymentStatus
}

// Balance is the organizer's repayment position on a tab.
type Balance struct {
	Owed        float64 // Sum of guest totals
	Claimed     float64 // Guests who say they paid, awaiting confirmation
	Confirmed   float64 // Confirmed by the organizer
	Outstanding float64 // Owed - Confirmed
}

// Outstanding lists one debt per guest toward the organizer, in People order.
// The organizer's own share is not a debt. Guests whose total rounds to zero
// are skipped.
func Outstanding(tab *models.Tab) []Debt {
	organizer := tab.Organizer()
	if organizer == nil {
		return nil
	}

	var debts []Debt
	for _, split := range CalculateSplits(tab) {
		if split.PersonID == organizer.ID || split.Total <= 0 {
			continue
		}
		person := tab.FindPerson(split.PersonID)
		debts = append(debts, Debt{
			From:   split.PersonID,
			To:     organizer.ID,
			Amount: split.Total,
			Status: person.PaymentStatus,
		})
	}
	return debts
}

// CalculateBalance aggregates Outstanding by payment status.
func CalculateBalance(tab *models.Tab) Balance {
	var b Balance
	for _, debt := range Outstanding(tab) {
		b.Owed += debt.Amount
		switch debt.Status {
		case models.PaymentClaimed:
			b.Claimed += debt.Amount
		case models.PaymentConfirmed:
			b.Confirmed += debt.Amount
		}
	}
	b.Owed = Round2(b.Owed)
	b.Claimed = Round2(b.Claimed)
	b.Confirmed = Round2(b.Confirmed)
	b.Outstanding = Round2(b.Owed - b.Confirmed)
	return b
}

// RewardPoints is the number of points an organizer earns for a settled tab.
func RewardPoints(subtotal float64) int64 {
	if subtotal <= 0 {
		return 0
	}
	return int64(subtotal)
}
