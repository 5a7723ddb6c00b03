package calculator

import (
	"math/big"

	"github.com/mmynk/tabie/internal/models"
)

// Summary describes how much of a tab has been claimed.
type Summary struct {
	Subtotal        float64
	Claimed         float64
	Unclaimed       float64
	FullyClaimed    int
	UnclaimedItems  []string // IDs of items with capacity left
	TaxTip          float64
	GrandTotal      float64
	AllItemsClaimed bool
}

// claimedUnits sums the recorded claims on item exactly. Legacy assignees
// without a claim count as an equal split of the whole item.
func claimedUnits(item models.Item) *big.Rat {
	sum := new(big.Rat)
	if len(item.Assignments) == 0 && len(item.AssignedTo) > 0 {
		return sum.SetInt64(int64(item.Quantity))
	}
	for _, id := range item.AssignedTo {
		if share, ok := item.Assignments[id]; ok {
			sum.Add(sum, share.Rat())
		}
	}
	return sum
}

// Summarize reports claimed and unclaimed item value for the organizer view.
func Summarize(tab *models.Tab) Summary {
	if tab == nil {
		return Summary{}
	}
	s := Summary{
		Subtotal: tabSubtotal(tab),
		TaxTip:   tab.Tax + tab.Tip,
	}
	for _, item := range tab.Items {
		claimed := claimedUnits(item)
		quantity := big.NewRat(int64(item.Quantity), 1)
		if claimed.Cmp(quantity) > 0 {
			claimed = quantity
		}
		fraction, _ := new(big.Rat).Quo(claimed, quantity).Float64()
		s.Claimed += item.TotalPrice * fraction
		if claimed.Cmp(quantity) == 0 {
			s.FullyClaimed++
		} else {
			s.UnclaimedItems = append(s.UnclaimedItems, item.ID)
		}
	}
	s.Unclaimed = s.Subtotal - s.Claimed
	s.GrandTotal = Round2(s.Subtotal + s.TaxTip)
	s.AllItemsClaimed = len(s.UnclaimedItems) == 0
	return s
}
