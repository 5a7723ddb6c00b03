// Package calculator computes what each participant owes on a tab.
//
// Every function here is pure: it reads a tab snapshot and returns numbers.
// Two clients holding the same snapshot compute the same totals to the cent
// because items and people are always walked in slice order and rounding
// happens once, on the final total.
package calculator

import (
	"math"

	"github.com/mmynk/tabie/internal/models"
)

// PersonItem is one item's contribution to a person's subtotal.
type PersonItem struct {
	ItemID      string
	Description string
	Share       models.Share
	Amount      float64 // This person's share of the item, unrounded
}

// PersonSplit is the calculated split for one person.
type PersonSplit struct {
	PersonID string
	Name     string
	Subtotal float64
	TaxTip   float64
	Total    float64 // Rounded to cents
	Items    []PersonItem
}

// Round2 rounds to cents, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// itemShare returns personID's contribution to the cost of item and whether
// the person has any stake in it.
//
// A recorded claim is priced per unit. A person listed in AssignedTo without a
// recorded claim (documents written before claims existed) pays an equal
// split of the item. A recorded zero claim is a zero contribution and never
// falls back.
func itemShare(item models.Item, personID string) (models.Share, float64, bool) {
	if !item.IsAssigned(personID) {
		return models.Share{}, 0, false
	}
	if share, ok := item.Assignments[personID]; ok {
		return share, item.UnitPriceOf() * share.Float(), true
	}
	n := int64(len(item.AssignedTo))
	return models.Fraction(int64(item.Quantity), n), item.TotalPrice / float64(n), true
}

// PersonSubtotal is the person's share of item costs before tax and tip.
func PersonSubtotal(tab *models.Tab, personID string) float64 {
	if tab == nil {
		return 0
	}
	var total float64
	for _, item := range tab.Items {
		if _, amount, ok := itemShare(item, personID); ok {
			total += amount
		}
	}
	return total
}

// tabSubtotal prefers the sum of items over the cached field, which may be
// stale.
func tabSubtotal(tab *models.Tab) float64 {
	if len(tab.Items) > 0 {
		return models.ItemsSubtotal(tab.Items)
	}
	return tab.Subtotal
}

// PersonTaxTipShare divides tax+tip according to the tab's split method.
// Equal splits ignore personSubtotal. Proportional splits clamp the person's
// proportion to 1 so float drift can never charge one person more than the
// whole tax and tip.
func PersonTaxTipShare(tab *models.Tab, personSubtotal float64) float64 {
	if tab == nil {
		return 0
	}
	extra := tab.Tax + tab.Tip
	if tab.SplitTaxTipMethod == models.SplitEqual && len(tab.People) > 0 {
		return extra / float64(len(tab.People))
	}
	subtotal := tabSubtotal(tab)
	if subtotal > 0 {
		proportion := math.Min(personSubtotal/subtotal, 1.0)
		return extra * proportion
	}
	return 0
}

// PersonTotal is what the person owes, rounded to cents.
// A nil tab is a valid "not loaded yet" state and totals zero.
func PersonTotal(tab *models.Tab, personID string) float64 {
	if tab == nil {
		return 0
	}
	subtotal := PersonSubtotal(tab, personID)
	return Round2(subtotal + PersonTaxTipShare(tab, subtotal))
}

// CalculateSplits computes every person's split in People order, with the
// per-item breakdown the organizer view shows.
func CalculateSplits(tab *models.Tab) []PersonSplit {
	if tab == nil {
		return nil
	}
	splits := make([]PersonSplit, 0, len(tab.People))
	for _, person := range tab.People {
		split := PersonSplit{
			PersonID: person.ID,
			Name:     person.Name,
		}
		for _, item := range tab.Items {
			share, amount, ok := itemShare(item, person.ID)
			if !ok {
				continue
			}
			split.Subtotal += amount
			split.Items = append(split.Items, PersonItem{
				ItemID:      item.ID,
				Description: item.Description,
				Share:       share,
				Amount:      amount,
			})
		}
		split.TaxTip = PersonTaxTipShare(tab, split.Subtotal)
		split.Total = Round2(split.Subtotal + split.TaxTip)
		splits = append(splits, split)
	}
	return splits
}
