package service

import (
	"github.com/mmynk/tabie/internal/calculator"
	"github.com/mmynk/tabie/internal/claims"
	"github.com/mmynk/tabie/internal/models"
	"github.com/mmynk/tabie/internal/payment"
	"github.com/mmynk/tabie/internal/receipt"
	"github.com/mmynk/tabie/pkg/api"
)

// buildTotals derives the split, claim summary and repayment balance from a
// snapshot. Guests who owe something get deep links into the organizer's
// payment accounts.
func buildTotals(tab *models.Tab) *api.Totals {
	summary := calculator.Summarize(tab)
	balance := calculator.CalculateBalance(tab)
	organizer := tab.Organizer()
	note := payment.Note(tab.RestaurantName)

	totals := &api.Totals{
		People:            []api.PersonTotal{},
		Subtotal:          calculator.Round2(summary.Subtotal),
		Claimed:           calculator.Round2(summary.Claimed),
		Unclaimed:         calculator.Round2(summary.Unclaimed),
		TaxTip:            calculator.Round2(summary.TaxTip),
		GrandTotal:        summary.GrandTotal,
		FullyClaimedItems: summary.FullyClaimed,
		UnclaimedItemIDs:  summary.UnclaimedItems,
		AllItemsClaimed:   summary.AllItemsClaimed,
		Owed:              calculator.Round2(balance.Owed),
		PaymentsClaimed:   calculator.Round2(balance.Claimed),
		PaymentsConfirmed: calculator.Round2(balance.Confirmed),
		Outstanding:       calculator.Round2(balance.Outstanding),
	}
	if totals.UnclaimedItemIDs == nil {
		totals.UnclaimedItemIDs = []string{}
	}

	for _, split := range calculator.CalculateSplits(tab) {
		pt := api.PersonTotal{
			PersonID: split.PersonID,
			Name:     split.Name,
			Subtotal: calculator.Round2(split.Subtotal),
			TaxTip:   calculator.Round2(split.TaxTip),
			Total:    split.Total,
			Items:    make([]api.PersonItem, len(split.Items)),
		}
		for i, item := range split.Items {
			pt.Items[i] = api.PersonItem{
				ItemID:      item.ItemID,
				Description: item.Description,
				Share:       item.Share,
				Amount:      calculator.Round2(item.Amount),
			}
		}
		if person := tab.FindPerson(split.PersonID); person != nil {
			pt.PaymentStatus = string(person.PaymentStatus)
		}
		if organizer != nil && split.PersonID != organizer.ID && split.Total > 0 {
			for _, link := range payment.Links(tab.AdminPaymentAccounts, split.Total, note) {
				pt.PaymentLinks = append(pt.PaymentLinks, api.PaymentLink{Method: string(link.Method), URL: link.URL})
			}
		}
		totals.People = append(totals.People, pt)
	}

	totals.TipSuggestions = tipSuggestions(summary.Subtotal)
	return totals
}

func tipSuggestions(subtotal float64) []api.TipSuggestion {
	suggestions := receipt.TipSuggestions(subtotal)
	out := make([]api.TipSuggestion, len(suggestions))
	for i, s := range suggestions {
		out[i] = api.TipSuggestion{Percentage: s.Percentage, Amount: s.Amount}
	}
	return out
}

func receiptLines(lines []api.LineInput) []claims.ReceiptLine {
	out := make([]claims.ReceiptLine, len(lines))
	for i, line := range lines {
		out[i] = claims.ReceiptLine{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		}
	}
	return out
}

func tabSummary(tab *models.Tab) api.TabSummary {
	summary := calculator.Summarize(tab)
	return api.TabSummary{
		ID:             tab.ID,
		RestaurantName: tab.RestaurantName,
		Status:         tab.Status,
		Subtotal:       calculator.Round2(summary.Subtotal),
		GrandTotal:     summary.GrandTotal,
		People:         len(tab.People),
		AllConfirmed:   tab.AllConfirmed(),
		CreatedAt:      tab.CreatedAt.Unix(),
	}
}

func toUser(user *models.User) *api.User {
	return &api.User{
		ID:              user.ID,
		Email:           user.Email,
		DisplayName:     user.DisplayName,
		PaymentAccounts: user.PaymentAccounts,
		CreatedAt:       user.CreatedAt,
	}
}
