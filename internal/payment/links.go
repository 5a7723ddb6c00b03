// Package payment builds deep links into payment apps so a guest can pay the
// organizer their share. Money never moves through Tabie.
package payment

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mmynk/tabie/internal/models"
)

// Method is a way a guest can pay.
type Method string

const (
	Venmo   Method = "venmo"
	CashApp Method = "cashapp"
	PayPal  Method = "paypal"
	Cash    Method = "cash"
	Other   Method = "other"
)

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	switch m {
	case Venmo, CashApp, PayPal, Cash, Other:
		return true
	}
	return false
}

// Link is a ready-to-open payment URL.
type Link struct {
	Method Method
	URL    string
}

// handle strips the decoration people type in front of account names.
func handle(s string) string {
	return strings.TrimLeft(strings.TrimSpace(s), "@$")
}

func amountString(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// VenmoURL opens a private Venmo payment to user prefilled with amount and note.
func VenmoURL(user string, amount float64, note string) string {
	return fmt.Sprintf("https://venmo.com/%s?txn=pay&amount=%s&note=%s&audience=private",
		url.PathEscape(handle(user)), amountString(amount), url.QueryEscape(note))
}

// CashAppURL opens Cash App on the $cashtag with amount filled in.
func CashAppURL(cashtag string, amount float64) string {
	return fmt.Sprintf("https://cash.app/$%s/%s", url.PathEscape(handle(cashtag)), amountString(amount))
}

// PayPalURL opens a PayPal.Me payment for amount.
func PayPalURL(user string, amount float64) string {
	return fmt.Sprintf("https://paypal.me/%s/%s", url.PathEscape(handle(user)), amountString(amount))
}

// Links returns one link per configured account, in Venmo, Cash App, PayPal
// order. Accounts left blank are skipped.
func Links(accounts *models.PaymentAccounts, amount float64, note string) []Link {
	if accounts == nil {
		return nil
	}
	var links []Link
	if handle(accounts.Venmo) != "" {
		links = append(links, Link{Method: Venmo, URL: VenmoURL(accounts.Venmo, amount, note)})
	}
	if handle(accounts.CashApp) != "" {
		links = append(links, Link{Method: CashApp, URL: CashAppURL(accounts.CashApp, amount)})
	}
	if handle(accounts.PayPal) != "" {
		links = append(links, Link{Method: PayPal, URL: PayPalURL(accounts.PayPal, amount)})
	}
	return links
}

// Note is the memo attached to a payment for a tab.
func Note(restaurantName string) string {
	if restaurantName == "" {
		return "Tabie"
	}
	return "Tabie: " + restaurantName
}
