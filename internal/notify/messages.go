package notify

import (
	"fmt"
	"strings"
)

// DefaultFrontendURL is where links point when no frontend URL is configured.
const DefaultFrontendURL = "https://www.trytabie.com"

// Links builds the frontend URLs sent in messages.
type Links struct {
	BaseURL string
}

func (l Links) base() string {
	if l.BaseURL == "" {
		return DefaultFrontendURL
	}
	return strings.TrimRight(l.BaseURL, "/")
}

// Join is the guest's entry point to a published tab.
func (l Links) Join(tabID string) string {
	return fmt.Sprintf("%s/join/%s", l.base(), tabID)
}

// Pay opens a participant's checkout, or the tab's checkout when personID is
// empty.
func (l Links) Pay(tabID, personID string) string {
	if personID == "" {
		return fmt.Sprintf("%s/checkout/%s", l.base(), tabID)
	}
	return fmt.Sprintf("%s/pay/%s/%s", l.base(), tabID, personID)
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// InviteMessage asks someone to join a tab and claim their items.
func InviteMessage(inviterName, restaurantName, inviteURL string) string {
	return fmt.Sprintf("%s invited you to split %s on Tabie! Tap to claim your items: %s",
		orDefault(inviterName, "Someone"), orDefault(restaurantName, "a bill"), inviteURL)
}

// ReminderMessage nudges a guest who has not paid yet.
func ReminderMessage(participantName, organizerName string, amount float64, payURL string) string {
	return fmt.Sprintf("%s, %s is waiting for your $%.2f payment on Tabie. Pay now: %s",
		orDefault(participantName, "Hey"), orDefault(organizerName, "The organizer"), amount, payURL)
}

// PaymentLinkMessage sends a guest their share and where to pay it.
func PaymentLinkMessage(participantName, restaurantName string, amount float64, payURL string) string {
	return fmt.Sprintf("Hey %s! Your share of %s is $%.2f. Pay securely with Tabie: %s",
		orDefault(participantName, "there"), orDefault(restaurantName, "your meal"), amount, payURL)
}
