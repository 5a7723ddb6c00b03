package models

import "time"

// PaymentStatus tracks out-of-band repayment to the organizer.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentClaimed   PaymentStatus = "claimed"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// Person is a participant on a tab.
type Person struct {
	// ID is the participant identity. The organizer keeps the same ID for the
	// life of the tab; guests get a fresh ID when they join.
	ID string `json:"id" validate:"required"`

	Name  string `json:"name" validate:"required,max=60"`
	Color string `json:"color"`
	Phone string `json:"phone,omitempty"`

	// IsAdmin marks the organizer entry.
	IsAdmin bool `json:"isAdmin,omitempty"`

	// PaymentStatus is guest-reported (claimed) and admin-confirmed.
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"omitempty,oneof=pending claimed confirmed"`

	// PaidAt is set when the payment is claimed or confirmed.
	PaidAt *time.Time `json:"paidAt,omitempty"`

	// PaidVia is venmo, cashapp, paypal, cash or other.
	PaidVia string `json:"paidVia,omitempty"`
}

// Colors is the chip palette handed out to participants in join order.
var Colors = []string{
	"#ef4444",
	"#3b82f6",
	"#22c55e",
	"#a855f7",
	"#f97316",
	"#ec4899",
	"#06b6d4",
	"#eab308",
}

// ColorFor returns the chip color for the n-th participant.
func ColorFor(n int) string {
	return Colors[n%len(Colors)]
}
