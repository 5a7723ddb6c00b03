// Package api defines the request and response messages of the Tabie RPC
// services. Messages travel as JSON; apiconnect wires them to Connect.
package api

import "github.com/mmynk/tabie/internal/models"

// LineInput is a receipt line entered by hand or returned by the scanner.
type LineInput struct {
	Description string  `json:"description" validate:"max=200"`
	Quantity    int     `json:"quantity" validate:"gte=0,lte=999"`
	UnitPrice   float64 `json:"unitPrice" validate:"gte=0"`
	TotalPrice  float64 `json:"totalPrice" validate:"gte=0"`
}

// PersonItem is one item's contribution to a person's subtotal.
type PersonItem struct {
	ItemID      string       `json:"itemId"`
	Description string       `json:"description"`
	Share       models.Share `json:"share"`
	Amount      float64      `json:"amount"`
}

// PaymentLink is a deep link a guest can open to pay the organizer.
type PaymentLink struct {
	Method string `json:"method"`
	URL    string `json:"url"`
}

// PersonTotal is what one participant owes.
type PersonTotal struct {
	PersonID      string        `json:"personId"`
	Name          string        `json:"name"`
	Subtotal      float64       `json:"subtotal"`
	TaxTip        float64       `json:"taxTip"`
	Total         float64       `json:"total"`
	Items         []PersonItem  `json:"items"`
	PaymentStatus string        `json:"paymentStatus"`
	PaymentLinks  []PaymentLink `json:"paymentLinks,omitempty"`
}

// TipSuggestion is a preset tip.
type TipSuggestion struct {
	Percentage int     `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// Totals is everything derived from a tab snapshot.
type Totals struct {
	People            []PersonTotal   `json:"people"`
	Subtotal          float64         `json:"subtotal"`
	Claimed           float64         `json:"claimed"`
	Unclaimed         float64         `json:"unclaimed"`
	TaxTip            float64         `json:"taxTip"`
	GrandTotal        float64         `json:"grandTotal"`
	FullyClaimedItems int             `json:"fullyClaimedItems"`
	UnclaimedItemIDs  []string        `json:"unclaimedItemIds"`
	AllItemsClaimed   bool            `json:"allItemsClaimed"`
	Owed              float64         `json:"owed"`
	PaymentsClaimed   float64         `json:"paymentsClaimed"`
	PaymentsConfirmed float64         `json:"paymentsConfirmed"`
	Outstanding       float64         `json:"outstanding"`
	TipSuggestions    []TipSuggestion `json:"tipSuggestions"`
}

// TabResponse carries a tab snapshot and its totals.
type TabResponse struct {
	Tab    *models.Tab `json:"tab"`
	Totals *Totals     `json:"totals"`
}

type CreateTabRequest struct {
	RestaurantName    string      `json:"restaurantName" validate:"max=120"`
	OrganizerName     string      `json:"organizerName" validate:"max=60"`
	Items             []LineInput `json:"items" validate:"dive"`
	Tax               float64     `json:"tax" validate:"gte=0"`
	Tip               float64     `json:"tip" validate:"gte=0"`
	TipPercentage     float64     `json:"tipPercentage" validate:"gte=0,lte=100"`
	SplitTaxTipMethod string      `json:"splitTaxTipMethod" validate:"omitempty,oneof=equal proportional"`
}

type GetTabRequest struct {
	TabID string `json:"tabId" validate:"required"`
}

type ListTabsRequest struct{}

// TabSummary is a row in the organizer's tab list.
type TabSummary struct {
	ID             string           `json:"id"`
	RestaurantName string           `json:"restaurantName"`
	Status         models.TabStatus `json:"status"`
	Subtotal       float64          `json:"subtotal"`
	GrandTotal     float64          `json:"grandTotal"`
	People         int              `json:"people"`
	AllConfirmed   bool             `json:"allConfirmed"`
	CreatedAt      int64            `json:"createdAt"`
}

type ListTabsResponse struct {
	Tabs []TabSummary `json:"tabs"`
}

// UpdateTabRequest replaces every field that is set.
type UpdateTabRequest struct {
	TabID             string           `json:"tabId" validate:"required"`
	RestaurantName    *string          `json:"restaurantName,omitempty" validate:"omitempty,max=120"`
	Tax               *float64         `json:"tax,omitempty" validate:"omitempty,gte=0"`
	Tip               *float64         `json:"tip,omitempty" validate:"omitempty,gte=0"`
	TipPercentage     *float64         `json:"tipPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	SplitTaxTipMethod *string          `json:"splitTaxTipMethod,omitempty" validate:"omitempty,oneof=equal proportional"`
	Status            *string          `json:"status,omitempty" validate:"omitempty,oneof=setup open locked completed"`
	Items             *[]models.Item   `json:"items,omitempty" validate:"omitempty,dive"`
	People            *[]models.Person `json:"people,omitempty" validate:"omitempty,dive"`
}

type DeleteTabRequest struct {
	TabID string `json:"tabId" validate:"required"`
}

type DeleteTabResponse struct{}

type PublishTabRequest struct {
	TabID string `json:"tabId" validate:"required"`
}

type JoinTabRequest struct {
	TabID string `json:"tabId" validate:"required"`
	Name  string `json:"name" validate:"required,max=60"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

// JoinTabResponse returns the new participant's ID; clients keep it to claim
// items as that person.
type JoinTabResponse struct {
	PersonID string      `json:"personId"`
	Tab      *models.Tab `json:"tab"`
	Totals   *Totals     `json:"totals"`
}

type AddPersonRequest struct {
	TabID string `json:"tabId" validate:"required"`
	Name  string `json:"name" validate:"required,max=60"`
	Phone string `json:"phone" validate:"omitempty,max=32"`
}

type RemovePersonRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
}

type SetItemsRequest struct {
	TabID string      `json:"tabId" validate:"required"`
	Items []LineInput `json:"items" validate:"dive"`
}

type AddItemRequest struct {
	TabID       string  `json:"tabId" validate:"required"`
	Description string  `json:"description" validate:"max=200"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type RemoveItemRequest struct {
	TabID  string `json:"tabId" validate:"required"`
	ItemID string `json:"itemId" validate:"required"`
}

type ToggleClaimRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	ItemID   string `json:"itemId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
}

type SetQuantityClaimRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	ItemID   string `json:"itemId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type SetFractionalShareRequest struct {
	TabID    string       `json:"tabId" validate:"required"`
	ItemID   string       `json:"itemId" validate:"required"`
	PersonID string       `json:"personId" validate:"required"`
	Share    models.Share `json:"share"`
}

type ClearAssignmentsRequest struct {
	TabID  string `json:"tabId" validate:"required"`
	ItemID string `json:"itemId" validate:"required"`
}

type SplitEvenlyRequest struct {
	TabID     string   `json:"tabId" validate:"required"`
	ItemID    string   `json:"itemId" validate:"required"`
	PersonIDs []string `json:"personIds" validate:"required,min=1,dive,required"`
}

type GetTotalsRequest struct {
	TabID string `json:"tabId" validate:"required"`
}

type GetTotalsResponse struct {
	Totals *Totals `json:"totals"`
}

type ClaimPaymentRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
	PaidVia  string `json:"paidVia" validate:"omitempty,oneof=venmo cashapp paypal cash other"`
}

type ConfirmPaymentRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
	PaidVia  string `json:"paidVia" validate:"omitempty,oneof=venmo cashapp paypal cash other"`
}

type RejectPaymentRequest struct {
	TabID    string `json:"tabId" validate:"required"`
	PersonID string `json:"personId" validate:"required"`
}

// PaymentResponse reports the tab after a payment change, and the points the
// organizer earned if this change settled the tab.
type PaymentResponse struct {
	Tab          *models.Tab `json:"tab"`
	Totals       *Totals     `json:"totals"`
	PointsEarned int64       `json:"pointsEarned"`
}

type SubscribeRequest struct {
	TabID string `json:"tabId" validate:"required"`
}

// TabEvent is one pushed snapshot. Deleted is set, and Tab is nil, once the
// tab is gone; the stream ends after it.
type TabEvent struct {
	Tab     *models.Tab `json:"tab,omitempty"`
	Totals  *Totals     `json:"totals,omitempty"`
	Deleted bool        `json:"deleted,omitempty"`
}
