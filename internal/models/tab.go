package models

import "time"

// TabStatus is the advisory lifecycle state of a tab.
// Nothing in the calculator or the claim mutator refuses work based on it.
type TabStatus string

const (
	TabStatusSetup     TabStatus = "setup"
	TabStatusOpen      TabStatus = "open"
	TabStatusLocked    TabStatus = "locked"
	TabStatusCompleted TabStatus = "completed"
)

// Valid reports whether s is a known status.
func (s TabStatus) Valid() bool {
	switch s {
	case TabStatusSetup, TabStatusOpen, TabStatusLocked, TabStatusCompleted:
		return true
	}
	return false
}

// SplitMethod decides how tax and tip are divided.
type SplitMethod string

const (
	// SplitEqual divides tax+tip evenly across everyone on the tab.
	SplitEqual SplitMethod = "equal"
	// SplitProportional weights tax+tip by each person's share of the subtotal.
	SplitProportional SplitMethod = "proportional"
)

// Valid reports whether m is a known method.
func (m SplitMethod) Valid() bool {
	return m == SplitEqual || m == SplitProportional
}

// PaymentAccounts holds the organizer's payout handles, snapshotted onto the
// tab when it is published so guests can build deep links.
type PaymentAccounts struct {
	Venmo     string `json:"venmo,omitempty"`
	CashApp   string `json:"cashapp,omitempty"`
	PayPal    string `json:"paypal,omitempty"`
	AdminName string `json:"adminName,omitempty"`
}

// Tab is one bill-split session. It is stored and synchronized as a single
// document; clients replace whole fields (items, people, ...) on write.
type Tab struct {
	// ID is the unique identifier for the tab (UUID format).
	ID string `json:"id"`

	// RestaurantName is an optional display label, usually from the receipt.
	RestaurantName string `json:"restaurantName,omitempty"`

	// Status is the advisory lifecycle state (setup -> open -> locked -> completed).
	Status TabStatus `json:"status"`

	// Items are the receipt lines in display order.
	Items []Item `json:"items"`

	// People are the participants. People[0] is the organizer.
	People []Person `json:"people"`

	// Subtotal is the sum of item totals, re-derived whenever items change.
	Subtotal float64 `json:"subtotal"`

	// Tax and Tip are entered by the organizer.
	Tax float64 `json:"tax"`
	Tip float64 `json:"tip"`

	// TipPercentage is the last tip percentage picked, 0 when the tip was typed in.
	TipPercentage float64 `json:"tipPercentage"`

	// SplitTaxTipMethod is how tax+tip are divided.
	SplitTaxTipMethod SplitMethod `json:"splitTaxTipMethod"`

	// CreatedBy is the user ID of the organizer. Used for admin checks only.
	CreatedBy string `json:"createdBy"`

	// ReceiptImageURL points at the uploaded receipt photo, if any.
	ReceiptImageURL string `json:"receiptImage,omitempty"`

	// AdminPaymentAccounts is set when the tab is published.
	AdminPaymentAccounts *PaymentAccounts `json:"adminPaymentAccounts,omitempty"`

	// PointsAwarded is set once the organizer has been rewarded for this tab.
	PointsAwarded bool `json:"pointsAwarded"`

	// Version increases by one on every write.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Organizer returns People[0], or nil for a tab with no people yet.
func (t *Tab) Organizer() *Person {
	if t == nil || len(t.People) == 0 {
		return nil
	}
	return &t.People[0]
}

// FindPerson returns the person with the given ID, or nil.
func (t *Tab) FindPerson(personID string) *Person {
	if t == nil {
		return nil
	}
	for i := range t.People {
		if t.People[i].ID == personID {
			return &t.People[i]
		}
	}
	return nil
}

// FindItem returns the item with the given ID, or nil.
func (t *Tab) FindItem(itemID string) *Item {
	if t == nil {
		return nil
	}
	for i := range t.Items {
		if t.Items[i].ID == itemID {
			return &t.Items[i]
		}
	}
	return nil
}

// PersonIDs returns the participant IDs in order.
func (t *Tab) PersonIDs() []string {
	if t == nil {
		return nil
	}
	ids := make([]string, len(t.People))
	for i, p := range t.People {
		ids[i] = p.ID
	}
	return ids
}

// ItemsSubtotal sums item totals in slice order.
func ItemsSubtotal(items []Item) float64 {
	var sum float64
	for _, item := range items {
		sum += item.TotalPrice
	}
	return sum
}

// RecomputeSubtotal re-derives Subtotal from Items.
func (t *Tab) RecomputeSubtotal() {
	t.Subtotal = ItemsSubtotal(t.Items)
}

// Normalize default-fills optional fields so readers never see nil claim
// maps, and repairs AssignedTo to match the keys of Assignments.
func (t *Tab) Normalize() {
	if t.Items == nil {
		t.Items = []Item{}
	}
	if t.People == nil {
		t.People = []Person{}
	}
	if t.Status == "" {
		t.Status = TabStatusSetup
	}
	if t.SplitTaxTipMethod == "" {
		t.SplitTaxTipMethod = SplitEqual
	}
	for i := range t.Items {
		t.Items[i].Normalize()
	}
	for i := range t.People {
		if t.People[i].PaymentStatus == "" {
			t.People[i].PaymentStatus = PaymentPending
		}
	}
}

// AllConfirmed reports whether every participant's payment is confirmed.
// A tab with no people is never settled.
func (t *Tab) AllConfirmed() bool {
	if t == nil || len(t.People) == 0 {
		return false
	}
	for _, p := range t.People {
		if p.PaymentStatus != PaymentConfirmed {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tab.
func (t *Tab) Clone() *Tab {
	if t == nil {
		return nil
	}
	c := *t
	c.Items = make([]Item, len(t.Items))
	for i, item := range t.Items {
		c.Items[i] = item.Clone()
	}
	c.People = append([]Person(nil), t.People...)
	if t.AdminPaymentAccounts != nil {
		accounts := *t.AdminPaymentAccounts
		c.AdminPaymentAccounts = &accounts
	}
	return &c
}
