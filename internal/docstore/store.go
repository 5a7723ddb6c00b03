// Package docstore keeps tabs as whole documents and pushes every new
// snapshot to subscribers.
//
// Writes replace whole fields. Two writers that start from the same snapshot
// race, and the later write wins for every field it names. Nothing here merges
// concurrent edits to the same field.
package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tabie/internal/models"
)

// ErrNotFound is returned when a tab document does not exist.
var ErrNotFound = errors.New("tab not found")

// Store is a shared tab document store.
type Store interface {
	// Create persists a new tab. Missing IDs and timestamps are filled in.
	Create(ctx context.Context, tab *models.Tab) error

	// Get returns the latest snapshot of a tab, or ErrNotFound.
	Get(ctx context.Context, tabID string) (*models.Tab, error)

	// Update replaces the fields set in f and returns the new snapshot.
	Update(ctx context.Context, tabID string, f Fields) (*models.Tab, error)

	// Delete removes a tab. Subscribers receive nil.
	Delete(ctx context.Context, tabID string) error

	// ListByCreator returns the tabs created by userID, newest first.
	ListByCreator(ctx context.Context, userID string) ([]*models.Tab, error)

	// Subscribe calls fn with the current snapshot and then with every later
	// one until ctx is done or the returned func is called. A nil snapshot
	// means the tab does not exist.
	Subscribe(ctx context.Context, tabID string, fn func(*models.Tab)) (func(), error)

	Close() error
}

// Fields names the tab fields a write replaces. Nil fields are left alone.
type Fields struct {
	RestaurantName       *string
	Status               *models.TabStatus
	Items                *[]models.Item
	People               *[]models.Person
	Tax                  *float64
	Tip                  *float64
	TipPercentage        *float64
	SplitTaxTipMethod    *models.SplitMethod
	ReceiptImageURL      *string
	AdminPaymentAccounts *models.PaymentAccounts
	PointsAwarded        *bool
}

// Names returns the names of the fields that are set, for logs and metrics.
func (f Fields) Names() []string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(f.RestaurantName != nil, "restaurantName")
	add(f.Status != nil, "status")
	add(f.Items != nil, "items")
	add(f.People != nil, "people")
	add(f.Tax != nil, "tax")
	add(f.Tip != nil, "tip")
	add(f.TipPercentage != nil, "tipPercentage")
	add(f.SplitTaxTipMethod != nil, "splitTaxTipMethod")
	add(f.ReceiptImageURL != nil, "receiptImage")
	add(f.AdminPaymentAccounts != nil, "adminPaymentAccounts")
	add(f.PointsAwarded != nil, "pointsAwarded")
	return names
}

// IsEmpty reports whether no field is set.
func (f Fields) IsEmpty() bool {
	return len(f.Names()) == 0
}

// Apply writes the set fields onto tab, bumps its version and stamps
// UpdatedAt. Replacing items re-derives the subtotal.
func (f Fields) Apply(tab *models.Tab, now time.Time) {
	if f.RestaurantName != nil {
		tab.RestaurantName = *f.RestaurantName
	}
	if f.Status != nil {
		tab.Status = *f.Status
	}
	if f.Items != nil {
		items := make([]models.Item, len(*f.Items))
		for i, item := range *f.Items {
			items[i] = item.Clone()
		}
		tab.Items = items
		tab.RecomputeSubtotal()
	}
	if f.People != nil {
		tab.People = append([]models.Person{}, *f.People...)
	}
	if f.Tax != nil {
		tab.Tax = *f.Tax
	}
	if f.Tip != nil {
		tab.Tip = *f.Tip
	}
	if f.TipPercentage != nil {
		tab.TipPercentage = *f.TipPercentage
	}
	if f.SplitTaxTipMethod != nil {
		tab.SplitTaxTipMethod = *f.SplitTaxTipMethod
	}
	if f.ReceiptImageURL != nil {
		tab.ReceiptImageURL = *f.ReceiptImageURL
	}
	if f.AdminPaymentAccounts != nil {
		accounts := *f.AdminPaymentAccounts
		tab.AdminPaymentAccounts = &accounts
	}
	if f.PointsAwarded != nil {
		tab.PointsAwarded = *f.PointsAwarded
	}
	tab.Normalize()
	tab.Version++
	tab.UpdatedAt = now
}

// Prepare fills in a new tab's ID, timestamps and defaults.
func Prepare(tab *models.Tab, now time.Time) {
	if tab.ID == "" {
		tab.ID = uuid.New().String()
	}
	if tab.CreatedAt.IsZero() {
		tab.CreatedAt = now
	}
	tab.UpdatedAt = now
	tab.Version = 1
	tab.Normalize()
	if len(tab.Items) > 0 {
		tab.RecomputeSubtotal()
	}
}

// Ptr returns a pointer to v, for building Fields.
func Ptr[T any](v T) *T {
	return &v
}
