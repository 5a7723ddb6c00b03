package claims

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mmynk/tabie/internal/models"
)

// ReceiptLine is one line as returned by receipt extraction.
type ReceiptLine struct {
	Description string
	Quantity    int
	UnitPrice   float64
	TotalPrice  float64
}

// Apply returns a fresh items slice with the item matching itemID replaced by
// fn(item). It reports false, and returns the input unchanged, when no item
// matches.
func Apply(items []models.Item, itemID string, fn func(models.Item) models.Item) ([]models.Item, bool) {
	idx := slices.IndexFunc(items, func(it models.Item) bool { return it.ID == itemID })
	if idx < 0 {
		return items, false
	}
	next := make([]models.Item, len(items))
	copy(next, items)
	next[idx] = fn(items[idx])
	return next, true
}

// NewItems turns receipt lines into items with fresh IDs and no claims.
// Missing descriptions become "Item N" and missing quantities become 1.
func NewItems(lines []ReceiptLine) []models.Item {
	items := make([]models.Item, len(lines))
	for i, line := range lines {
		description := line.Description
		if description == "" {
			description = fmt.Sprintf("Item %d", i+1)
		}
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}
		unitPrice := line.UnitPrice
		if unitPrice == 0 {
			unitPrice = line.TotalPrice
		}
		items[i] = models.Item{
			ID:          uuid.New().String(),
			Description: description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  line.TotalPrice,
			AssignedTo:  []string{},
			Assignments: map[string]models.Share{},
		}
	}
	return items
}

// AddItem appends a manually entered single-unit item.
func AddItem(items []models.Item, description string, price float64) []models.Item {
	next := make([]models.Item, len(items), len(items)+1)
	copy(next, items)
	return append(next, NewItems([]ReceiptLine{{
		Description: description,
		Quantity:    1,
		UnitPrice:   price,
		TotalPrice:  price,
	}})...)
}

// RemoveItem returns the items without itemID.
func RemoveItem(items []models.Item, itemID string) []models.Item {
	next := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.ID != itemID {
			next = append(next, item)
		}
	}
	return next
}

// RemovePerson drops personID's claims from every item.
func RemovePerson(items []models.Item, personID string) []models.Item {
	next := make([]models.Item, len(items))
	for i, item := range items {
		next[i] = withClaim(item, personID, models.Share{})
	}
	return next
}
