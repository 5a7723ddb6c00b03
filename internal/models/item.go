package models

import "slices"

// Item represents a single line on a receipt.
// A quantity of 1 is one divisible unit that may be split in fractions;
// a larger quantity is claimed in whole units.
type Item struct {
	// ID is the unique identifier for the item (UUID format), stable across edits.
	ID string `json:"id"`

	// Description is the name of the line (e.g., "Pizza", "2x Drinks").
	Description string `json:"description" validate:"max=200"`

	// Quantity is the number of units on the line, at least 1.
	Quantity int `json:"quantity" validate:"gte=0,lte=999"`

	// UnitPrice is informational; TotalPrice is authoritative.
	UnitPrice float64 `json:"unitPrice" validate:"gte=0"`

	// TotalPrice is the price of all units combined.
	TotalPrice float64 `json:"totalPrice" validate:"gte=0"`

	// AssignedTo lists everyone claiming any part of the item, in claim order.
	// It always equals the key set of Assignments.
	AssignedTo []string `json:"assignedTo"`

	// Assignments maps person ID to the claimed number of units.
	Assignments map[string]Share `json:"assignments"`
}

// UnitPriceOf returns TotalPrice / Quantity.
func (i Item) UnitPriceOf() float64 {
	if i.Quantity <= 0 {
		return i.TotalPrice
	}
	return i.TotalPrice / float64(i.Quantity)
}

// IsFractional reports whether the item is a single divisible unit.
func (i Item) IsFractional() bool {
	return i.Quantity <= 1
}

// IsAssigned reports whether personID appears in AssignedTo.
func (i Item) IsAssigned(personID string) bool {
	return slices.Contains(i.AssignedTo, personID)
}

// Clone returns a copy that shares no slices or maps with i.
func (i Item) Clone() Item {
	c := i
	c.AssignedTo = append([]string{}, i.AssignedTo...)
	c.Assignments = make(map[string]Share, len(i.Assignments))
	for id, share := range i.Assignments {
		c.Assignments[id] = share
	}
	return c
}

// Normalize default-fills nil fields and keeps AssignedTo in step with
// Assignments: zero claims are dropped from both, and claims missing from
// AssignedTo are added. Legacy entries in AssignedTo with no claim at all are
// kept so the calculator's equal-split fallback still prices them.
func (i *Item) Normalize() {
	if i.Quantity < 1 {
		i.Quantity = 1
	}
	if i.AssignedTo == nil {
		i.AssignedTo = []string{}
	}
	if i.Assignments == nil {
		i.Assignments = map[string]Share{}
	}

	kept := make([]string, 0, len(i.AssignedTo))
	for _, id := range i.AssignedTo {
		share, ok := i.Assignments[id]
		if ok && share.Sign() <= 0 {
			continue
		}
		if !slices.Contains(kept, id) {
			kept = append(kept, id)
		}
	}
	// Claims without an AssignedTo entry are appended in a stable order.
	var missing []string
	for id, share := range i.Assignments {
		if share.Sign() <= 0 {
			delete(i.Assignments, id)
			continue
		}
		if !slices.Contains(kept, id) {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	i.AssignedTo = append(kept, missing...)
}
