// Package claims turns a participant's action on an item into a new item.
//
// Functions never modify their input; they return fresh items (and fresh
// item slices) so callers can write the whole items field back to the
// document store. Every operation is idempotent when reapplied to its own
// result.
//
// One capacity policy covers ToggleClaim, SetQuantityClaim and
// SetFractionalShare: a person may hold at most what the other claimants
// leave free, computed exactly. A claim clamped to zero removes the person.
// SplitEvenly replaces every claim and so never over-commits.
package claims

import (
	"math/big"
	"slices"

	"github.com/mmynk/tabie/internal/models"
)

// Claimed returns the exact sum of all claims on item.
func Claimed(item models.Item) *big.Rat {
	sum := new(big.Rat)
	for _, share := range item.Assignments {
		sum.Add(sum, share.Rat())
	}
	return sum
}

// Remaining returns quantity minus every claim, which may be negative for an
// over-committed legacy item.
func Remaining(item models.Item) models.Share {
	r := big.NewRat(int64(item.Quantity), 1)
	r.Sub(r, Claimed(item))
	return models.ShareFromRat(r)
}

// available is the capacity not held by anyone other than personID.
func available(item models.Item, personID string) *big.Rat {
	r := big.NewRat(int64(item.Quantity), 1)
	for id, share := range item.Assignments {
		if id != personID {
			r.Sub(r, share.Rat())
		}
	}
	return r
}

// withClaim returns a copy of item with personID holding share. A
// non-positive share removes the person from both AssignedTo and
// Assignments.
func withClaim(item models.Item, personID string, share models.Share) models.Item {
	next := item.Clone()
	if share.Sign() <= 0 {
		delete(next.Assignments, personID)
		next.AssignedTo = slices.DeleteFunc(next.AssignedTo, func(id string) bool { return id == personID })
		return next
	}
	next.Assignments[personID] = share
	if !slices.Contains(next.AssignedTo, personID) {
		next.AssignedTo = append(next.AssignedTo, personID)
	}
	return next
}

// clamp limits share to what the other claimants leave free.
func clamp(item models.Item, personID string, share models.Share) models.Share {
	free := available(item, personID)
	if share.Rat().Cmp(free) > 0 {
		return models.ShareFromRat(free)
	}
	return share
}

// hasClaim reports whether personID holds a nonzero claim, or is a legacy
// assignee with no recorded claim.
func hasClaim(item models.Item, personID string) bool {
	share, ok := item.Assignments[personID]
	if ok {
		return share.Sign() > 0
	}
	return item.IsAssigned(personID)
}

// ToggleClaim removes personID's claim if they hold one. Otherwise it claims
// one unit of a multi-quantity item (or whatever is left, if less), or the
// whole of a single-unit item. A fully claimed item is returned unchanged.
func ToggleClaim(item models.Item, personID string) models.Item {
	if hasClaim(item, personID) {
		return withClaim(item, personID, models.Share{})
	}

	free := available(item, personID)
	if free.Sign() <= 0 {
		return item.Clone()
	}
	want := models.Units(int64(item.Quantity))
	if item.Quantity > 1 {
		want = models.Units(1)
	}
	return withClaim(item, personID, clamp(item, personID, want))
}

// SetQuantityClaim sets personID's claim on a multi-quantity item to qty
// units, clamped to the units left by other claimants. qty <= 0 removes the
// person.
func SetQuantityClaim(item models.Item, personID string, qty int) models.Item {
	if qty <= 0 {
		return withClaim(item, personID, models.Share{})
	}
	return withClaim(item, personID, clamp(item, personID, models.Units(int64(qty))))
}

// SetFractionalShare sets personID's share of a single-unit item, clamped to
// the fraction left by other claimants. A non-positive share removes the
// person.
func SetFractionalShare(item models.Item, personID string, share models.Share) models.Item {
	if share.Sign() <= 0 {
		return withClaim(item, personID, models.Share{})
	}
	return withClaim(item, personID, clamp(item, personID, share))
}

// ClearAssignments removes every claim on the item.
func ClearAssignments(item models.Item) models.Item {
	next := item.Clone()
	next.AssignedTo = []string{}
	next.Assignments = map[string]models.Share{}
	return next
}

// SplitEvenly gives each of peopleIDs exactly 1/n, replacing all existing
// claims. It is meant for single-unit items ("split with everyone").
func SplitEvenly(item models.Item, peopleIDs []string) models.Item {
	next := ClearAssignments(item)
	for _, id := range peopleIDs {
		if !slices.Contains(next.AssignedTo, id) {
			next.AssignedTo = append(next.AssignedTo, id)
		}
	}
	if len(next.AssignedTo) == 0 {
		return next
	}
	share := models.Fraction(1, int64(len(next.AssignedTo)))
	for _, id := range next.AssignedTo {
		next.Assignments[id] = share
	}
	return next
}
