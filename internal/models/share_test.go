package models

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFraction(t *testing.T) {
	assert.Equal(t, Share{N: 1, D: 2}, Fraction(2, 4))
	assert.Equal(t, Share{N: -1, D: 3}, Fraction(1, -3))
	assert.Equal(t, Share{}, Fraction(5, 0))
	assert.True(t, Fraction(0, 7).IsZero())
	assert.Equal(t, "1/3", Fraction(2, 6).String())
	assert.Equal(t, "2", Units(2).String())
}

func TestShareFromRat(t *testing.T) {
	assert.Equal(t, Fraction(2, 3), ShareFromRat(big.NewRat(4, 6)))
	assert.Equal(t, Share{}, ShareFromRat(new(big.Rat)))

	// 1 - 2^-70 does not fit in int64 and floors to thousandths.
	huge := new(big.Int).Lsh(big.NewInt(1), 70)
	r := new(big.Rat).SetFrac(new(big.Int).Sub(huge, big.NewInt(1)), huge)
	assert.Equal(t, Fraction(999, 1000), ShareFromRat(r))
	assert.Equal(t, Fraction(-1, 1000), ShareFromRat(new(big.Rat).Neg(new(big.Rat).SetFrac(big.NewInt(1), huge))))
}

func TestShareFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want Share
	}{
		{0.5, Fraction(1, 2)},
		{0.333, Fraction(1, 3)},
		{1.0 / 3, Fraction(1, 3)},
		{0.25, Fraction(1, 4)},
		{2, Units(2)},
		{0.33, Fraction(33, 100)},
		{0, Share{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShareFromFloat(tt.in), "ShareFromFloat(%v)", tt.in)
	}
}

func TestShareJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Share{"a": Fraction(1, 3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"n":1,"d":3}}`, string(data))

	var decoded map[string]Share
	require.NoError(t, json.Unmarshal([]byte(`{"a":{"n":2,"d":6},"b":0.5,"c":1}`), &decoded))
	assert.Equal(t, Fraction(1, 3), decoded["a"])
	assert.Equal(t, Fraction(1, 2), decoded["b"])
	assert.Equal(t, Units(1), decoded["c"])

	var bad Share
	assert.Error(t, json.Unmarshal([]byte(`"half"`), &bad))
}

func TestItemNormalize(t *testing.T) {
	item := Item{
		ID:         "x",
		Quantity:   0,
		AssignedTo: []string{"A", "A", "B", "C"},
		Assignments: map[string]Share{
			"A": Units(1),
			"B": {},
			"D": Fraction(1, 4),
		},
	}
	item.Normalize()

	assert.Equal(t, 1, item.Quantity)
	// C is a legacy assignee without a claim, D had a claim but no entry.
	assert.Equal(t, []string{"A", "C", "D"}, item.AssignedTo)
	assert.NotContains(t, item.Assignments, "B")

	var empty Item
	empty.Normalize()
	assert.NotNil(t, empty.AssignedTo)
	assert.NotNil(t, empty.Assignments)
}

func TestTabNormalizeAndSettlement(t *testing.T) {
	tab := &Tab{People: []Person{{ID: "org"}, {ID: "g1", PaymentStatus: PaymentConfirmed}}}
	tab.Normalize()

	assert.Equal(t, TabStatusSetup, tab.Status)
	assert.Equal(t, SplitEqual, tab.SplitTaxTipMethod)
	assert.Equal(t, PaymentPending, tab.People[0].PaymentStatus)
	assert.NotNil(t, tab.Items)
	assert.False(t, tab.AllConfirmed())

	tab.People[0].PaymentStatus = PaymentConfirmed
	assert.True(t, tab.AllConfirmed())
	assert.False(t, (&Tab{}).AllConfirmed())
}

func TestTabClone(t *testing.T) {
	item := Item{ID: "i", Quantity: 1, AssignedTo: []string{"A"}, Assignments: map[string]Share{"A": Units(1)}}
	tab := &Tab{
		Items:                []Item{item},
		People:               []Person{{ID: "A"}},
		AdminPaymentAccounts: &PaymentAccounts{Venmo: "org"},
	}
	c := tab.Clone()
	c.Items[0].Assignments["B"] = Units(1)
	c.Items[0].AssignedTo[0] = "Z"
	c.People[0].Name = "changed"
	c.AdminPaymentAccounts.Venmo = "other"

	assert.NotContains(t, tab.Items[0].Assignments, "B")
	assert.Equal(t, "A", tab.Items[0].AssignedTo[0])
	assert.Empty(t, tab.People[0].Name)
	assert.Equal(t, "org", tab.AdminPaymentAccounts.Venmo)
}
