package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabie/internal/models"
)

func TestApply(t *testing.T) {
	items := []models.Item{singleItem(nil), multiItem(2, nil)}

	next, ok := Apply(items, "drinks", func(it models.Item) models.Item {
		return ToggleClaim(it, "A")
	})
	require.True(t, ok)
	assert.True(t, next[1].IsAssigned("A"))
	assert.False(t, items[1].IsAssigned("A"), "input slice must not be modified")

	same, ok := Apply(items, "missing", ClearAssignments)
	assert.False(t, ok)
	assert.Equal(t, items, same)
}

func TestNewItems(t *testing.T) {
	items := NewItems([]ReceiptLine{
		{Description: "Caesar Salad", Quantity: 2, UnitPrice: 9.5, TotalPrice: 19},
		{TotalPrice: 3.5},
	})
	require.Len(t, items, 2)

	assert.NotEmpty(t, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Item 2", items[1].Description)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3.5, items[1].UnitPrice)
	for _, it := range items {
		assert.NotNil(t, it.Assignments)
		assert.NotNil(t, it.AssignedTo)
	}
}

func TestAddRemoveItem(t *testing.T) {
	items := AddItem(nil, "Tiramisu", 8.99)
	require.Len(t, items, 1)
	assert.Equal(t, 8.99, items[0].TotalPrice)
	assert.Equal(t, 1, items[0].Quantity)

	items = AddItem(items, "Coke", 3.29)
	assert.InDelta(t, 12.28, models.ItemsSubtotal(items), 1e-9)

	items = RemoveItem(items, items[0].ID)
	require.Len(t, items, 1)
	assert.Equal(t, "Coke", items[0].Description)
}

func TestRemovePerson(t *testing.T) {
	items := []models.Item{
		singleItem(map[string]models.Share{"A": models.Fraction(1, 2), "B": models.Fraction(1, 2)}, "A", "B"),
		multiItem(2, map[string]models.Share{"A": models.Units(2)}, "A"),
	}

	next := RemovePerson(items, "A")

	assert.Equal(t, []string{"B"}, next[0].AssignedTo)
	assert.Empty(t, next[1].AssignedTo)
	assert.Empty(t, next[1].Assignments)
	assert.Len(t, items[0].AssignedTo, 2, "input must not be modified")
}
