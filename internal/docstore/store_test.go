package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/tabie/internal/models"
)

func TestFieldsApply(t *testing.T) {
	tab := &models.Tab{
		ID:       "t",
		Tax:      2,
		Subtotal: 99,
		Version:  4,
		Items:    []models.Item{{ID: "a", Quantity: 1, TotalPrice: 5}},
	}
	items := []models.Item{
		{ID: "a", Quantity: 1, TotalPrice: 5},
		{ID: "b", Quantity: 2, TotalPrice: 7.5},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	Fields{Items: &items, Tip: Ptr(3.0)}.Apply(tab, now)

	assert.Equal(t, 12.5, tab.Subtotal)
	assert.Equal(t, 2.0, tab.Tax)
	assert.Equal(t, 3.0, tab.Tip)
	assert.Equal(t, int64(5), tab.Version)
	assert.Equal(t, now, tab.UpdatedAt)
	assert.NotNil(t, tab.Items[1].Assignments)

	items[0].Description = "changed"
	assert.Empty(t, tab.Items[0].Description, "applied items must not alias the caller's slice")
}

func TestFieldsApply_KeepsSubtotalWithoutItems(t *testing.T) {
	tab := &models.Tab{Subtotal: 40}
	Fields{RestaurantName: Ptr("Luigi's")}.Apply(tab, time.Now())

	assert.Equal(t, 40.0, tab.Subtotal)
	assert.Equal(t, "Luigi's", tab.RestaurantName)
}

func TestFieldsNames(t *testing.T) {
	status := models.TabStatusOpen
	f := Fields{Status: &status, People: &[]models.Person{}}

	assert.Equal(t, []string{"status", "people"}, f.Names())
	assert.False(t, f.IsEmpty())
	assert.True(t, Fields{}.IsEmpty())
}

func TestPrepare(t *testing.T) {
	now := time.Now()
	tab := &models.Tab{Items: []models.Item{{TotalPrice: 4}, {TotalPrice: 6}}}
	Prepare(tab, now)

	assert.NotEmpty(t, tab.ID)
	assert.Equal(t, int64(1), tab.Version)
	assert.Equal(t, now, tab.CreatedAt)
	assert.Equal(t, 10.0, tab.Subtotal)
	assert.Equal(t, models.TabStatusSetup, tab.Status)
}
