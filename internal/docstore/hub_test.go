package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/tabie/internal/models"
)

func receive(t *testing.T, ch <-chan *models.Tab) *models.Tab {
	t.Helper()
	select {
	case tab := <-ch:
		return tab
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestHubDeliversInOrder(t *testing.T) {
	hub := NewHub()
	got := make(chan *models.Tab, 8)
	offer, cancel := hub.Subscribe("t", func(tab *models.Tab) { got <- tab })
	defer cancel()

	offer(&models.Tab{ID: "t", Version: 1})
	assert.Equal(t, int64(1), receive(t, got).Version)

	hub.Publish("t", &models.Tab{ID: "t", Version: 2})
	assert.Equal(t, int64(2), receive(t, got).Version)

	hub.Publish("t", nil)
	assert.Nil(t, receive(t, got))
}

func TestHubSkipsStaleSnapshots(t *testing.T) {
	hub := NewHub()
	got := make(chan *models.Tab, 8)
	offer, cancel := hub.Subscribe("t", func(tab *models.Tab) { got <- tab })
	defer cancel()

	hub.Publish("t", &models.Tab{ID: "t", Version: 3})
	assert.Equal(t, int64(3), receive(t, got).Version)

	// an initial read that lost the race with a write
	offer(&models.Tab{ID: "t", Version: 2})
	hub.Publish("t", &models.Tab{ID: "t", Version: 4})
	assert.Equal(t, int64(4), receive(t, got).Version)
}

func TestHubDeliversCopies(t *testing.T) {
	hub := NewHub()
	got := make(chan *models.Tab, 1)
	_, cancel := hub.Subscribe("t", func(tab *models.Tab) { got <- tab })
	defer cancel()

	tab := &models.Tab{ID: "t", Version: 1, People: []models.Person{{ID: "a"}}}
	hub.Publish("t", tab)
	received := receive(t, got)
	received.People[0].Name = "changed"

	assert.Empty(t, tab.People[0].Name)
}

func TestHubCancel(t *testing.T) {
	hub := NewHub()
	_, cancelA := hub.Subscribe("t", func(*models.Tab) {})
	_, cancelB := hub.Subscribe("t", func(*models.Tab) {})
	require.Equal(t, 2, hub.Len("t"))

	cancelA()
	cancelA()
	assert.Equal(t, 1, hub.Len("t"))

	cancelB()
	assert.Equal(t, 0, hub.Len("t"))
	hub.Publish("t", &models.Tab{Version: 1})
}
