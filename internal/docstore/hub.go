package docstore

import (
	"sync"

	"github.com/mmynk/tabie/internal/metrics"
	"github.com/mmynk/tabie/internal/models"
)

// Hub fans tab snapshots out to in-process subscribers.
//
// Each subscriber has its own goroutine and keeps only the newest pending
// snapshot, so a slow reader skips intermediate versions instead of blocking
// writers. Snapshots older than the last one delivered are dropped.
type Hub struct {
	mu     sync.RWMutex
	tabs   map[string]map[uint64]*subscriber
	nextID uint64
}

type subscriber struct {
	fn   func(*models.Tab)
	wake chan struct{}
	done chan struct{}
	once sync.Once

	mu         sync.Mutex
	pending    *models.Tab
	hasPending bool
	delivered  int64
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{tabs: make(map[string]map[uint64]*subscriber)}
}

// Subscribe registers fn for tabID. offer queues a snapshot for this
// subscriber alone; stores read the current snapshot after registering and
// pass it to offer so no write between the two is missed.
func (h *Hub) Subscribe(tabID string, fn func(*models.Tab)) (offer func(*models.Tab), cancel func()) {
	sub := &subscriber{
		fn:   fn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	subs := h.tabs[tabID]
	if subs == nil {
		subs = make(map[uint64]*subscriber)
		h.tabs[tabID] = subs
	}
	subs[id] = sub
	h.mu.Unlock()

	metrics.Subscribers.Inc()
	go sub.run()

	cancel = func() {
		sub.once.Do(func() {
			h.remove(tabID, id)
			close(sub.done)
			metrics.Subscribers.Dec()
		})
	}
	return sub.offer, cancel
}

// Publish hands a snapshot (nil for a deleted tab) to every subscriber of
// tabID.
func (h *Hub) Publish(tabID string, tab *models.Tab) {
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.tabs[tabID]))
	for _, sub := range h.tabs[tabID] {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		sub.offer(tab)
	}
}

// Len returns the number of subscribers for tabID.
func (h *Hub) Len(tabID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.tabs[tabID])
}

func (h *Hub) remove(tabID string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.tabs[tabID]
	delete(subs, id)
	if len(subs) == 0 {
		delete(h.tabs, tabID)
	}
}

func (s *subscriber) offer(tab *models.Tab) {
	s.mu.Lock()
	switch {
	case s.hasPending && s.pending == nil:
		// a pending delete outranks anything read before it
	case tab != nil && s.hasPending && s.pending.Version >= tab.Version:
	default:
		s.pending, s.hasPending = tab.Clone(), true
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) run() {
	for {
		select {
		case <-s.done:
			return
		case <-s.wake:
		}

		s.mu.Lock()
		tab, ok := s.pending, s.hasPending
		s.pending, s.hasPending = nil, false
		if ok && tab != nil {
			if tab.Version <= s.delivered {
				ok = false
			} else {
				s.delivered = tab.Version
			}
		}
		s.mu.Unlock()

		if !ok {
			continue
		}
		select {
		case <-s.done:
			return
		default:
		}
		s.fn(tab)
	}
}
