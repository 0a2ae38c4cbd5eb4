// Package stream implements the full-snapshot subscription hub. Every
// committed mutation publishes a complete replacement of the owner's working
// set; subscribers re-derive all views from it. There are no partial diffs
// and no incremental state, matching the snapshot semantics the analytics
// core is built on.
package stream

import (
	"sync"

	"fullbalance/internal/core"
)

// Snapshot is a complete copy of one owner's working set.
type Snapshot struct {
	Transactions []core.Transaction
	Accounts     []core.Account
}

// Hub fans one owner's snapshots out to that owner's subscribers. Delivery
// is coalescing: a subscriber that has not drained its channel only ever
// sees the latest snapshot, never a backlog.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Snapshot]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Snapshot]struct{})}
}

// Subscribe registers a subscriber for an owner's snapshots. The returned
// cancel function must be called exactly once; afterwards the channel is
// closed.
func (h *Hub) Subscribe(ownerID string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	h.mu.Lock()
	if h.subs[ownerID] == nil {
		h.subs[ownerID] = make(map[chan Snapshot]struct{})
	}
	h.subs[ownerID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[ownerID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
				if len(set) == 0 {
					delete(h.subs, ownerID)
				}
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers a snapshot to every current subscriber of the owner. A
// stale undelivered snapshot is dropped first so the latest always wins.
func (h *Hub) Publish(ownerID string, snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[ownerID] {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// SubscriberCount reports how many subscribers an owner currently has.
func (h *Hub) SubscriberCount(ownerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[ownerID])
}
