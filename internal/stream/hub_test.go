package stream

import (
	"testing"

	"fullbalance/internal/core"
)

func snapshotOf(n int) Snapshot {
	txs := make([]core.Transaction, n)
	return Snapshot{Transactions: txs}
}

func TestSubscribeAndPublish(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("owner-1")
	defer cancel()

	h.Publish("owner-1", snapshotOf(3))

	snap := <-ch
	if len(snap.Transactions) != 3 {
		t.Fatalf("expected snapshot with 3 transactions, got %d", len(snap.Transactions))
	}
}

func TestPublishCoalescesToLatest(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("owner-1")
	defer cancel()

	// Undrained subscriber: only the latest snapshot survives.
	h.Publish("owner-1", snapshotOf(1))
	h.Publish("owner-1", snapshotOf(2))
	h.Publish("owner-1", snapshotOf(3))

	snap := <-ch
	if len(snap.Transactions) != 3 {
		t.Fatalf("expected latest snapshot (3 transactions), got %d", len(snap.Transactions))
	}
	select {
	case extra := <-ch:
		t.Fatalf("expected no backlog, got snapshot with %d transactions", len(extra.Transactions))
	default:
	}
}

func TestPublishIsScopedToOwner(t *testing.T) {
	h := NewHub()
	ch1, cancel1 := h.Subscribe("owner-1")
	defer cancel1()
	ch2, cancel2 := h.Subscribe("owner-2")
	defer cancel2()

	h.Publish("owner-1", snapshotOf(1))

	if len((<-ch1).Transactions) != 1 {
		t.Fatal("owner-1 subscriber missed its snapshot")
	}
	select {
	case <-ch2:
		t.Fatal("owner-2 subscriber received a foreign snapshot")
	default:
	}
}

func TestCancelClosesChannel(t *testing.T) {
	h := NewHub()
	ch, cancel := h.Subscribe("owner-1")

	if got := h.SubscriberCount("owner-1"); got != 1 {
		t.Fatalf("expected 1 subscriber, got %d", got)
	}

	cancel()

	if _, open := <-ch; open {
		t.Fatal("channel must be closed after cancel")
	}
	if got := h.SubscriberCount("owner-1"); got != 0 {
		t.Fatalf("expected 0 subscribers, got %d", got)
	}

	// Publishing after cancel must not panic.
	h.Publish("owner-1", snapshotOf(1))
}
