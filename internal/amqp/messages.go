package amqp

import (
	"encoding/json"
	"time"
)

// Event types carried by transaction event messages.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TransactionEvent is the lightweight change notification published after a
// local commit. It carries only identifiers; consumers fetch the current
// record from storage, so a stale or reordered event cannot corrupt the
// backup.
type TransactionEvent struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transaction_id"`
	OwnerID       string    `json:"owner_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionEvent creates an event stamped with the current time.
func NewTransactionEvent(eventType, transactionID, ownerID string) *TransactionEvent {
	return &TransactionEvent{
		Type:          eventType,
		TransactionID: transactionID,
		OwnerID:       ownerID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// TransactionEventFromJSON decodes an event from JSON bytes.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
