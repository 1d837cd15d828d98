package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"cassa/internal/core"
)

// LedgerEvent is the wire form of a ledger mutation. It carries ids only;
// consumers read the current state from the repository.
type LedgerEvent struct {
	Kind          core.EventKind `json:"kind"`
	TransactionID string         `json:"transactionId,omitempty"`
	UserID        string         `json:"userId"`
	Timestamp     time.Time      `json:"timestamp"`
}

func NewLedgerEvent(ev core.Event) LedgerEvent {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return LedgerEvent{Kind: ev.Kind, TransactionID: ev.TransactionID, UserID: ev.UserID, Timestamp: ts}
}

// Event converts back to the domain form.
func (m LedgerEvent) Event() core.Event {
	return core.Event{Kind: m.Kind, TransactionID: m.TransactionID, UserID: m.UserID, Timestamp: m.Timestamp}
}

func (m LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON decodes a delivery body; an event without an owner is
// rejected since nothing downstream could act on it.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var m LedgerEvent
	if err := json.Unmarshal(data, &m); err != nil {
		return LedgerEvent{}, err
	}
	if m.UserID == "" {
		return LedgerEvent{}, fmt.Errorf("ledger event without user id")
	}
	return m, nil
}
