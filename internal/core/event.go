package core

import "time"

const (
	EventCreated EventKind = "transaction.created"
	EventUpdated EventKind = "transaction.updated"
	EventDeleted EventKind = "transaction.deleted"
	EventPurged  EventKind = "ledger.purged"
)

// EventKind names a ledger mutation.
type EventKind string

// Event announces that an owner's ledger changed. TransactionID is empty
// for EventPurged.
type Event struct {
	Kind          EventKind `json:"kind"`
	TransactionID string    `json:"transactionId,omitempty"`
	UserID        string    `json:"userId"`
	Timestamp     time.Time `json:"timestamp"`
}
