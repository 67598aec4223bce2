package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangedMessage notifies consumers that one user's ledger was
// rewritten. It carries no record data: the worker re-reads the
// user's snapshot from the record store, so a stale message always
// mirrors the current state, never an old one.
type LedgerChangedMessage struct {
	User      string    `json:"user"`
	Op        string    `json:"op"` // add, update, delete
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangedMessage(user, op string, count int) *LedgerChangedMessage {
	return &LedgerChangedMessage{
		User:      user,
		Op:        op,
		Count:     count,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangedMessageFromJSON creates a message from JSON bytes
func LedgerChangedMessageFromJSON(data []byte) (*LedgerChangedMessage, error) {
	var msg LedgerChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
