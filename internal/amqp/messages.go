package amqp

import (
	"encoding/json"
	"time"
)

// LedgerEventMessage is the lightweight change notification published for
// every ledger mutation. It carries only identity; consumers fetch the
// current row from the database, so a stale or duplicated message is
// harmless.
type LedgerEventMessage struct {
	Op        string    `json:"op"`     // "sync" or "delete"
	Entity    string    `json:"entity"` // "transaction" or "booking"
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEventMessage(op, entity, id string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Op:        op,
		Entity:    entity,
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventMessageFromJSON creates a message from JSON bytes.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
