package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage asks the worker to sync one recorded transaction.
// It carries only the ID and sequence; the worker reads the full row from
// storage so the queue never holds stale copies of the data.
type TransactionSyncMessage struct {
	ID        string    `json:"id"`
	Seq       uint64    `json:"seq"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionSyncMessage(id string, seq uint64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Seq:       seq,
		Timestamp: time.Now(),
	}
}

func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
