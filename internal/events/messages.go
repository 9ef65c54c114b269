package events

import (
	"encoding/json"
	"time"
)

// TransactionEvent is published when a transaction is created or deleted.
// It carries identifiers only; consumers fetch the full row themselves.
type TransactionEvent struct {
	Action        string    `json:"action"` // created or deleted
	TransactionID int64     `json:"transaction_id"`
	UserID        int       `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(action string, transactionID int64, userID int) *TransactionEvent {
	return &TransactionEvent{
		Action:        action,
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
