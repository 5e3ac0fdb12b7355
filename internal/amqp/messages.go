package amqp

import (
	"encoding/json"
	"time"
)

// Transaction event sources.
const (
	SourceManual    = "manual"
	SourceRecurring = "recurring"
)

// TransactionCreatedMessage announces a newly persisted transaction. It
// carries enough detail for consumers (budget alerting) to act without a
// database round trip.
type TransactionCreatedMessage struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	Amount        string    `json:"amount"`
	Date          string    `json:"date"`
	Source        string    `json:"source"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionCreatedMessage builds a message stamped with the current time.
func NewTransactionCreatedMessage(txID, userID, txType, category, amount, date, source string) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		TransactionID: txID,
		UserID:        userID,
		Type:          txType,
		Category:      category,
		Amount:        amount,
		Date:          date,
		Source:        source,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionCreatedMessageFromJSON parses a message from JSON bytes.
func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
