package domain

import "time"

// ChatMessage is one utterance between the transaction participants. The
// stored body is the sanitized text; blocked messages are never persisted.
type ChatMessage struct {
	ID            string
	TransactionID string
	SenderID      string
	Body          string
	Severity      string
	Violations    []string
	CreatedAt     time.Time
}

type MessageRepository interface {
	CreateMessage(msg *ChatMessage) error
	ListByTransaction(txID string, page, limit int64) ([]*ChatMessage, int64, error)
}
