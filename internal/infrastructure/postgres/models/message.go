package models

import "time"

type ChatMessageModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	SenderID      string `gorm:"type:uuid;not null"`
	Body          string `gorm:"type:text"`
	Severity      string
	Violations    string // comma-separated labels
	CreatedAt     time.Time `gorm:"index"`
}
