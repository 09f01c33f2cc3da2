package models

import "time"

type LedgerEntryModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	UserID        string `gorm:"type:uuid;index;not null"`
	Amount        int64
	Kind          string `gorm:"not null"`
	CreatedAt     time.Time
}
