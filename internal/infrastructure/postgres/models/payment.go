package models

import "time"

type PaymentModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	PayerID       string `gorm:"type:uuid"`
	PayeeID       string `gorm:"type:uuid"`
	ExternalRef   string `gorm:"uniqueIndex:idx_payment_external_ref"`
	GrossAmount   int64
	NetAmount     int64
	Method        string
	Status        string `gorm:"index"`
	FailReason    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Transaction   TransactionModel `gorm:"foreignKey:TransactionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}
