package models

import "time"

type DisputeModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	Code          string `gorm:"uniqueIndex:idx_dispute_code"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	OpenerID      string `gorm:"type:uuid"`
	Reason        string
	Description   string
	EvidenceURLs  string `gorm:"type:text"` // newline-separated
	Status        string `gorm:"index"`
	Outcome       string
	PriorStatus   string
	ResolvedBy    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ResolvedAt    *time.Time
	Transaction   TransactionModel `gorm:"foreignKey:TransactionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}
