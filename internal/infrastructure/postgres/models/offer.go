package models

import "time"

type OfferModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	ListingID      string `gorm:"type:uuid;index:idx_offer_listing"`
	BuyerID        string `gorm:"type:uuid;index"`
	SellerID       string `gorm:"type:uuid;index"`
	Amount         int64
	Message        string
	Status         string `gorm:"index:idx_offer_status_expires"`
	CounterAmount  int64
	CounterMessage string
	PayerIdentity  string
	BuyerAgeDays   int64
	BuyerVerified  bool
	ExpiresAt      time.Time `gorm:"index:idx_offer_status_expires"`
	RespondedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Listing        ListingModel `gorm:"foreignKey:ListingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}
