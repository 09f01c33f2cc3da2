package models

import "time"

type ListingModel struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	SellerID    string `gorm:"type:uuid;index"`
	Title       string
	VenueName   string
	EventDate   time.Time
	AskingPrice int64
	Status      string `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
