package models

import "time"

type TransactionModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	Code             string `gorm:"uniqueIndex:idx_transaction_code"`
	ListingID        string `gorm:"type:uuid;index:idx_tx_listing_buyer"`
	BuyerID          string `gorm:"type:uuid;index:idx_tx_listing_buyer"`
	SellerID         string `gorm:"type:uuid;index"`
	AgreedPrice      int64
	PlatformFee      int64
	PlatformFeeBps   int64
	SellerNet        int64
	PayerIdentity    string
	Status           string `gorm:"index:idx_tx_status_deadline"`
	FlaggedForReview bool
	PaymentDeadline  time.Time `gorm:"index:idx_tx_status_deadline"`
	AutoReleaseAt    *time.Time
	CancelReason     string
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
	PaidAt           *time.Time
	TransferredAt    *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
	Listing          ListingModel `gorm:"foreignKey:ListingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

// TransactionEventModel is the append-only audit trail of status
// transitions, including the PAYMENT_CONFIRMED step that settlement
// applies together with ESCROW_HELD.
type TransactionEventModel struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	TransactionID string `gorm:"type:uuid;index;not null"`
	Status        string `gorm:"not null"`
	Actor         string
	Note          string
	CreatedAt     time.Time
}
