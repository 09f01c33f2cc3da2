package domain

import "time"

type TransactionStatus string

const (
	StatusInitiated        TransactionStatus = "INITIATED"
	StatusAwaitingPayment  TransactionStatus = "AWAITING_PAYMENT"
	StatusPaymentConfirmed TransactionStatus = "PAYMENT_CONFIRMED"
	StatusEscrowHeld       TransactionStatus = "ESCROW_HELD"
	StatusTransferPending  TransactionStatus = "TRANSFER_PENDING"
	StatusCompleted        TransactionStatus = "COMPLETED"
	StatusCancelled        TransactionStatus = "CANCELLED"
	StatusRefunded         TransactionStatus = "REFUNDED"
	StatusDisputeOpened    TransactionStatus = "DISPUTE_OPENED"
	StatusDisputeResolved  TransactionStatus = "DISPUTE_RESOLVED"
)

// ActiveTransactionStatuses are the non-terminal states. At most one
// transaction in any of these states may exist per (listing, buyer) pair.
var ActiveTransactionStatuses = []TransactionStatus{
	StatusInitiated,
	StatusAwaitingPayment,
	StatusPaymentConfirmed,
	StatusEscrowHeld,
	StatusTransferPending,
	StatusDisputeOpened,
}

func (s TransactionStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRefunded, StatusDisputeResolved:
		return true
	}
	return false
}

// Transaction is the unit of escrow custody for one agreed sale.
// All monetary amounts are integer centavos; fee rates are basis points.
type Transaction struct {
	ID               string
	Code             string
	ListingID        string
	BuyerID          string
	SellerID         string
	AgreedPrice      int64
	PlatformFee      int64
	PlatformFeeBps   int64
	SellerNet        int64
	PayerIdentity    string
	Status           TransactionStatus
	FlaggedForReview bool
	PaymentDeadline  time.Time
	AutoReleaseAt    *time.Time
	CancelReason     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	PaidAt           *time.Time
	TransferredAt    *time.Time
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// TransactionEvent is one row of the transaction audit trail. The
// PAYMENT_CONFIRMED step is observable here even though settlement applies
// it together with ESCROW_HELD in a single store update.
type TransactionEvent struct {
	ID            string
	TransactionID string
	Status        TransactionStatus
	Actor         string // user id or "system"
	Note          string
	CreatedAt     time.Time
}
