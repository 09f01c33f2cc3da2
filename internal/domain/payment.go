package domain

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentSettled PaymentStatus = "SETTLED"
	PaymentFailed  PaymentStatus = "FAILED"

	// PaymentOrphaned marks money that settled on the processor side after
	// its transaction had already left AWAITING_PAYMENT. The charge needs a
	// manual refund; it never enters escrow.
	PaymentOrphaned PaymentStatus = "SETTLED_ORPHANED"
)

// Payment is one attempted charge against the external processor. Retries
// produce new rows; at most one row per transaction ever settles.
type Payment struct {
	ID            string
	TransactionID string
	PayerID       string
	PayeeID       string
	ExternalRef   string
	GrossAmount   int64
	NetAmount     int64
	Method        string
	Status        PaymentStatus
	FailReason    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type PaymentRepository interface {
	CreatePayment(payment *Payment) error
	GetPaymentByExternalRef(externalRef string) (*Payment, error)
	ListByTransaction(txID string) ([]*Payment, error)

	// SettlePayment marks the payment SETTLED and advances its transaction
	// AWAITING_PAYMENT -> ESCROW_HELD in one store transaction. A payment
	// that is already settled returns ErrPaymentAlreadySettled so duplicate
	// callbacks are absorbed by the caller.
	SettlePayment(paymentID, txID string, paidAt time.Time) error

	// MarkPaymentOrphaned parks a settled charge whose transaction is no
	// longer awaiting payment. Guarded on PENDING; replays return
	// ErrPaymentAlreadySettled.
	MarkPaymentOrphaned(paymentID string, paidAt time.Time) error

	MarkPaymentFailed(paymentID, reason string) error
}
