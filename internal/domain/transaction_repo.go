package domain

import "time"

type TransactionRepository interface {
	CreateTransaction(tx *Transaction) error
	GetTransactionByID(txID string) (*Transaction, error)
	GetTransactionByCode(code string) (*Transaction, error)
	GetActiveByListingBuyer(listingID, buyerID string) (*Transaction, error)
	TransactionCodeInUse(code string) (bool, error)

	// UpdateStatusCAS moves the transaction from one of the expected
	// statuses to the new status in a single guarded UPDATE. It returns
	// ErrInvalidTransactionState when the row is no longer in any of the
	// expected statuses, so concurrent callers race safely.
	UpdateStatusCAS(txID string, from []TransactionStatus, to TransactionStatus, set map[string]any) error

	AppendEvent(event *TransactionEvent) error
	ListEvents(txID string) ([]*TransactionEvent, error)

	FindPaymentExpired(now time.Time) ([]*Transaction, error)
	FindAutoReleasable(now time.Time) ([]*Transaction, error)
}
