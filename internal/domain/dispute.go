package domain

import "time"

type DisputeStatus string

const (
	DisputeOpen     DisputeStatus = "OPEN"
	DisputeResolved DisputeStatus = "RESOLVED"
)

type DisputeReason string

const (
	ReasonTransferNotDone       DisputeReason = "TRANSFER_NOT_DONE"
	ReasonTransferInvalid       DisputeReason = "TRANSFER_INVALID"
	ReasonListingMisrepresented DisputeReason = "LISTING_MISREPRESENTED"
	ReasonSellerUnresponsive    DisputeReason = "SELLER_UNRESPONSIVE"
	ReasonOther                 DisputeReason = "OTHER"
)

var DisputeReasons = []DisputeReason{
	ReasonTransferNotDone,
	ReasonTransferInvalid,
	ReasonListingMisrepresented,
	ReasonSellerUnresponsive,
	ReasonOther,
}

func (r DisputeReason) Valid() bool {
	for _, known := range DisputeReasons {
		if r == known {
			return true
		}
	}
	return false
}

type DisputeOutcome string

const (
	OutcomeRefundBuyer   DisputeOutcome = "REFUND_BUYER"
	OutcomeReleaseSeller DisputeOutcome = "RELEASE_SELLER"
	OutcomeSplit         DisputeOutcome = "SPLIT"
)

const (
	DisputeDescriptionMin = 50
	DisputeDescriptionMax = 2000
)

// Dispute freezes its transaction's custody while an authority decides the
// outcome. PriorStatus remembers where the transaction was interrupted.
type Dispute struct {
	ID            string
	Code          string
	TransactionID string
	OpenerID      string
	Reason        DisputeReason
	Description   string
	EvidenceURLs  []string
	Status        DisputeStatus
	Outcome       DisputeOutcome
	PriorStatus   TransactionStatus
	ResolvedBy    string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

type DisputeRepository interface {
	// OpenDispute persists the dispute and moves its transaction to
	// DISPUTE_OPENED in one store transaction. The transaction must still
	// be in one of the fromStatuses or ErrInvalidTransactionState is
	// returned and nothing is written.
	OpenDispute(dispute *Dispute, fromStatuses []TransactionStatus) error

	// ResolveDispute marks the dispute RESOLVED, moves the transaction to
	// DISPUTE_RESOLVED and writes the outcome's ledger entries atomically.
	ResolveDispute(disputeID string, outcome DisputeOutcome, resolvedBy string, entries []*LedgerEntry) error

	GetDisputeByID(disputeID string) (*Dispute, error)
	GetOpenByTransaction(txID string) (*Dispute, error)
	DisputeCodeInUse(code string) (bool, error)
	ListDisputes(status DisputeStatus, page, limit int64) ([]*Dispute, int64, error)
}
