package domain

import "time"

type LedgerEntryKind string

const (
	LedgerSellerRelease LedgerEntryKind = "SELLER_RELEASE"
	LedgerBuyerRefund   LedgerEntryKind = "BUYER_REFUND"
	LedgerSplitBuyer    LedgerEntryKind = "SPLIT_BUYER"
	LedgerSplitSeller   LedgerEntryKind = "SPLIT_SELLER"
	LedgerPlatformFee   LedgerEntryKind = "PLATFORM_FEE"
)

// PlatformAccountID is the ledger account that accrues platform fees.
const PlatformAccountID = "platform"

// LedgerEntry credits a user balance as the result of a custody decision
// (completion, refund or dispute resolution). Amounts are centavos.
type LedgerEntry struct {
	ID            string
	TransactionID string
	UserID        string
	Amount        int64
	Kind          LedgerEntryKind
	CreatedAt     time.Time
}

type LedgerRepository interface {
	CreateEntry(entry *LedgerEntry) error
	ListByTransaction(txID string) ([]*LedgerEntry, error)
	UserBalance(userID string) (int64, error)
}
