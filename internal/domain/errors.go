package domain

import (
	"errors"
	"fmt"
)

// Validation errors: bad input shape or range, no retry.
var (
	ErrInvalidOfferAmount   = errors.New("offer amount must be positive")
	ErrInvalidAgreedPrice   = errors.New("agreed price must be positive")
	ErrInvalidCounterAmount = errors.New("counter amount must be positive")
	ErrMissingPayerIdentity = errors.New("buyer has no verified payer identity")
	ErrDescriptionTooShort  = errors.New("dispute description is too short")
	ErrDescriptionTooLong   = errors.New("dispute description is too long")
	ErrInvalidDisputeReason = errors.New("dispute reason is not recognized")
)

// State-conflict errors: guard violations, caller may re-fetch and decide.
var (
	ErrListingUnavailable      = errors.New("listing is not sellable")
	ErrSelfPurchase            = errors.New("buyer and seller are the same account")
	ErrInvalidTransactionState = errors.New("transaction is not in a valid state for this operation")
	ErrNotTransactionBuyer     = errors.New("actor is not the transaction buyer")
	ErrNotTransactionSeller    = errors.New("actor is not the transaction seller")
	ErrNotParticipant          = errors.New("actor is not a transaction participant")
	ErrOfferNotPending         = errors.New("offer is not pending")
	ErrOfferExpired            = errors.New("offer has expired")
	ErrNotOfferSeller          = errors.New("actor is not the offer seller")
	ErrDuplicatePendingOffer   = errors.New("a pending offer already exists for this listing and buyer")
	ErrDisputeAlreadyOpen      = errors.New("transaction already has an open dispute")
	ErrDisputeNotOpen          = errors.New("dispute is not open")
	ErrNotAuthority            = errors.New("actor is not a dispute authority")
	ErrHighRiskBuyer           = errors.New("transaction refused by risk assessment")
)

// Code allocation outcomes. A collision means the allocated code lost the
// unique-index race at insert and the caller should retry with a fresh
// allocation; exhaustion is the distinct fatal kind reported once the
// retries are spent, so operators can investigate collision-space pressure
// on human-readable codes.
var (
	ErrCodeCollision           = errors.New("allocated code collided at insert")
	ErrCodeAllocationExhausted = errors.New("code allocation retries exhausted")
)

// External dependency and idempotency outcomes.
var (
	ErrPaymentRequestFailed  = errors.New("payment processor refused the charge request")
	ErrPaymentAlreadySettled = errors.New("payment settlement already applied")
	ErrUnknownDisputeOutcome = errors.New("dispute outcome maps to no known fund-movement rule")
)

var ErrDuplicateActiveTransaction = errors.New("an active transaction already exists for this listing and buyer")

// DuplicateActiveTransactionError carries the conflicting transaction id so
// the caller can redirect instead of retrying.
type DuplicateActiveTransactionError struct {
	ExistingID string
}

func (e *DuplicateActiveTransactionError) Error() string {
	return fmt.Sprintf("an active transaction already exists for this listing and buyer: %s", e.ExistingID)
}

func (e *DuplicateActiveTransactionError) Is(target error) bool {
	return target == ErrDuplicateActiveTransaction
}

var ErrMessageBlocked = errors.New("message blocked by content filter")

// MessageBlockedError reports the single most serious reason a message was
// rejected, plus the full violation set for audit.
type MessageBlockedError struct {
	Reason     string
	Severity   string
	Violations []string
}

func (e *MessageBlockedError) Error() string {
	return fmt.Sprintf("message blocked by content filter: %s", e.Reason)
}

func (e *MessageBlockedError) Is(target error) bool {
	return target == ErrMessageBlocked
}
