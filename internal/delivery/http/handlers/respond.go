package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/repassafesta/escrow-service/internal/domain"
	"gorm.io/gorm"
)

type errorMapping struct {
	status int
	token  string
}

// Every domain error the usecases surface maps to one HTTP status and one
// stable machine token clients can switch on.
var errorMappings = []struct {
	err     error
	mapping errorMapping
}{
	{domain.ErrInvalidOfferAmount, errorMapping{http.StatusBadRequest, "invalid_amount"}},
	{domain.ErrInvalidCounterAmount, errorMapping{http.StatusBadRequest, "invalid_amount"}},
	{domain.ErrInvalidAgreedPrice, errorMapping{http.StatusBadRequest, "invalid_amount"}},
	{domain.ErrMissingPayerIdentity, errorMapping{http.StatusBadRequest, "missing_payer_identity"}},
	{domain.ErrDescriptionTooShort, errorMapping{http.StatusBadRequest, "description_too_short"}},
	{domain.ErrDescriptionTooLong, errorMapping{http.StatusBadRequest, "description_too_long"}},
	{domain.ErrInvalidDisputeReason, errorMapping{http.StatusBadRequest, "invalid_dispute_reason"}},

	{domain.ErrNotTransactionBuyer, errorMapping{http.StatusForbidden, "not_buyer"}},
	{domain.ErrNotTransactionSeller, errorMapping{http.StatusForbidden, "not_seller"}},
	{domain.ErrNotParticipant, errorMapping{http.StatusForbidden, "not_participant"}},
	{domain.ErrNotOfferSeller, errorMapping{http.StatusForbidden, "not_seller"}},
	{domain.ErrNotAuthority, errorMapping{http.StatusForbidden, "not_authority"}},
	{domain.ErrHighRiskBuyer, errorMapping{http.StatusForbidden, "high_risk"}},

	{domain.ErrListingUnavailable, errorMapping{http.StatusConflict, "listing_unavailable"}},
	{domain.ErrSelfPurchase, errorMapping{http.StatusConflict, "self_purchase"}},
	{domain.ErrInvalidTransactionState, errorMapping{http.StatusConflict, "invalid_state"}},
	{domain.ErrOfferNotPending, errorMapping{http.StatusConflict, "offer_not_pending"}},
	{domain.ErrOfferExpired, errorMapping{http.StatusConflict, "offer_expired"}},
	{domain.ErrDuplicatePendingOffer, errorMapping{http.StatusConflict, "duplicate_pending_offer"}},
	{domain.ErrDuplicateActiveTransaction, errorMapping{http.StatusConflict, "duplicate_active_transaction"}},
	{domain.ErrDisputeAlreadyOpen, errorMapping{http.StatusConflict, "dispute_already_open"}},
	{domain.ErrDisputeNotOpen, errorMapping{http.StatusConflict, "dispute_not_open"}},

	{domain.ErrMessageBlocked, errorMapping{http.StatusUnprocessableEntity, "message_blocked"}},
	{domain.ErrPaymentRequestFailed, errorMapping{http.StatusBadGateway, "payment_unavailable"}},
	{domain.ErrCodeAllocationExhausted, errorMapping{http.StatusInternalServerError, "internal_error"}},
	{domain.ErrUnknownDisputeOutcome, errorMapping{http.StatusBadRequest, "invalid_outcome"}},
}

// writeError translates a usecase error into the JSON error envelope.
// Typed errors contribute extra fields: the blocking reason for filtered
// messages, the conflicting id for duplicate transactions.
func writeError(c *gin.Context, err error) {
	var blocked *domain.MessageBlockedError
	if errors.As(err, &blocked) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "message_blocked",
			"message":    blocked.Reason,
			"severity":   blocked.Severity,
			"violations": blocked.Violations,
		})
		return
	}

	var duplicate *domain.DuplicateActiveTransactionError
	if errors.As(err, &duplicate) {
		c.JSON(http.StatusConflict, gin.H{
			"error":                   "duplicate_active_transaction",
			"message":                 duplicate.Error(),
			"existing_transaction_id": duplicate.ExistingID,
		})
		return
	}

	for _, entry := range errorMappings {
		if errors.Is(err, entry.err) {
			c.JSON(entry.mapping.status, gin.H{
				"error":   entry.mapping.token,
				"message": entry.err.Error(),
			})
			return
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "resource not found",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "unexpected error",
	})
}
