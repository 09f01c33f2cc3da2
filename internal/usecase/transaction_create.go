package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/fees"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
)

// codeInsertAttempts bounds re-allocation when a freshly allocated code
// loses the unique-index race at insert.
const codeInsertAttempts = 5

// Create opens a new escrow transaction in INITIATED. Guards run in a fixed
// order so each rejection has exactly one error kind; the store's partial
// unique index is the final word on the duplicate-active rule.
func (uc *DefaultTransactionUsecase) Create(ctx context.Context, input *transactiondto.CreateTransactionInput) (*domain.Transaction, error) {
	if input.AgreedPrice <= 0 {
		return nil, domain.ErrInvalidAgreedPrice
	}
	if input.PayerIdentity == "" {
		return nil, domain.ErrMissingPayerIdentity
	}

	listing, err := uc.listingRepo.GetListingByID(input.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Sellable() {
		return nil, domain.ErrListingUnavailable
	}
	if listing.SellerID == input.BuyerID {
		return nil, domain.ErrSelfPurchase
	}

	existing, err := uc.txRepo.GetActiveByListingBuyer(input.ListingID, input.BuyerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.DuplicateActiveTransactionError{ExistingID: existing.ID}
	}

	flagged, err := uc.assessRisk(ctx, input, listing)
	if err != nil {
		return nil, err
	}

	breakdown := fees.Compute(input.AgreedPrice, uc.feePolicy.SellerFeeBps, uc.feePolicy.MinimumFee)

	var tx *domain.Transaction
	for attempt := 0; ; attempt++ {
		code, err := uc.codes.TransactionCode(uc.txRepo.TransactionCodeInUse)
		if err != nil {
			return nil, err
		}

		now := time.Now()
		tx = &domain.Transaction{
			ID:               uuid.NewString(),
			Code:             code,
			ListingID:        input.ListingID,
			BuyerID:          input.BuyerID,
			SellerID:         listing.SellerID,
			AgreedPrice:      input.AgreedPrice,
			PlatformFee:      breakdown.PlatformFee,
			PlatformFeeBps:   breakdown.PlatformFeeBps,
			SellerNet:        breakdown.SellerNet,
			PayerIdentity:    input.PayerIdentity,
			Status:           domain.StatusInitiated,
			FlaggedForReview: flagged,
			PaymentDeadline:  now.Add(uc.deadlines.PaymentDeadline),
			CreatedAt:        now,
			UpdatedAt:        now,
		}

		err = uc.txRepo.CreateTransaction(tx)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrCodeCollision) {
			// Another instance won the unique index between the in-use
			// check and our write; a fresh allocation resolves it.
			if attempt+1 < codeInsertAttempts {
				continue
			}
			return nil, domain.ErrCodeAllocationExhausted
		}
		if errors.Is(err, domain.ErrDuplicateActiveTransaction) {
			// Lost the race against a concurrent Create for the same
			// pair; surface the winner's id.
			winner, lookupErr := uc.txRepo.GetActiveByListingBuyer(input.ListingID, input.BuyerID)
			if lookupErr == nil && winner != nil {
				return nil, &domain.DuplicateActiveTransactionError{ExistingID: winner.ID}
			}
		}
		return nil, err
	}

	note := ""
	if input.OfferID != "" {
		note = fmt.Sprintf("created from accepted offer %s", input.OfferID)
	}
	uc.appendEvent(tx.ID, domain.StatusInitiated, input.BuyerID, note)

	uc.notifier.Notify(tx.SellerID, domain.NotifyTransactionCreated, map[string]string{
		"transaction_code": tx.Code,
		"listing_id":       tx.ListingID,
		"agreed_price":     strconv.FormatInt(tx.AgreedPrice, 10),
	})

	if uc.metrics != nil {
		uc.metrics.TransactionsCreatedTotal.WithLabelValues("pix").Inc()
	}
	return tx, nil
}

// assessRisk consults the fraud service before money moves. BLOCK refuses
// the transaction; REVIEW lets it proceed flagged. A failing fraud service
// also flags: custody must not depend on an auxiliary service being up.
func (uc *DefaultTransactionUsecase) assessRisk(ctx context.Context, input *transactiondto.CreateTransactionInput, listing *domain.Listing) (bool, error) {
	assessment, err := uc.fraudClient.Score(ctx,
		&domain.AccountFacts{
			UserID:         input.BuyerID,
			AccountAgeDays: input.BuyerAccountAgeDays,
			Verified:       input.BuyerVerified,
		},
		&domain.ListingFacts{
			ListingID:   listing.ID,
			SellerID:    listing.SellerID,
			AskingPrice: listing.AskingPrice,
		},
	)
	if err != nil {
		slog.Error("fraud service unavailable, flagging transaction for review",
			"buyer_id", input.BuyerID, "listing_id", listing.ID, "error", err.Error())
		return true, nil
	}

	switch assessment.Recommendation {
	case domain.RecommendBlock:
		return false, domain.ErrHighRiskBuyer
	case domain.RecommendReview:
		if uc.metrics != nil {
			uc.metrics.TransactionsFlaggedTotal.WithLabelValues(string(assessment.Level)).Inc()
		}
		return true, nil
	default:
		return false, nil
	}
}
