package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/repassafesta/escrow-service/internal/config"
	"github.com/repassafesta/escrow-service/internal/contentfilter"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/metrics"
	offerdto "github.com/repassafesta/escrow-service/internal/usecase/dto/offer"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
)

type OfferUsecase interface {
	CreateOffer(input *offerdto.CreateOfferInput) (*domain.Offer, error)
	AcceptOffer(ctx context.Context, offerID, sellerID string) (*domain.Transaction, error)
	RejectOffer(offerID, sellerID string) error
	CounterOffer(input *offerdto.RespondOfferInput) error
	GetOfferByID(offerID string) (*domain.Offer, error)
	ListByListing(listingID string) ([]*domain.Offer, error)
	ExpireOffers() error
}

type DefaultOfferUsecase struct {
	offerRepo   domain.OfferRepository
	listingRepo domain.ListingRepository
	txUsecase   TransactionUsecase
	notifier    domain.NotificationPublisher
	metrics     *metrics.EscrowMetrics
	deadlines   config.Deadlines
}

func NewDefaultOfferUsecase(
	offerRepo domain.OfferRepository,
	listingRepo domain.ListingRepository,
	txUsecase TransactionUsecase,
	notifier domain.NotificationPublisher,
	escrowMetrics *metrics.EscrowMetrics,
	deadlines config.Deadlines,
) *DefaultOfferUsecase {
	return &DefaultOfferUsecase{
		offerRepo:   offerRepo,
		listingRepo: listingRepo,
		txUsecase:   txUsecase,
		notifier:    notifier,
		metrics:     escrowMetrics,
		deadlines:   deadlines,
	}
}

// CreateOffer records a buyer's proposed price. The free-text note runs
// through the strict filter: no money is protected yet, so contact
// exchange blocks the offer outright.
func (uc *DefaultOfferUsecase) CreateOffer(input *offerdto.CreateOfferInput) (*domain.Offer, error) {
	if input.Amount <= 0 {
		return nil, domain.ErrInvalidOfferAmount
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

	if input.Message != "" {
		result := contentfilter.Analyze(input.Message, contentfilter.PreEscrow)
		if result.IsBlocked {
			return nil, &domain.MessageBlockedError{
				Reason:     contentfilter.PrimaryReason(result.Violations),
				Severity:   string(result.Severity),
				Violations: result.Violations,
			}
		}
	}

	pending, err := uc.offerRepo.GetPendingByListingBuyer(input.ListingID, input.BuyerID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, domain.ErrDuplicatePendingOffer
	}

	now := time.Now()
	offer := &domain.Offer{
		ID:            uuid.NewString(),
		ListingID:     input.ListingID,
		BuyerID:       input.BuyerID,
		SellerID:      listing.SellerID,
		Amount:        input.Amount,
		Message:       input.Message,
		Status:        domain.OfferPending,
		PayerIdentity: input.PayerIdentity,
		BuyerAgeDays:  input.BuyerAccountAgeDays,
		BuyerVerified: input.BuyerVerified,
		ExpiresAt:     now.Add(uc.deadlines.OfferTTL),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.offerRepo.CreateOffer(offer); err != nil {
		return nil, err
	}

	uc.notifier.Notify(offer.SellerID, domain.NotifyOfferReceived, map[string]string{
		"listing_id": offer.ListingID,
		"offer_id":   offer.ID,
		"amount":     strconv.FormatInt(offer.Amount, 10),
	})
	if uc.metrics != nil {
		uc.metrics.OffersCreatedTotal.Inc()
	}
	return offer, nil
}

// AcceptOffer locks the offer and opens the escrow transaction at the
// offered amount. The offer moves first so a concurrent respond loses
// cleanly; if the transaction cannot be created the acceptance is
// compensated back to PENDING.
func (uc *DefaultOfferUsecase) AcceptOffer(ctx context.Context, offerID, sellerID string) (*domain.Transaction, error) {
	offer, err := uc.loadForResponse(offerID, sellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = uc.offerRepo.UpdateStatusCAS(offerID, domain.OfferAccepted,
		map[string]any{"responded_at": now})
	if err != nil {
		return nil, err
	}

	tx, err := uc.txUsecase.Create(ctx, &transactiondto.CreateTransactionInput{
		ListingID:           offer.ListingID,
		BuyerID:             offer.BuyerID,
		AgreedPrice:         offer.Amount,
		PayerIdentity:       offer.PayerIdentity,
		OfferID:             offer.ID,
		BuyerAccountAgeDays: offer.BuyerAgeDays,
		BuyerVerified:       offer.BuyerVerified,
	})
	if err != nil {
		if revertErr := uc.offerRepo.RevertAcceptance(offerID); revertErr != nil {
			slog.Error("failed to revert offer acceptance",
				"offer_id", offerID, "error", revertErr.Error())
		}
		return nil, err
	}

	expiredBuyers, err := uc.offerRepo.ExpirePendingSiblings(offer.ListingID, offerID)
	if err != nil {
		slog.Error("failed to expire sibling offers",
			"listing_id", offer.ListingID, "error", err.Error())
	}
	for _, buyerID := range expiredBuyers {
		uc.notifier.Notify(buyerID, domain.NotifyOfferExpired, map[string]string{
			"listing_id": offer.ListingID,
		})
	}

	uc.notifier.Notify(offer.BuyerID, domain.NotifyOfferAccepted, map[string]string{
		"offer_id":         offer.ID,
		"transaction_id":   tx.ID,
		"transaction_code": tx.Code,
	})
	return tx, nil
}

func (uc *DefaultOfferUsecase) RejectOffer(offerID, sellerID string) error {
	offer, err := uc.loadForResponse(offerID, sellerID)
	if err != nil {
		return err
	}

	err = uc.offerRepo.UpdateStatusCAS(offerID, domain.OfferRejected,
		map[string]any{"responded_at": time.Now()})
	if err != nil {
		return err
	}

	uc.notifier.Notify(offer.BuyerID, domain.NotifyOfferRejected, map[string]string{
		"offer_id":   offer.ID,
		"listing_id": offer.ListingID,
	})
	return nil
}

// CounterOffer is terminal for this offer record: the buyer answers a
// counter by making a fresh offer at the countered amount.
func (uc *DefaultOfferUsecase) CounterOffer(input *offerdto.RespondOfferInput) error {
	if input.CounterAmount <= 0 {
		return domain.ErrInvalidCounterAmount
	}
	offer, err := uc.loadForResponse(input.OfferID, input.SellerID)
	if err != nil {
		return err
	}

	if input.CounterMessage != "" {
		result := contentfilter.Analyze(input.CounterMessage, contentfilter.PreEscrow)
		if result.IsBlocked {
			return &domain.MessageBlockedError{
				Reason:     contentfilter.PrimaryReason(result.Violations),
				Severity:   string(result.Severity),
				Violations: result.Violations,
			}
		}
	}

	err = uc.offerRepo.UpdateStatusCAS(input.OfferID, domain.OfferCountered,
		map[string]any{
			"counter_amount":  input.CounterAmount,
			"counter_message": input.CounterMessage,
			"responded_at":    time.Now(),
		})
	if err != nil {
		return err
	}

	uc.notifier.Notify(offer.BuyerID, domain.NotifyOfferCountered, map[string]string{
		"offer_id":       offer.ID,
		"listing_id":     offer.ListingID,
		"counter_amount": strconv.FormatInt(input.CounterAmount, 10),
	})
	return nil
}

func (uc *DefaultOfferUsecase) GetOfferByID(offerID string) (*domain.Offer, error) {
	return uc.offerRepo.GetOfferByID(offerID)
}

func (uc *DefaultOfferUsecase) ListByListing(listingID string) ([]*domain.Offer, error) {
	return uc.offerRepo.ListByListing(listingID)
}

// loadForResponse fetches the offer and applies the common respond guards,
// including lazy expiry: a response that arrives after the TTL expires the
// offer on the spot instead of acting on stale consent.
func (uc *DefaultOfferUsecase) loadForResponse(offerID, sellerID string) (*domain.Offer, error) {
	offer, err := uc.offerRepo.GetOfferByID(offerID)
	if err != nil {
		return nil, err
	}
	if offer.SellerID != sellerID {
		return nil, domain.ErrNotOfferSeller
	}
	if offer.Status != domain.OfferPending {
		return nil, domain.ErrOfferNotPending
	}
	if time.Now().After(offer.ExpiresAt) {
		err := uc.offerRepo.UpdateStatusCAS(offerID, domain.OfferExpired, nil)
		if err != nil && !errors.Is(err, domain.ErrOfferNotPending) {
			return nil, err
		}
		if uc.metrics != nil {
			uc.metrics.OffersExpiredTotal.Inc()
		}
		return nil, domain.ErrOfferExpired
	}
	return offer, nil
}

// ExpireOffers sweeps PENDING offers past their TTL.
func (uc *DefaultOfferUsecase) ExpireOffers() error {
	expired, err := uc.offerRepo.FindExpiredPending(time.Now())
	if err != nil {
		return err
	}
	for _, offer := range expired {
		err := uc.offerRepo.UpdateStatusCAS(offer.ID, domain.OfferExpired, nil)
		if err != nil {
			if errors.Is(err, domain.ErrOfferNotPending) {
				continue
			}
			slog.Error("failed to expire offer", "offer_id", offer.ID, "error", err.Error())
			continue
		}
		uc.notifier.Notify(offer.BuyerID, domain.NotifyOfferExpired, map[string]string{
			"offer_id":   offer.ID,
			"listing_id": offer.ListingID,
		})
		if uc.metrics != nil {
			uc.metrics.OffersExpiredTotal.Inc()
		}
	}
	return nil
}
