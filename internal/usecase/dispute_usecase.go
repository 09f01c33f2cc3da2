package usecase

import (
	"errors"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/repassafesta/escrow-service/internal/codegen"
	"github.com/repassafesta/escrow-service/internal/config"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/fees"
	"github.com/repassafesta/escrow-service/internal/infrastructure/metrics"
	disputedto "github.com/repassafesta/escrow-service/internal/usecase/dto/dispute"
)

// AuthorityRole is the role required to resolve disputes.
const AuthorityRole = "admin"

type DisputeUsecase interface {
	OpenDispute(input *disputedto.OpenDisputeInput) (*domain.Dispute, error)
	ResolveDispute(input *disputedto.ResolveDisputeInput) error
	GetDisputeByID(disputeID string) (*domain.Dispute, error)
	ListDisputes(status string, page, limit int64) (*disputedto.ListDisputesOutput, error)
}

type DefaultDisputeUsecase struct {
	disputeRepo   domain.DisputeRepository
	txRepo        domain.TransactionRepository
	listingRepo   domain.ListingRepository
	paymentRepo   domain.PaymentRepository
	notifier      domain.NotificationPublisher
	codes         *codegen.Allocator
	metrics       *metrics.EscrowMetrics
	disputePolicy config.DisputePolicy
}

func NewDefaultDisputeUsecase(
	disputeRepo domain.DisputeRepository,
	txRepo domain.TransactionRepository,
	listingRepo domain.ListingRepository,
	paymentRepo domain.PaymentRepository,
	notifier domain.NotificationPublisher,
	codes *codegen.Allocator,
	escrowMetrics *metrics.EscrowMetrics,
	disputePolicy config.DisputePolicy,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		disputeRepo:   disputeRepo,
		txRepo:        txRepo,
		listingRepo:   listingRepo,
		paymentRepo:   paymentRepo,
		notifier:      notifier,
		codes:         codes,
		metrics:       escrowMetrics,
		disputePolicy: disputePolicy,
	}
}

// disputableStatuses are the custody states a dispute can interrupt.
// Before custody there is nothing to freeze; after a terminal state there
// is nothing left to decide.
var disputableStatuses = []domain.TransactionStatus{
	domain.StatusEscrowHeld,
	domain.StatusTransferPending,
}

// OpenDispute freezes the transaction's custody until an authority rules
// on it. The store applies the dispute row and the status move atomically;
// its partial unique index keeps concurrent openers down to one dispute.
func (uc *DefaultDisputeUsecase) OpenDispute(input *disputedto.OpenDisputeInput) (*domain.Dispute, error) {
	reason := domain.DisputeReason(input.Reason)
	if !reason.Valid() {
		return nil, domain.ErrInvalidDisputeReason
	}
	descLen := utf8.RuneCountInString(input.Description)
	if descLen < domain.DisputeDescriptionMin {
		return nil, domain.ErrDescriptionTooShort
	}
	if descLen > domain.DisputeDescriptionMax {
		return nil, domain.ErrDescriptionTooLong
	}

	tx, err := uc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return nil, err
	}
	if input.OpenerID != tx.BuyerID && input.OpenerID != tx.SellerID {
		return nil, domain.ErrNotParticipant
	}
	if tx.Status != domain.StatusEscrowHeld && tx.Status != domain.StatusTransferPending {
		return nil, domain.ErrInvalidTransactionState
	}

	open, err := uc.disputeRepo.GetOpenByTransaction(tx.ID)
	if err != nil {
		return nil, err
	}
	if open != nil {
		return nil, domain.ErrDisputeAlreadyOpen
	}

	var dispute *domain.Dispute
	for attempt := 0; ; attempt++ {
		code, err := uc.codes.DisputeCode(uc.disputeRepo.DisputeCodeInUse)
		if err != nil {
			return nil, err
		}

		dispute = &domain.Dispute{
			ID:            uuid.NewString(),
			Code:          code,
			TransactionID: tx.ID,
			OpenerID:      input.OpenerID,
			Reason:        reason,
			Description:   input.Description,
			EvidenceURLs:  input.EvidenceURLs,
			Status:        domain.DisputeOpen,
			PriorStatus:   tx.Status,
			CreatedAt:     time.Now(),
		}
		err = uc.disputeRepo.OpenDispute(dispute, disputableStatuses)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrCodeCollision) {
			// Another instance took the code between the in-use check
			// and the write; allocate a fresh one.
			if attempt+1 < codeInsertAttempts {
				continue
			}
			return nil, domain.ErrCodeAllocationExhausted
		}
		return nil, err
	}
	uc.appendEvent(tx.ID, domain.StatusDisputeOpened, input.OpenerID, string(reason))

	counterparty := tx.SellerID
	if input.OpenerID == tx.SellerID {
		counterparty = tx.BuyerID
	}
	uc.notifier.Notify(counterparty, domain.NotifyDisputeOpened, map[string]string{
		"transaction_code": tx.Code,
		"dispute_code":     dispute.Code,
		"reason":           string(reason),
	})

	if uc.metrics != nil {
		uc.metrics.DisputesOpenedTotal.WithLabelValues(string(reason)).Inc()
	}
	return dispute, nil
}

// ResolveDispute applies an authority's ruling. The outcome decides where
// the held money goes; the store writes the ruling, the transaction's
// terminal state and the ledger entries in one transaction.
func (uc *DefaultDisputeUsecase) ResolveDispute(input *disputedto.ResolveDisputeInput) error {
	if input.ResolverRole != AuthorityRole {
		return domain.ErrNotAuthority
	}

	dispute, err := uc.disputeRepo.GetDisputeByID(input.DisputeID)
	if err != nil {
		return err
	}
	if dispute.Status != domain.DisputeOpen {
		return domain.ErrDisputeNotOpen
	}

	tx, err := uc.txRepo.GetTransactionByID(dispute.TransactionID)
	if err != nil {
		return err
	}

	outcome := domain.DisputeOutcome(input.Outcome)
	entries, listingStatus, err := uc.outcomeEffects(tx, outcome)
	if err != nil {
		return err
	}

	err = uc.disputeRepo.ResolveDispute(dispute.ID, outcome, input.ResolverID, entries)
	if err != nil {
		return err
	}
	uc.appendEvent(tx.ID, domain.StatusDisputeResolved, input.ResolverID, string(outcome))

	if err := uc.listingRepo.UpdateListingStatus(tx.ListingID, listingStatus); err != nil {
		slog.Error("failed to update listing status after dispute",
			"listing_id", tx.ListingID, "status", listingStatus, "error", err.Error())
	}

	for _, userID := range []string{tx.BuyerID, tx.SellerID} {
		uc.notifier.Notify(userID, domain.NotifyDisputeResolved, map[string]string{
			"transaction_code": tx.Code,
			"dispute_code":     dispute.Code,
			"outcome":          string(outcome),
		})
	}

	if uc.metrics != nil {
		uc.metrics.DisputesResolvedTotal.WithLabelValues(string(outcome)).Inc()
	}
	return nil
}

// outcomeEffects maps a ruling to its fund movements and the listing's
// final state. An unknown outcome is refused outright; guessing with held
// money is worse than failing.
func (uc *DefaultDisputeUsecase) outcomeEffects(tx *domain.Transaction, outcome domain.DisputeOutcome) ([]*domain.LedgerEntry, domain.ListingStatus, error) {
	switch outcome {
	case domain.OutcomeRefundBuyer:
		return []*domain.LedgerEntry{
			{TransactionID: tx.ID, UserID: tx.BuyerID, Amount: uc.settledGross(tx), Kind: domain.LedgerBuyerRefund},
		}, domain.ListingActive, nil

	case domain.OutcomeReleaseSeller:
		return []*domain.LedgerEntry{
			{TransactionID: tx.ID, UserID: tx.SellerID, Amount: tx.SellerNet, Kind: domain.LedgerSellerRelease},
			{TransactionID: tx.ID, UserID: domain.PlatformAccountID, Amount: tx.PlatformFee, Kind: domain.LedgerPlatformFee},
		}, domain.ListingSold, nil

	case domain.OutcomeSplit:
		buyerShare := fees.SplitBuyer(tx.AgreedPrice, uc.disputePolicy.SplitBuyerBps)
		sellerShare := tx.AgreedPrice - buyerShare - tx.PlatformFee
		if sellerShare < 0 {
			sellerShare = 0
		}
		return []*domain.LedgerEntry{
			{TransactionID: tx.ID, UserID: tx.BuyerID, Amount: buyerShare, Kind: domain.LedgerSplitBuyer},
			{TransactionID: tx.ID, UserID: tx.SellerID, Amount: sellerShare, Kind: domain.LedgerSplitSeller},
			{TransactionID: tx.ID, UserID: domain.PlatformAccountID, Amount: tx.PlatformFee, Kind: domain.LedgerPlatformFee},
		}, domain.ListingSold, nil

	default:
		return nil, "", domain.ErrUnknownDisputeOutcome
	}
}

// settledGross mirrors the refund rule: return what the buyer actually
// paid, falling back to the agreed price.
func (uc *DefaultDisputeUsecase) settledGross(tx *domain.Transaction) int64 {
	payments, err := uc.paymentRepo.ListByTransaction(tx.ID)
	if err != nil {
		slog.Error("failed to list payments for dispute refund",
			"transaction_id", tx.ID, "error", err.Error())
		return tx.AgreedPrice
	}
	for _, p := range payments {
		if p.Status == domain.PaymentSettled {
			return p.GrossAmount
		}
	}
	return tx.AgreedPrice
}

func (uc *DefaultDisputeUsecase) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	return uc.disputeRepo.GetDisputeByID(disputeID)
}

func (uc *DefaultDisputeUsecase) ListDisputes(status string, page, limit int64) (*disputedto.ListDisputesOutput, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	disputes, total, err := uc.disputeRepo.ListDisputes(domain.DisputeStatus(status), page, limit)
	if err != nil {
		return nil, err
	}
	totalPages := (total + limit - 1) / limit
	return &disputedto.ListDisputesOutput{
		Disputes: disputes,
		Pagination: disputedto.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

func (uc *DefaultDisputeUsecase) appendEvent(txID string, status domain.TransactionStatus, actor, note string) {
	err := uc.txRepo.AppendEvent(&domain.TransactionEvent{
		TransactionID: txID,
		Status:        status,
		Actor:         actor,
		Note:          note,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		slog.Error("failed to append transaction event",
			"transaction_id", txID, "status", status, "error", err.Error())
	}
}
