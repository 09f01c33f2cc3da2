package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/repassafesta/escrow-service/internal/codegen"
	"github.com/repassafesta/escrow-service/internal/config"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/metrics"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
)

type TransactionUsecase interface {
	Create(ctx context.Context, input *transactiondto.CreateTransactionInput) (*domain.Transaction, error)
	GetByID(txID string) (*domain.Transaction, error)
	GetByCode(code string) (*domain.Transaction, error)
	ListEvents(txID string) ([]*domain.TransactionEvent, error)

	RequestPayment(ctx context.Context, input *transactiondto.RequestPaymentInput) (*transactiondto.PaymentInstructions, error)
	OnPaymentSettled(input *transactiondto.PaymentSettledInput) error
	OnPaymentFailed(input *transactiondto.PaymentFailedInput) error

	MarkSellerTransferred(txID, sellerID, note string) error
	ConfirmByBuyer(txID, buyerID string) error

	Cancel(input *transactiondto.CancelTransactionInput) error
	Refund(txID, sellerID, reason string) error

	AutoReleaseDue() error
	CancelPaymentExpired() error
}

type DefaultTransactionUsecase struct {
	txRepo        domain.TransactionRepository
	listingRepo   domain.ListingRepository
	paymentRepo   domain.PaymentRepository
	ledgerRepo    domain.LedgerRepository
	paymentClient domain.PaymentClient
	fraudClient   domain.FraudClient
	notifier      domain.NotificationPublisher
	codes         *codegen.Allocator
	metrics       *metrics.EscrowMetrics
	feePolicy     config.FeePolicy
	deadlines     config.Deadlines
}

func NewDefaultTransactionUsecase(
	txRepo domain.TransactionRepository,
	listingRepo domain.ListingRepository,
	paymentRepo domain.PaymentRepository,
	ledgerRepo domain.LedgerRepository,
	paymentClient domain.PaymentClient,
	fraudClient domain.FraudClient,
	notifier domain.NotificationPublisher,
	codes *codegen.Allocator,
	escrowMetrics *metrics.EscrowMetrics,
	feePolicy config.FeePolicy,
	deadlines config.Deadlines,
) *DefaultTransactionUsecase {
	return &DefaultTransactionUsecase{
		txRepo:        txRepo,
		listingRepo:   listingRepo,
		paymentRepo:   paymentRepo,
		ledgerRepo:    ledgerRepo,
		paymentClient: paymentClient,
		fraudClient:   fraudClient,
		notifier:      notifier,
		codes:         codes,
		metrics:       escrowMetrics,
		feePolicy:     feePolicy,
		deadlines:     deadlines,
	}
}

func (uc *DefaultTransactionUsecase) GetByID(txID string) (*domain.Transaction, error) {
	return uc.txRepo.GetTransactionByID(txID)
}

func (uc *DefaultTransactionUsecase) GetByCode(code string) (*domain.Transaction, error) {
	return uc.txRepo.GetTransactionByCode(code)
}

func (uc *DefaultTransactionUsecase) ListEvents(txID string) ([]*domain.TransactionEvent, error) {
	return uc.txRepo.ListEvents(txID)
}

// appendEvent writes an audit row; failures are logged, never propagated.
// The audit trail is an observation of transitions that already committed.
func (uc *DefaultTransactionUsecase) appendEvent(txID string, status domain.TransactionStatus, actor, note string) {
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

// updateListing is a best-effort side effect: the listing mirror of the
// escrow state must never fail a committed custody transition.
func (uc *DefaultTransactionUsecase) updateListing(listingID string, status domain.ListingStatus) {
	if err := uc.listingRepo.UpdateListingStatus(listingID, status); err != nil {
		slog.Error("failed to update listing status",
			"listing_id", listingID, "status", status, "error", err.Error())
	}
}

// addBusinessDays advances the time by n weekdays, skipping Saturday and
// Sunday. Brazilian holidays are not modeled; the window is a grace period,
// not a contractual deadline.
func addBusinessDays(t time.Time, n int) time.Time {
	for added := 0; added < n; {
		t = t.AddDate(0, 0, 1)
		if t.Weekday() != time.Saturday && t.Weekday() != time.Sunday {
			added++
		}
	}
	return t
}
