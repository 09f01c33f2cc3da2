package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/fees"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
)

// RequestPayment asks the processor for a charge covering the buyer total.
// A failed charge request leaves the transaction in INITIATED so the buyer
// can simply retry; only a created charge moves it to AWAITING_PAYMENT.
func (uc *DefaultTransactionUsecase) RequestPayment(ctx context.Context, input *transactiondto.RequestPaymentInput) (*transactiondto.PaymentInstructions, error) {
	tx, err := uc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return nil, err
	}
	if tx.BuyerID != input.BuyerID {
		return nil, domain.ErrNotTransactionBuyer
	}
	if tx.Status != domain.StatusInitiated {
		return nil, domain.ErrInvalidTransactionState
	}

	buyerBreakdown := fees.ComputeBuyer(tx.AgreedPrice, uc.feePolicy.BuyerFeeBps)

	charge, err := uc.paymentClient.CreateCharge(ctx, &domain.CreateChargeInput{
		PayerIdentity: tx.PayerIdentity,
		Amount:        buyerBreakdown.BuyerTotal,
		Method:        input.Method,
		Reference:     tx.Code,
	})
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:            uuid.NewString(),
		TransactionID: tx.ID,
		PayerID:       tx.BuyerID,
		PayeeID:       tx.SellerID,
		ExternalRef:   charge.ExternalRef,
		GrossAmount:   buyerBreakdown.BuyerTotal,
		NetAmount:     tx.SellerNet,
		Method:        input.Method,
		Status:        domain.PaymentPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := uc.paymentRepo.CreatePayment(payment); err != nil {
		return nil, err
	}

	err = uc.txRepo.UpdateStatusCAS(tx.ID,
		[]domain.TransactionStatus{domain.StatusInitiated},
		domain.StatusAwaitingPayment, nil)
	if err != nil {
		return nil, err
	}
	uc.appendEvent(tx.ID, domain.StatusAwaitingPayment, input.BuyerID, "charge "+charge.ExternalRef)

	uc.notifier.Notify(tx.BuyerID, domain.NotifyPaymentRequested, map[string]string{
		"transaction_code": tx.Code,
		"amount":           strconv.FormatInt(buyerBreakdown.BuyerTotal, 10),
		"external_ref":     charge.ExternalRef,
	})

	return &transactiondto.PaymentInstructions{
		PaymentID:   payment.ID,
		ExternalRef: charge.ExternalRef,
		Amount:      buyerBreakdown.BuyerTotal,
		QRPayload:   charge.QRPayload,
		RedirectURL: charge.RedirectURL,
	}, nil
}

// OnPaymentSettled applies a settlement callback from the processor. The
// store applies payment SETTLED and transaction ESCROW_HELD in one
// transaction; a replayed callback is absorbed silently so the processor
// can retry delivery freely.
func (uc *DefaultTransactionUsecase) OnPaymentSettled(input *transactiondto.PaymentSettledInput) error {
	payment, err := uc.paymentRepo.GetPaymentByExternalRef(input.ExternalRef)
	if err != nil {
		return err
	}

	paidAt := time.Unix(input.PaidAt, 0)
	if input.PaidAt == 0 {
		paidAt = time.Now()
	}

	err = uc.paymentRepo.SettlePayment(payment.ID, payment.TransactionID, paidAt)
	if err != nil {
		if errors.Is(err, domain.ErrPaymentAlreadySettled) {
			return nil
		}
		if errors.Is(err, domain.ErrInvalidTransactionState) {
			return uc.absorbOrphanedSettlement(payment, paidAt)
		}
		return err
	}

	// Settlement implies both confirmation and custody; the trail keeps
	// the two observable as distinct steps.
	uc.appendEvent(payment.TransactionID, domain.StatusPaymentConfirmed, "system", "processor callback "+input.ExternalRef)
	uc.appendEvent(payment.TransactionID, domain.StatusEscrowHeld, "system", "")

	tx, err := uc.txRepo.GetTransactionByID(payment.TransactionID)
	if err != nil {
		return err
	}
	uc.updateListing(tx.ListingID, domain.ListingReserved)

	uc.notifier.Notify(tx.BuyerID, domain.NotifyEscrowHeld, map[string]string{
		"transaction_code": tx.Code,
	})
	uc.notifier.Notify(tx.SellerID, domain.NotifyEscrowHeld, map[string]string{
		"transaction_code": tx.Code,
	})

	if uc.metrics != nil {
		uc.metrics.EscrowHeldAmountTotal.WithLabelValues(payment.Method).Add(float64(payment.GrossAmount))
	}
	return nil
}

// absorbOrphanedSettlement handles money arriving for a transaction that
// already left AWAITING_PAYMENT, usually cancelled by the deadline sweep
// moments before the callback landed. Failing the callback would only make
// the processor redeliver forever; the charge is parked for manual
// reconciliation and the callback acknowledged.
func (uc *DefaultTransactionUsecase) absorbOrphanedSettlement(payment *domain.Payment, paidAt time.Time) error {
	if err := uc.paymentRepo.MarkPaymentOrphaned(payment.ID, paidAt); err != nil {
		if errors.Is(err, domain.ErrPaymentAlreadySettled) {
			return nil
		}
		return err
	}

	slog.Error("settlement arrived for a transaction no longer awaiting payment",
		"transaction_id", payment.TransactionID,
		"external_ref", payment.ExternalRef,
		"amount", payment.GrossAmount)

	tx, err := uc.txRepo.GetTransactionByID(payment.TransactionID)
	if err != nil {
		return nil
	}
	uc.appendEvent(tx.ID, tx.Status, "system",
		"charge "+payment.ExternalRef+" settled after the transaction left AWAITING_PAYMENT, parked for reconciliation")
	return nil
}

// OnPaymentFailed records the processor's failure and returns the
// transaction to INITIATED so the buyer can start a fresh charge.
func (uc *DefaultTransactionUsecase) OnPaymentFailed(input *transactiondto.PaymentFailedInput) error {
	payment, err := uc.paymentRepo.GetPaymentByExternalRef(input.ExternalRef)
	if err != nil {
		return err
	}
	if err := uc.paymentRepo.MarkPaymentFailed(payment.ID, input.Reason); err != nil {
		return err
	}

	err = uc.txRepo.UpdateStatusCAS(payment.TransactionID,
		[]domain.TransactionStatus{domain.StatusAwaitingPayment},
		domain.StatusInitiated, nil)
	if err != nil && !errors.Is(err, domain.ErrInvalidTransactionState) {
		return err
	}
	uc.appendEvent(payment.TransactionID, domain.StatusInitiated, "system", "payment failed: "+input.Reason)
	return nil
}
