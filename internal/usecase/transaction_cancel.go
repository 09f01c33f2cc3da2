package usecase

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
)

// cancellableStatuses are the pre-custody states. Once money is held,
// leaving the flow goes through Refund or a dispute, never Cancel.
var cancellableStatuses = []domain.TransactionStatus{
	domain.StatusInitiated,
	domain.StatusAwaitingPayment,
}

// Cancel abandons a transaction before any money entered escrow. Either
// participant may cancel at this stage.
func (uc *DefaultTransactionUsecase) Cancel(input *transactiondto.CancelTransactionInput) error {
	tx, err := uc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return err
	}
	if input.ActorID != tx.BuyerID && input.ActorID != tx.SellerID {
		return domain.ErrNotParticipant
	}

	err = uc.txRepo.UpdateStatusCAS(tx.ID, cancellableStatuses,
		domain.StatusCancelled,
		map[string]any{
			"cancelled_at":  time.Now(),
			"cancel_reason": input.Reason,
		})
	if err != nil {
		return err
	}
	uc.appendEvent(tx.ID, domain.StatusCancelled, input.ActorID, input.Reason)

	counterparty := tx.SellerID
	if input.ActorID == tx.SellerID {
		counterparty = tx.BuyerID
	}
	uc.notifier.Notify(counterparty, domain.NotifyTransactionCancel, map[string]string{
		"transaction_code": tx.Code,
		"reason":           input.Reason,
	})

	if uc.metrics != nil {
		uc.metrics.TransactionsCancelledTotal.WithLabelValues("manual").Inc()
	}
	return nil
}

// Refund returns the buyer's money after custody, on the seller's
// initiative. The refund is the gross amount the buyer actually paid,
// taken from the settled payment row.
func (uc *DefaultTransactionUsecase) Refund(txID, sellerID, reason string) error {
	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.SellerID != sellerID {
		return domain.ErrNotTransactionSeller
	}

	err = uc.txRepo.UpdateStatusCAS(tx.ID,
		[]domain.TransactionStatus{domain.StatusEscrowHeld, domain.StatusTransferPending},
		domain.StatusRefunded,
		map[string]any{
			"cancelled_at":  time.Now(),
			"cancel_reason": reason,
		})
	if err != nil {
		return err
	}
	uc.appendEvent(tx.ID, domain.StatusRefunded, sellerID, reason)

	uc.writeLedger(&domain.LedgerEntry{
		TransactionID: tx.ID,
		UserID:        tx.BuyerID,
		Amount:        uc.settledGross(tx),
		Kind:          domain.LedgerBuyerRefund,
	})

	uc.updateListing(tx.ListingID, domain.ListingActive)

	uc.notifier.Notify(tx.BuyerID, domain.NotifyRefundIssued, map[string]string{
		"transaction_code": tx.Code,
		"amount":           strconv.FormatInt(uc.settledGross(tx), 10),
	})

	if uc.metrics != nil {
		uc.metrics.TransactionsRefundedTotal.WithLabelValues("seller").Inc()
	}
	return nil
}

// settledGross looks up what the buyer actually paid. Falls back to the
// agreed price when no settled payment row can be found.
func (uc *DefaultTransactionUsecase) settledGross(tx *domain.Transaction) int64 {
	payments, err := uc.paymentRepo.ListByTransaction(tx.ID)
	if err != nil {
		slog.Error("failed to list payments for refund",
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

// CancelPaymentExpired sweeps transactions whose payment deadline lapsed
// without a settled charge and cancels them, releasing the listing for
// other buyers.
func (uc *DefaultTransactionUsecase) CancelPaymentExpired() error {
	expired, err := uc.txRepo.FindPaymentExpired(time.Now())
	if err != nil {
		return err
	}
	for _, tx := range expired {
		err := uc.txRepo.UpdateStatusCAS(tx.ID, cancellableStatuses,
			domain.StatusCancelled,
			map[string]any{
				"cancelled_at":  time.Now(),
				"cancel_reason": "payment deadline expired",
			})
		if err != nil {
			if errors.Is(err, domain.ErrInvalidTransactionState) {
				continue
			}
			slog.Error("failed to cancel expired transaction",
				"transaction_id", tx.ID, "error", err.Error())
			continue
		}
		uc.appendEvent(tx.ID, domain.StatusCancelled, "system", "payment deadline expired")

		uc.notifier.Notify(tx.BuyerID, domain.NotifyTransactionCancel, map[string]string{
			"transaction_code": tx.Code,
			"reason":           "payment deadline expired",
		})
		if uc.metrics != nil {
			uc.metrics.TransactionsCancelledTotal.WithLabelValues("payment_deadline").Inc()
		}
	}
	return nil
}
