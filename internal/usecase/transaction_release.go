package usecase

import (
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
)

// MarkSellerTransferred records the seller's attestation that the
// reservation was transferred to the buyer's name. It arms the
// auto-release clock: silence from the buyer releases the funds after the
// configured number of business days.
func (uc *DefaultTransactionUsecase) MarkSellerTransferred(txID, sellerID, note string) error {
	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.SellerID != sellerID {
		return domain.ErrNotTransactionSeller
	}

	now := time.Now()
	autoReleaseAt := addBusinessDays(now, uc.deadlines.AutoReleaseBusinessDays)

	err = uc.txRepo.UpdateStatusCAS(txID,
		[]domain.TransactionStatus{domain.StatusEscrowHeld},
		domain.StatusTransferPending,
		map[string]any{
			"transferred_at":  now,
			"auto_release_at": autoReleaseAt,
		})
	if err != nil {
		return err
	}
	uc.appendEvent(txID, domain.StatusTransferPending, sellerID, note)

	uc.notifier.Notify(tx.BuyerID, domain.NotifyTransferAttested, map[string]string{
		"transaction_code": tx.Code,
		"auto_release_at":  autoReleaseAt.Format(time.RFC3339),
	})
	return nil
}

// ConfirmByBuyer releases the escrow to the seller on the buyer's
// confirmation that the reservation is now theirs.
func (uc *DefaultTransactionUsecase) ConfirmByBuyer(txID, buyerID string) error {
	tx, err := uc.txRepo.GetTransactionByID(txID)
	if err != nil {
		return err
	}
	if tx.BuyerID != buyerID {
		return domain.ErrNotTransactionBuyer
	}
	return uc.release(tx, buyerID, "buyer")
}

// AutoReleaseDue releases every transaction whose buyer-confirmation
// window has lapsed. Races with a concurrent buyer confirmation resolve
// through the status guard: whoever moves the row first wins, the other
// outcome is skipped.
func (uc *DefaultTransactionUsecase) AutoReleaseDue() error {
	due, err := uc.txRepo.FindAutoReleasable(time.Now())
	if err != nil {
		return err
	}
	for _, tx := range due {
		if err := uc.release(tx, "system", "auto"); err != nil {
			if errors.Is(err, domain.ErrInvalidTransactionState) {
				continue
			}
			slog.Error("auto-release failed",
				"transaction_id", tx.ID, "error", err.Error())
			continue
		}
		if uc.metrics != nil {
			uc.metrics.AutoReleasedTotal.Inc()
		}
	}
	return nil
}

// release is the single path from TRANSFER_PENDING to COMPLETED. The
// guarded status update makes it idempotent: only the caller that actually
// moved the row writes ledger entries and side effects.
func (uc *DefaultTransactionUsecase) release(tx *domain.Transaction, actor, releasedBy string) error {
	now := time.Now()
	err := uc.txRepo.UpdateStatusCAS(tx.ID,
		[]domain.TransactionStatus{domain.StatusTransferPending},
		domain.StatusCompleted,
		map[string]any{"completed_at": now})
	if err != nil {
		return err
	}
	uc.appendEvent(tx.ID, domain.StatusCompleted, actor, "")

	uc.writeLedger(&domain.LedgerEntry{
		TransactionID: tx.ID,
		UserID:        tx.SellerID,
		Amount:        tx.SellerNet,
		Kind:          domain.LedgerSellerRelease,
	})
	uc.writeLedger(&domain.LedgerEntry{
		TransactionID: tx.ID,
		UserID:        domain.PlatformAccountID,
		Amount:        tx.PlatformFee,
		Kind:          domain.LedgerPlatformFee,
	})

	uc.updateListing(tx.ListingID, domain.ListingSold)

	uc.notifier.Notify(tx.SellerID, domain.NotifyFundsReleased, map[string]string{
		"transaction_code": tx.Code,
		"amount":           strconv.FormatInt(tx.SellerNet, 10),
	})

	if uc.metrics != nil {
		uc.metrics.TransactionsCompletedTotal.WithLabelValues(releasedBy).Inc()
		uc.metrics.PlatformFeeTotal.WithLabelValues("release").Add(float64(tx.PlatformFee))
		if tx.PaidAt != nil {
			uc.metrics.CompletionDuration.Observe(now.Sub(*tx.PaidAt).Hours())
		}
	}
	return nil
}

// writeLedger records a credit; failures are logged for reconciliation
// rather than unwinding an already-committed custody transition.
func (uc *DefaultTransactionUsecase) writeLedger(entry *domain.LedgerEntry) {
	if err := uc.ledgerRepo.CreateEntry(entry); err != nil {
		slog.Error("failed to write ledger entry",
			"transaction_id", entry.TransactionID, "kind", entry.Kind, "error", err.Error())
	}
}
