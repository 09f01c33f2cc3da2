package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/repassafesta/escrow-service/internal/usecase"
)

// BackgroundTasks runs the periodic sweeps behind the wall-clock rules:
// lapsed offers, missed payment deadlines and the auto-release window.
// Each sweep is idempotent, so overlapping with user-initiated
// transitions is harmless.
type BackgroundTasks struct {
	TransactionUsecase usecase.TransactionUsecase
	OfferUsecase       usecase.OfferUsecase
}

func NewBackgroundTasks(txUC usecase.TransactionUsecase, offerUC usecase.OfferUsecase) *BackgroundTasks {
	return &BackgroundTasks{
		TransactionUsecase: txUC,
		OfferUsecase:       offerUC,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startOfferExpiry(ctx)
	go bt.startPaymentDeadlineCancel(ctx)
	go bt.startAutoRelease(ctx)
}

func (bt *BackgroundTasks) startOfferExpiry(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.OfferUsecase.ExpireOffers(); err != nil {
				slog.Error("offer expiry sweep failed", "error", err.Error())
			}
		}
	}
}

func (bt *BackgroundTasks) startPaymentDeadlineCancel(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.TransactionUsecase.CancelPaymentExpired(); err != nil {
				slog.Error("payment deadline sweep failed", "error", err.Error())
			}
		}
	}
}

func (bt *BackgroundTasks) startAutoRelease(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.TransactionUsecase.AutoReleaseDue(); err != nil {
				slog.Error("auto-release sweep failed", "error", err.Error())
			}
		}
	}
}
