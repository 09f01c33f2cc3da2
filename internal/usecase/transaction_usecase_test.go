package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransaction(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)

	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	assert.Regexp(t, regexp.MustCompile(`^TXN-\d{4}-[23456789ABCDEFGHJKMNPQRSTUVWXYZ]{4}$`), tx.Code)
	assert.Equal(t, domain.StatusInitiated, tx.Status)
	assert.Equal(t, int64(15000), tx.PlatformFee)
	assert.Equal(t, int64(135000), tx.SellerNet)
	assert.Equal(t, tx.AgreedPrice, tx.PlatformFee+tx.SellerNet)
	assert.False(t, tx.FlaggedForReview)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), tx.PaymentDeadline, time.Minute)

	events, err := f.txRepo.ListEvents(tx.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.StatusInitiated, events[0].Status)
	assert.Equal(t, "buyer-1", events[0].Actor)

	assert.Contains(t, f.notifier.categories(), domain.NotifyTransactionCreated)
}

func TestCreateTransactionHonorsConfiguredMinimumFee(t *testing.T) {
	f := newFixture(t)
	f.txUC.feePolicy.MinimumFee = 2500
	f.seedListing(t, "listing-1", "seller-1", 20000)

	tx := f.createTransaction(t, "listing-1", "buyer-1", 20000)

	// 10% of R$ 200,00 sits below the raised floor.
	assert.Equal(t, int64(2500), tx.PlatformFee)
	assert.Equal(t, int64(17500), tx.SellerNet)
}

func TestCreateTransactionGuards(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)

	tests := []struct {
		name    string
		input   *transactiondto.CreateTransactionInput
		wantErr error
	}{
		{
			name: "non-positive price",
			input: &transactiondto.CreateTransactionInput{
				ListingID: "listing-1", BuyerID: "buyer-1", AgreedPrice: 0, PayerIdentity: "x",
			},
			wantErr: domain.ErrInvalidAgreedPrice,
		},
		{
			name: "missing payer identity",
			input: &transactiondto.CreateTransactionInput{
				ListingID: "listing-1", BuyerID: "buyer-1", AgreedPrice: 1000,
			},
			wantErr: domain.ErrMissingPayerIdentity,
		},
		{
			name: "self purchase",
			input: &transactiondto.CreateTransactionInput{
				ListingID: "listing-1", BuyerID: "seller-1", AgreedPrice: 1000, PayerIdentity: "x",
			},
			wantErr: domain.ErrSelfPurchase,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.txUC.Create(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateTransactionListingNotSellable(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	require.NoError(t, f.listingRepo.UpdateListingStatus("listing-1", domain.ListingSuspended))

	_, err := f.txUC.Create(context.Background(), &transactiondto.CreateTransactionInput{
		ListingID: "listing-1", BuyerID: "buyer-1", AgreedPrice: 1000, PayerIdentity: "x",
	})
	assert.ErrorIs(t, err, domain.ErrListingUnavailable)
}

func TestCreateTransactionDuplicateActive(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)

	first := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	_, err := f.txUC.Create(context.Background(), &transactiondto.CreateTransactionInput{
		ListingID: "listing-1", BuyerID: "buyer-1", AgreedPrice: 140000, PayerIdentity: "x",
	})
	require.ErrorIs(t, err, domain.ErrDuplicateActiveTransaction)

	var dup *domain.DuplicateActiveTransactionError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.ExistingID)
}

func TestCreateTransactionRetriesCodeCollision(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	f.txRepo.codeCollisions = 2

	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	assert.Regexp(t, regexp.MustCompile(`^TXN-\d{4}-[23456789ABCDEFGHJKMNPQRSTUVWXYZ]{4}$`), tx.Code)
	assert.Equal(t, domain.StatusInitiated, tx.Status)
}

func TestCreateTransactionCodeCollisionExhaustion(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	f.txRepo.codeCollisions = 100

	_, err := f.txUC.Create(context.Background(), &transactiondto.CreateTransactionInput{
		ListingID:     "listing-1",
		BuyerID:       "buyer-1",
		AgreedPrice:   150000,
		PayerIdentity: "buyer@pix.example",
	})
	require.ErrorIs(t, err, domain.ErrCodeAllocationExhausted)
}

func TestCreateTransactionRiskGate(t *testing.T) {
	t.Run("block refuses", func(t *testing.T) {
		f := newFixture(t)
		f.seedListing(t, "listing-1", "seller-1", 150000)
		f.fraudClient.assessment = &domain.RiskAssessment{
			Score: 0.95, Level: domain.RiskHigh, Recommendation: domain.RecommendBlock,
		}

		_, err := f.txUC.Create(context.Background(), &transactiondto.CreateTransactionInput{
			ListingID: "listing-1", BuyerID: "buyer-1", AgreedPrice: 150000, PayerIdentity: "x",
		})
		assert.ErrorIs(t, err, domain.ErrHighRiskBuyer)
	})

	t.Run("review proceeds flagged", func(t *testing.T) {
		f := newFixture(t)
		f.seedListing(t, "listing-1", "seller-1", 150000)
		f.fraudClient.assessment = &domain.RiskAssessment{
			Score: 0.6, Level: domain.RiskMedium, Recommendation: domain.RecommendReview,
		}

		tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)
		assert.True(t, tx.FlaggedForReview)
		assert.Equal(t, domain.StatusInitiated, tx.Status)
	})

	t.Run("fraud service down flags instead of failing", func(t *testing.T) {
		f := newFixture(t)
		f.seedListing(t, "listing-1", "seller-1", 150000)
		f.fraudClient.err = errors.New("connection refused")

		tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)
		assert.True(t, tx.FlaggedForReview)
	})
}

func TestRequestPayment(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	instructions, err := f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150000), instructions.Amount)
	assert.NotEmpty(t, instructions.ExternalRef)
	assert.NotEmpty(t, instructions.QRPayload)

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingPayment, stored.Status)
}

func TestRequestPaymentGuards(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	_, err := f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "someone-else", Method: "pix",
	})
	assert.ErrorIs(t, err, domain.ErrNotTransactionBuyer)

	_, err = f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	require.NoError(t, err)

	// Already awaiting payment.
	_, err = f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionState)
}

func TestRequestPaymentChargeFailureLeavesInitiated(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	f.paymentClient.err = domain.ErrPaymentRequestFailed
	_, err := f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	require.ErrorIs(t, err, domain.ErrPaymentRequestFailed)

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInitiated, stored.Status)

	// The buyer retries once the processor recovers.
	f.paymentClient.err = nil
	_, err = f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	assert.NoError(t, err)
}

func TestOnPaymentSettled(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createHeldTransaction(t, "listing-1", "buyer-1", 150000)

	assert.NotNil(t, tx.PaidAt)

	listing, err := f.listingRepo.GetListingByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingReserved, listing.Status)

	// Both confirmation and custody appear in the audit trail.
	events, err := f.txRepo.ListEvents(tx.ID)
	require.NoError(t, err)
	statuses := make([]domain.TransactionStatus, 0, len(events))
	for _, e := range events {
		statuses = append(statuses, e.Status)
	}
	assert.Contains(t, statuses, domain.StatusPaymentConfirmed)
	assert.Contains(t, statuses, domain.StatusEscrowHeld)
}

func TestOnPaymentSettledDuplicateCallback(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	instructions, err := f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	require.NoError(t, err)

	settle := &transactiondto.PaymentSettledInput{
		ExternalRef: instructions.ExternalRef,
		PaidAt:      time.Now().Unix(),
	}
	require.NoError(t, f.txUC.OnPaymentSettled(settle))
	eventsAfterFirst, _ := f.txRepo.ListEvents(tx.ID)

	// The processor redelivers; the replay is absorbed without effect.
	require.NoError(t, f.txUC.OnPaymentSettled(settle))

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEscrowHeld, stored.Status)

	eventsAfterSecond, _ := f.txRepo.ListEvents(tx.ID)
	assert.Len(t, eventsAfterSecond, len(eventsAfterFirst))
}

func TestSettlementAfterCancellationIsParked(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	instructions, err := f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	require.NoError(t, err)

	require.NoError(t, f.txUC.Cancel(&transactiondto.CancelTransactionInput{
		TransactionID: tx.ID, ActorID: "buyer-1", Reason: "desisti da compra",
	}))

	// The callback lands after the cancellation; it must be acknowledged,
	// not bounced back for endless redelivery.
	settled := &transactiondto.PaymentSettledInput{
		ExternalRef: instructions.ExternalRef,
		PaidAt:      time.Now().Unix(),
	}
	require.NoError(t, f.txUC.OnPaymentSettled(settled))

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)

	payments, err := f.paymentRepo.ListByTransaction(tx.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.PaymentOrphaned, payments[0].Status)

	events, err := f.txRepo.ListEvents(tx.ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	assert.Contains(t, events[len(events)-1].Note, "parked for reconciliation")

	// A replayed callback is absorbed the same way.
	require.NoError(t, f.txUC.OnPaymentSettled(settled))
	payments, err = f.paymentRepo.ListByTransaction(tx.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.PaymentOrphaned, payments[0].Status)
}

func TestOnPaymentFailed(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	instructions, err := f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID, BuyerID: "buyer-1", Method: "pix",
	})
	require.NoError(t, err)

	require.NoError(t, f.txUC.OnPaymentFailed(&transactiondto.PaymentFailedInput{
		ExternalRef: instructions.ExternalRef,
		Reason:      "insufficient funds",
	}))

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInitiated, stored.Status)
}

func TestMarkSellerTransferred(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createHeldTransaction(t, "listing-1", "buyer-1", 150000)

	err := f.txUC.MarkSellerTransferred(tx.ID, "buyer-1", "")
	assert.ErrorIs(t, err, domain.ErrNotTransactionSeller)

	require.NoError(t, f.txUC.MarkSellerTransferred(tx.ID, "seller-1", "reserva transferida no sistema do buffet"))

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTransferPending, stored.Status)
	require.NotNil(t, stored.AutoReleaseAt)
	assert.True(t, stored.AutoReleaseAt.After(time.Now().Add(6*24*time.Hour)))
	assert.NotEqual(t, time.Saturday, stored.AutoReleaseAt.Weekday())
	assert.NotEqual(t, time.Sunday, stored.AutoReleaseAt.Weekday())
}

func TestConfirmByBuyerReleasesFunds(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createHeldTransaction(t, "listing-1", "buyer-1", 150000)
	require.NoError(t, f.txUC.MarkSellerTransferred(tx.ID, "seller-1", ""))

	require.NoError(t, f.txUC.ConfirmByBuyer(tx.ID, "buyer-1"))

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	sellerBalance, err := f.ledgerRepo.UserBalance("seller-1")
	require.NoError(t, err)
	assert.Equal(t, int64(135000), sellerBalance)

	platformBalance, err := f.ledgerRepo.UserBalance(domain.PlatformAccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), platformBalance)
	assert.Equal(t, tx.AgreedPrice, sellerBalance+platformBalance)

	listing, err := f.listingRepo.GetListingByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingSold, listing.Status)
}

func TestNoCompletionWithoutCustody(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	err := f.txUC.ConfirmByBuyer(tx.ID, "buyer-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionState)

	err = f.txUC.MarkSellerTransferred(tx.ID, "seller-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionState)
}

func TestAutoReleaseAndConfirmPayOnce(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createHeldTransaction(t, "listing-1", "buyer-1", 150000)
	require.NoError(t, f.txUC.MarkSellerTransferred(tx.ID, "seller-1", ""))

	// Force the release window into the past.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.txRepo.UpdateStatusCAS(tx.ID,
		[]domain.TransactionStatus{domain.StatusTransferPending},
		domain.StatusTransferPending,
		map[string]any{"auto_release_at": past}))

	require.NoError(t, f.txUC.ConfirmByBuyer(tx.ID, "buyer-1"))
	require.NoError(t, f.txUC.AutoReleaseDue())

	entries, err := f.ledgerRepo.ListByTransaction(tx.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	sellerBalance, err := f.ledgerRepo.UserBalance("seller-1")
	require.NoError(t, err)
	assert.Equal(t, int64(135000), sellerBalance)
}

func TestAutoReleaseDue(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createHeldTransaction(t, "listing-1", "buyer-1", 150000)
	require.NoError(t, f.txUC.MarkSellerTransferred(tx.ID, "seller-1", ""))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, f.txRepo.UpdateStatusCAS(tx.ID,
		[]domain.TransactionStatus{domain.StatusTransferPending},
		domain.StatusTransferPending,
		map[string]any{"auto_release_at": past}))

	require.NoError(t, f.txUC.AutoReleaseDue())

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, stored.Status)

	// Late buyer confirmation after the sweep is a state conflict.
	err = f.txUC.ConfirmByBuyer(tx.ID, "buyer-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionState)
}

func TestCancelBeforeCustody(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	err := f.txUC.Cancel(&transactiondto.CancelTransactionInput{
		TransactionID: tx.ID, ActorID: "stranger", Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotParticipant)

	require.NoError(t, f.txUC.Cancel(&transactiondto.CancelTransactionInput{
		TransactionID: tx.ID, ActorID: "buyer-1", Reason: "desisti da compra",
	}))

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, "desisti da compra", stored.CancelReason)
}

func TestCancelAfterCustodyRefused(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createHeldTransaction(t, "listing-1", "buyer-1", 150000)

	err := f.txUC.Cancel(&transactiondto.CancelTransactionInput{
		TransactionID: tx.ID, ActorID: "buyer-1", Reason: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransactionState)
}

func TestRefundAfterCustody(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createHeldTransaction(t, "listing-1", "buyer-1", 150000)

	require.NoError(t, f.txUC.Refund(tx.ID, "seller-1", "não consigo transferir a reserva"))

	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, stored.Status)

	buyerBalance, err := f.ledgerRepo.UserBalance("buyer-1")
	require.NoError(t, err)
	assert.Equal(t, int64(150000), buyerBalance)

	listing, err := f.listingRepo.GetListingByID("listing-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingActive, listing.Status)
}

func TestCancelPaymentExpired(t *testing.T) {
	f := newFixture(t)
	f.seedListing(t, "listing-1", "seller-1", 150000)
	tx := f.createTransaction(t, "listing-1", "buyer-1", 150000)

	// Not yet due: the sweep leaves it alone.
	require.NoError(t, f.txUC.CancelPaymentExpired())
	stored, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInitiated, stored.Status)

	f.txRepo.mu.Lock()
	f.txRepo.txs[tx.ID].PaymentDeadline = time.Now().Add(-time.Minute)
	f.txRepo.mu.Unlock()

	require.NoError(t, f.txUC.CancelPaymentExpired())
	stored, err = f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, stored.Status)
	assert.Equal(t, "payment deadline expired", stored.CancelReason)
}

func TestAddBusinessDays(t *testing.T) {
	// 2026-03-06 is a Friday.
	friday := time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Monday, addBusinessDays(friday, 1).Weekday())
	assert.Equal(t, time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), addBusinessDays(friday, 1))
	assert.Equal(t, time.Date(2026, 3, 13, 10, 0, 0, 0, time.UTC), addBusinessDays(friday, 5))
	assert.Equal(t, time.Date(2026, 3, 17, 10, 0, 0, 0, time.UTC), addBusinessDays(friday, 7))
}
