package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/repassafesta/escrow-service/internal/codegen"
	"github.com/repassafesta/escrow-service/internal/config"
	"github.com/repassafesta/escrow-service/internal/domain"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	txRepo        *fakeTxRepo
	offerRepo     *fakeOfferRepo
	listingRepo   *fakeListingRepo
	paymentRepo   *fakePaymentRepo
	ledgerRepo    *fakeLedgerRepo
	disputeRepo   *fakeDisputeRepo
	messageRepo   *fakeMessageRepo
	notifier      *fakeNotifier
	paymentClient *fakePaymentClient
	fraudClient   *fakeFraudClient

	txUC      *DefaultTransactionUsecase
	offerUC   *DefaultOfferUsecase
	disputeUC *DefaultDisputeUsecase
	messageUC *DefaultMessageUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codes, err := codegen.NewAllocator()
	require.NoError(t, err)

	f := &fixture{
		txRepo:        newFakeTxRepo(),
		offerRepo:     newFakeOfferRepo(),
		listingRepo:   newFakeListingRepo(),
		ledgerRepo:    &fakeLedgerRepo{},
		messageRepo:   &fakeMessageRepo{},
		notifier:      &fakeNotifier{},
		paymentClient: &fakePaymentClient{},
		fraudClient:   &fakeFraudClient{},
	}
	f.paymentRepo = newFakePaymentRepo(f.txRepo)
	f.disputeRepo = newFakeDisputeRepo(f.txRepo, f.ledgerRepo)

	feePolicy := config.FeePolicy{SellerFeeBps: 1000, BuyerFeeBps: 0, MinimumFee: 500}
	deadlines := config.Deadlines{
		PaymentDeadline:         48 * time.Hour,
		OfferTTL:                72 * time.Hour,
		AutoReleaseBusinessDays: 7,
	}
	disputePolicy := config.DisputePolicy{SplitBuyerBps: 5000}

	f.txUC = NewDefaultTransactionUsecase(
		f.txRepo, f.listingRepo, f.paymentRepo, f.ledgerRepo,
		f.paymentClient, f.fraudClient, f.notifier, codes, nil,
		feePolicy, deadlines,
	)
	f.offerUC = NewDefaultOfferUsecase(
		f.offerRepo, f.listingRepo, f.txUC, f.notifier, nil, deadlines,
	)
	f.disputeUC = NewDefaultDisputeUsecase(
		f.disputeRepo, f.txRepo, f.listingRepo, f.paymentRepo,
		f.notifier, codes, nil, disputePolicy,
	)
	f.messageUC = NewDefaultMessageUsecase(
		f.messageRepo, f.txRepo, f.notifier, nil,
	)
	return f
}

func (f *fixture) seedListing(t *testing.T, id, sellerID string, price int64) {
	t.Helper()
	require.NoError(t, f.listingRepo.CreateListing(&domain.Listing{
		ID:          id,
		SellerID:    sellerID,
		Title:       "Reserva buffet completo",
		VenueName:   "Espaço Jardim das Flores",
		EventDate:   time.Now().AddDate(0, 6, 0),
		AskingPrice: price,
		Status:      domain.ListingActive,
	}))
}

func (f *fixture) createTransaction(t *testing.T, listingID, buyerID string, price int64) *domain.Transaction {
	t.Helper()
	tx, err := f.txUC.Create(context.Background(), &transactiondto.CreateTransactionInput{
		ListingID:           listingID,
		BuyerID:             buyerID,
		AgreedPrice:         price,
		PayerIdentity:       "buyer@pix.example",
		BuyerAccountAgeDays: 400,
		BuyerVerified:       true,
	})
	require.NoError(t, err)
	return tx
}

// createHeldTransaction walks a fresh transaction through charge creation
// and settlement so it sits in ESCROW_HELD.
func (f *fixture) createHeldTransaction(t *testing.T, listingID, buyerID string, price int64) *domain.Transaction {
	t.Helper()
	tx := f.createTransaction(t, listingID, buyerID, price)

	instructions, err := f.txUC.RequestPayment(context.Background(), &transactiondto.RequestPaymentInput{
		TransactionID: tx.ID,
		BuyerID:       buyerID,
		Method:        "pix",
	})
	require.NoError(t, err)

	require.NoError(t, f.txUC.OnPaymentSettled(&transactiondto.PaymentSettledInput{
		ExternalRef: instructions.ExternalRef,
		PaidAt:      time.Now().Unix(),
	}))

	held, err := f.txRepo.GetTransactionByID(tx.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusEscrowHeld, held.Status)
	return held
}
