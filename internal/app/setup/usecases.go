package setup

import (
	"github.com/repassafesta/escrow-service/internal/usecase"
)

type UseCases struct {
	TransactionUsecase usecase.TransactionUsecase
	OfferUsecase       usecase.OfferUsecase
	DisputeUsecase     usecase.DisputeUsecase
	MessageUsecase     usecase.MessageUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	txUsecase := usecase.NewDefaultTransactionUsecase(
		deps.Repositories.TransactionRepo,
		deps.Repositories.ListingRepo,
		deps.Repositories.PaymentRepo,
		deps.Repositories.LedgerRepo,
		deps.PaymentClient,
		deps.FraudClient,
		deps.Notifier,
		deps.Codes,
		deps.Metrics,
		deps.Config.FeePolicy,
		deps.Config.Deadlines,
	)

	offerUsecase := usecase.NewDefaultOfferUsecase(
		deps.Repositories.OfferRepo,
		deps.Repositories.ListingRepo,
		txUsecase,
		deps.Notifier,
		deps.Metrics,
		deps.Config.Deadlines,
	)

	disputeUsecase := usecase.NewDefaultDisputeUsecase(
		deps.Repositories.DisputeRepo,
		deps.Repositories.TransactionRepo,
		deps.Repositories.ListingRepo,
		deps.Repositories.PaymentRepo,
		deps.Notifier,
		deps.Codes,
		deps.Metrics,
		deps.Config.DisputePolicy,
	)

	messageUsecase := usecase.NewDefaultMessageUsecase(
		deps.Repositories.MessageRepo,
		deps.Repositories.TransactionRepo,
		deps.Notifier,
		deps.Metrics,
	)

	return &UseCases{
		TransactionUsecase: txUsecase,
		OfferUsecase:       offerUsecase,
		DisputeUsecase:     disputeUsecase,
		MessageUsecase:     messageUsecase,
	}
}
