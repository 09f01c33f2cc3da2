package mappers

import (
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainTransaction(model *models.TransactionModel) *domain.Transaction {
	return &domain.Transaction{
		ID:               model.ID,
		Code:             model.Code,
		ListingID:        model.ListingID,
		BuyerID:          model.BuyerID,
		SellerID:         model.SellerID,
		AgreedPrice:      model.AgreedPrice,
		PlatformFee:      model.PlatformFee,
		PlatformFeeBps:   model.PlatformFeeBps,
		SellerNet:        model.SellerNet,
		PayerIdentity:    model.PayerIdentity,
		Status:           domain.TransactionStatus(model.Status),
		FlaggedForReview: model.FlaggedForReview,
		PaymentDeadline:  model.PaymentDeadline,
		AutoReleaseAt:    model.AutoReleaseAt,
		CancelReason:     model.CancelReason,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
		PaidAt:           model.PaidAt,
		TransferredAt:    model.TransferredAt,
		CompletedAt:      model.CompletedAt,
		CancelledAt:      model.CancelledAt,
	}
}

func ToGORMTransaction(tx *domain.Transaction) *models.TransactionModel {
	return &models.TransactionModel{
		ID:               tx.ID,
		Code:             tx.Code,
		ListingID:        tx.ListingID,
		BuyerID:          tx.BuyerID,
		SellerID:         tx.SellerID,
		AgreedPrice:      tx.AgreedPrice,
		PlatformFee:      tx.PlatformFee,
		PlatformFeeBps:   tx.PlatformFeeBps,
		SellerNet:        tx.SellerNet,
		PayerIdentity:    tx.PayerIdentity,
		Status:           string(tx.Status),
		FlaggedForReview: tx.FlaggedForReview,
		PaymentDeadline:  tx.PaymentDeadline,
		AutoReleaseAt:    tx.AutoReleaseAt,
		CancelReason:     tx.CancelReason,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
		PaidAt:           tx.PaidAt,
		TransferredAt:    tx.TransferredAt,
		CompletedAt:      tx.CompletedAt,
		CancelledAt:      tx.CancelledAt,
	}
}

func ToDomainTransactionEvent(model *models.TransactionEventModel) *domain.TransactionEvent {
	return &domain.TransactionEvent{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		Status:        domain.TransactionStatus(model.Status),
		Actor:         model.Actor,
		Note:          model.Note,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMTransactionEvent(event *domain.TransactionEvent) *models.TransactionEventModel {
	return &models.TransactionEventModel{
		ID:            event.ID,
		TransactionID: event.TransactionID,
		Status:        string(event.Status),
		Actor:         event.Actor,
		Note:          event.Note,
		CreatedAt:     event.CreatedAt,
	}
}
