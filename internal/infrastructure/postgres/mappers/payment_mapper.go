package mappers

import (
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainPayment(model *models.PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		PayerID:       model.PayerID,
		PayeeID:       model.PayeeID,
		ExternalRef:   model.ExternalRef,
		GrossAmount:   model.GrossAmount,
		NetAmount:     model.NetAmount,
		Method:        model.Method,
		Status:        domain.PaymentStatus(model.Status),
		FailReason:    model.FailReason,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func ToGORMPayment(payment *domain.Payment) *models.PaymentModel {
	return &models.PaymentModel{
		ID:            payment.ID,
		TransactionID: payment.TransactionID,
		PayerID:       payment.PayerID,
		PayeeID:       payment.PayeeID,
		ExternalRef:   payment.ExternalRef,
		GrossAmount:   payment.GrossAmount,
		NetAmount:     payment.NetAmount,
		Method:        payment.Method,
		Status:        string(payment.Status),
		FailReason:    payment.FailReason,
		CreatedAt:     payment.CreatedAt,
		UpdatedAt:     payment.UpdatedAt,
	}
}
