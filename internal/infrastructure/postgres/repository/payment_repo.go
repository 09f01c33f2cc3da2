package repository

import (
	"fmt"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultPaymentRepository struct {
	db *gorm.DB
}

func NewDefaultPaymentRepository(db *gorm.DB) *DefaultPaymentRepository {
	return &DefaultPaymentRepository{db: db}
}

func (r *DefaultPaymentRepository) CreatePayment(payment *domain.Payment) error {
	model := mappers.ToGORMPayment(payment)
	if err := r.db.Create(model).Error; err != nil {
		return fmt.Errorf("creating payment: %w", err)
	}
	return nil
}

func (r *DefaultPaymentRepository) GetPaymentByExternalRef(externalRef string) (*domain.Payment, error) {
	var model models.PaymentModel
	if err := r.db.First(&model, "external_ref = ?", externalRef).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainPayment(&model), nil
}

func (r *DefaultPaymentRepository) ListByTransaction(txID string) ([]*domain.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.
		Where("transaction_id = ?", txID).
		Order("created_at ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	payments := make([]*domain.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = mappers.ToDomainPayment(&paymentModels[i])
	}
	return payments, nil
}

// SettlePayment applies one settlement callback. The payment flips
// PENDING -> SETTLED and its transaction AWAITING_PAYMENT -> ESCROW_HELD
// inside one store transaction, so neither can land without the other.
// Replayed callbacks lose the guarded payment UPDATE and are reported as
// ErrPaymentAlreadySettled for the caller to absorb.
func (r *DefaultPaymentRepository) SettlePayment(paymentID, txID string, paidAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		paymentResult := tx.Model(&models.PaymentModel{}).
			Where("id = ?", paymentID).
			Where("status = ?", string(domain.PaymentPending)).
			Updates(map[string]any{
				"status":     string(domain.PaymentSettled),
				"updated_at": paidAt,
			})
		if paymentResult.Error != nil {
			return paymentResult.Error
		}
		if paymentResult.RowsAffected == 0 {
			return domain.ErrPaymentAlreadySettled
		}

		txResult := tx.Model(&models.TransactionModel{}).
			Where("id = ?", txID).
			Where("status = ?", string(domain.StatusAwaitingPayment)).
			Updates(map[string]any{
				"status":     string(domain.StatusEscrowHeld),
				"paid_at":    paidAt,
				"updated_at": paidAt,
			})
		if txResult.Error != nil {
			return txResult.Error
		}
		if txResult.RowsAffected == 0 {
			return domain.ErrInvalidTransactionState
		}
		return nil
	})
}

func (r *DefaultPaymentRepository) MarkPaymentOrphaned(paymentID string, paidAt time.Time) error {
	result := r.db.Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Where("status = ?", string(domain.PaymentPending)).
		Updates(map[string]any{
			"status":     string(domain.PaymentOrphaned),
			"updated_at": paidAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPaymentAlreadySettled
	}
	return nil
}

func (r *DefaultPaymentRepository) MarkPaymentFailed(paymentID, reason string) error {
	result := r.db.Model(&models.PaymentModel{}).
		Where("id = ?", paymentID).
		Where("status = ?", string(domain.PaymentPending)).
		Updates(map[string]any{
			"status":      string(domain.PaymentFailed),
			"fail_reason": reason,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrPaymentAlreadySettled
	}
	return nil
}
