package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultDisputeRepository struct {
	db *gorm.DB
}

func NewDefaultDisputeRepository(db *gorm.DB) *DefaultDisputeRepository {
	return &DefaultDisputeRepository{db: db}
}

// OpenDispute persists the dispute and freezes its transaction in one
// store transaction. The guarded transaction UPDATE doubles as the state
// check; the partial unique index on open disputes is the backstop against
// two disputes racing on the same transaction.
func (r *DefaultDisputeRepository) OpenDispute(dispute *domain.Dispute, fromStatuses []domain.TransactionStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txResult := tx.Model(&models.TransactionModel{}).
			Where("id = ?", dispute.TransactionID).
			Where("status IN (?)", statusStrings(fromStatuses)).
			Updates(map[string]any{
				"status":     string(domain.StatusDisputeOpened),
				"updated_at": time.Now(),
			})
		if txResult.Error != nil {
			return txResult.Error
		}
		if txResult.RowsAffected == 0 {
			return domain.ErrInvalidTransactionState
		}

		if err := tx.Create(mappers.ToGORMDispute(dispute)).Error; err != nil {
			if isUniqueViolation(err, "idx_open_dispute_transaction") {
				return domain.ErrDisputeAlreadyOpen
			}
			if isUniqueViolation(err, "idx_dispute_code") {
				return domain.ErrCodeCollision
			}
			return fmt.Errorf("creating dispute: %w", err)
		}
		return nil
	})
}

// ResolveDispute closes the dispute, finishes the transaction and writes
// the outcome's ledger entries atomically, so a dispute can never stay
// OPEN while its transaction has left DISPUTE_OPENED, nor vice versa.
func (r *DefaultDisputeRepository) ResolveDispute(disputeID string, outcome domain.DisputeOutcome, resolvedBy string, entries []*domain.LedgerEntry) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var disputeModel models.DisputeModel
		if err := tx.First(&disputeModel, "id = ?", disputeID).Error; err != nil {
			return err
		}

		now := time.Now()
		disputeResult := tx.Model(&models.DisputeModel{}).
			Where("id = ?", disputeID).
			Where("status = ?", string(domain.DisputeOpen)).
			Updates(map[string]any{
				"status":      string(domain.DisputeResolved),
				"outcome":     string(outcome),
				"resolved_by": resolvedBy,
				"resolved_at": now,
				"updated_at":  now,
			})
		if disputeResult.Error != nil {
			return disputeResult.Error
		}
		if disputeResult.RowsAffected == 0 {
			return domain.ErrDisputeNotOpen
		}

		txResult := tx.Model(&models.TransactionModel{}).
			Where("id = ?", disputeModel.TransactionID).
			Where("status = ?", string(domain.StatusDisputeOpened)).
			Updates(map[string]any{
				"status":       string(domain.StatusDisputeResolved),
				"completed_at": now,
				"updated_at":   now,
			})
		if txResult.Error != nil {
			return txResult.Error
		}
		if txResult.RowsAffected == 0 {
			return domain.ErrInvalidTransactionState
		}

		for _, entry := range entries {
			model := mappers.ToGORMLedgerEntry(entry)
			if model.ID == "" {
				model.ID = uuid.NewString()
			}
			if model.CreatedAt.IsZero() {
				model.CreatedAt = now
			}
			if err := tx.Create(model).Error; err != nil {
				return fmt.Errorf("writing ledger entry: %w", err)
			}
		}
		return nil
	})
}

func (r *DefaultDisputeRepository) GetDisputeByID(disputeID string) (*domain.Dispute, error) {
	var model models.DisputeModel
	if err := r.db.First(&model, "id = ?", disputeID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) GetOpenByTransaction(txID string) (*domain.Dispute, error) {
	var model models.DisputeModel
	err := r.db.
		Where("transaction_id = ? AND status = ?", txID, string(domain.DisputeOpen)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainDispute(&model), nil
}

func (r *DefaultDisputeRepository) DisputeCodeInUse(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.DisputeModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *DefaultDisputeRepository) ListDisputes(status domain.DisputeStatus, page, limit int64) ([]*domain.Dispute, int64, error) {
	query := r.db.Model(&models.DisputeModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting disputes: %w", err)
	}

	if page < 1 {
		page = 1
	}
	var disputeModels []models.DisputeModel
	err := query.
		Order("created_at DESC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&disputeModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing disputes: %w", err)
	}

	disputes := make([]*domain.Dispute, len(disputeModels))
	for i := range disputeModels {
		disputes[i] = mappers.ToDomainDispute(&disputeModels[i])
	}
	return disputes, total, nil
}
