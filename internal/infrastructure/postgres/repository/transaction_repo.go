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

type DefaultTransactionRepository struct {
	db *gorm.DB
}

func NewDefaultTransactionRepository(db *gorm.DB) *DefaultTransactionRepository {
	return &DefaultTransactionRepository{db: db}
}

func (r *DefaultTransactionRepository) CreateTransaction(tx *domain.Transaction) error {
	model := mappers.ToGORMTransaction(tx)
	if err := r.db.Create(model).Error; err != nil {
		if isUniqueViolation(err, "idx_active_tx_listing_buyer") {
			return domain.ErrDuplicateActiveTransaction
		}
		if isUniqueViolation(err, "idx_transaction_code") {
			return domain.ErrCodeCollision
		}
		return fmt.Errorf("creating transaction: %w", err)
	}
	return nil
}

func (r *DefaultTransactionRepository) GetTransactionByID(txID string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.First(&model, "id = ?", txID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) GetTransactionByCode(code string) (*domain.Transaction, error) {
	var model models.TransactionModel
	if err := r.db.First(&model, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) GetActiveByListingBuyer(listingID, buyerID string) (*domain.Transaction, error) {
	var model models.TransactionModel
	err := r.db.
		Where("listing_id = ? AND buyer_id = ?", listingID, buyerID).
		Where("status IN (?)", statusStrings(domain.ActiveTransactionStatuses)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainTransaction(&model), nil
}

func (r *DefaultTransactionRepository) TransactionCodeInUse(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.TransactionModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatusCAS is the single write path for every transition of the
// escrow state machine. The WHERE clause on the current status makes
// concurrent transitions race safely: exactly one caller updates the row,
// the rest observe ErrInvalidTransactionState.
func (r *DefaultTransactionRepository) UpdateStatusCAS(txID string, from []domain.TransactionStatus, to domain.TransactionStatus, set map[string]any) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	for column, value := range set {
		updates[column] = value
	}

	result := r.db.Model(&models.TransactionModel{}).
		Where("id = ?", txID).
		Where("status IN (?)", statusStrings(from)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransactionState
	}
	return nil
}

func (r *DefaultTransactionRepository) AppendEvent(event *domain.TransactionEvent) error {
	model := mappers.ToGORMTransactionEvent(event)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}
	return r.db.Create(model).Error
}

func (r *DefaultTransactionRepository) ListEvents(txID string) ([]*domain.TransactionEvent, error) {
	var eventModels []models.TransactionEventModel
	if err := r.db.
		Where("transaction_id = ?", txID).
		Order("created_at ASC").
		Find(&eventModels).Error; err != nil {
		return nil, err
	}
	events := make([]*domain.TransactionEvent, len(eventModels))
	for i := range eventModels {
		events[i] = mappers.ToDomainTransactionEvent(&eventModels[i])
	}
	return events, nil
}

func (r *DefaultTransactionRepository) FindPaymentExpired(now time.Time) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.
		Where("status IN (?)", []string{string(domain.StatusInitiated), string(domain.StatusAwaitingPayment)}).
		Where("payment_deadline < ?", now).
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

func (r *DefaultTransactionRepository) FindAutoReleasable(now time.Time) ([]*domain.Transaction, error) {
	var txModels []models.TransactionModel
	if err := r.db.
		Where("status = ?", string(domain.StatusTransferPending)).
		Where("auto_release_at IS NOT NULL AND auto_release_at < ?", now).
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

func toDomainTransactions(txModels []models.TransactionModel) []*domain.Transaction {
	txs := make([]*domain.Transaction, len(txModels))
	for i := range txModels {
		txs[i] = mappers.ToDomainTransaction(&txModels[i])
	}
	return txs
}

func statusStrings(statuses []domain.TransactionStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
