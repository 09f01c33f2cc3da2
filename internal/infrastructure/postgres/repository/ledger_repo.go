package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultLedgerRepository struct {
	db *gorm.DB
}

func NewDefaultLedgerRepository(db *gorm.DB) *DefaultLedgerRepository {
	return &DefaultLedgerRepository{db: db}
}

func (r *DefaultLedgerRepository) CreateEntry(entry *domain.LedgerEntry) error {
	model := mappers.ToGORMLedgerEntry(entry)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	if model.CreatedAt.IsZero() {
		model.CreatedAt = time.Now()
	}
	return r.db.Create(model).Error
}

func (r *DefaultLedgerRepository) ListByTransaction(txID string) ([]*domain.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := r.db.
		Where("transaction_id = ?", txID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}
	entries := make([]*domain.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = mappers.ToDomainLedgerEntry(&entryModels[i])
	}
	return entries, nil
}

func (r *DefaultLedgerRepository) UserBalance(userID string) (int64, error) {
	var balance int64
	err := r.db.Model(&models.LedgerEntryModel{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	return balance, err
}
