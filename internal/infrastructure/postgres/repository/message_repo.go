package repository

import (
	"fmt"

	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultMessageRepository struct {
	db *gorm.DB
}

func NewDefaultMessageRepository(db *gorm.DB) *DefaultMessageRepository {
	return &DefaultMessageRepository{db: db}
}

func (r *DefaultMessageRepository) CreateMessage(msg *domain.ChatMessage) error {
	return r.db.Create(mappers.ToGORMMessage(msg)).Error
}

func (r *DefaultMessageRepository) ListByTransaction(txID string, page, limit int64) ([]*domain.ChatMessage, int64, error) {
	query := r.db.Model(&models.ChatMessageModel{}).Where("transaction_id = ?", txID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting messages: %w", err)
	}

	if page < 1 {
		page = 1
	}
	var messageModels []models.ChatMessageModel
	err := query.
		Order("created_at ASC").
		Offset(int((page - 1) * limit)).
		Limit(int(limit)).
		Find(&messageModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing messages: %w", err)
	}

	messages := make([]*domain.ChatMessage, len(messageModels))
	for i := range messageModels {
		messages[i] = mappers.ToDomainMessage(&messageModels[i])
	}
	return messages, total, nil
}
