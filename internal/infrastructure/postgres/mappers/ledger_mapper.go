package mappers

import (
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainLedgerEntry(model *models.LedgerEntryModel) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		UserID:        model.UserID,
		Amount:        model.Amount,
		Kind:          domain.LedgerEntryKind(model.Kind),
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMLedgerEntry(entry *domain.LedgerEntry) *models.LedgerEntryModel {
	return &models.LedgerEntryModel{
		ID:            entry.ID,
		TransactionID: entry.TransactionID,
		UserID:        entry.UserID,
		Amount:        entry.Amount,
		Kind:          string(entry.Kind),
		CreatedAt:     entry.CreatedAt,
	}
}
