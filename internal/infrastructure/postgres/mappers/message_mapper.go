package mappers

import (
	"strings"

	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainMessage(model *models.ChatMessageModel) *domain.ChatMessage {
	var violations []string
	if model.Violations != "" {
		violations = strings.Split(model.Violations, ",")
	}
	return &domain.ChatMessage{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		SenderID:      model.SenderID,
		Body:          model.Body,
		Severity:      model.Severity,
		Violations:    violations,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMMessage(msg *domain.ChatMessage) *models.ChatMessageModel {
	return &models.ChatMessageModel{
		ID:            msg.ID,
		TransactionID: msg.TransactionID,
		SenderID:      msg.SenderID,
		Body:          msg.Body,
		Severity:      msg.Severity,
		Violations:    strings.Join(msg.Violations, ","),
		CreatedAt:     msg.CreatedAt,
	}
}
