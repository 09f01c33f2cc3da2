package mappers

import (
	"strings"

	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainDispute(model *models.DisputeModel) *domain.Dispute {
	var evidence []string
	if model.EvidenceURLs != "" {
		evidence = strings.Split(model.EvidenceURLs, "\n")
	}
	return &domain.Dispute{
		ID:            model.ID,
		Code:          model.Code,
		TransactionID: model.TransactionID,
		OpenerID:      model.OpenerID,
		Reason:        domain.DisputeReason(model.Reason),
		Description:   model.Description,
		EvidenceURLs:  evidence,
		Status:        domain.DisputeStatus(model.Status),
		Outcome:       domain.DisputeOutcome(model.Outcome),
		PriorStatus:   domain.TransactionStatus(model.PriorStatus),
		ResolvedBy:    model.ResolvedBy,
		CreatedAt:     model.CreatedAt,
		ResolvedAt:    model.ResolvedAt,
	}
}

func ToGORMDispute(dispute *domain.Dispute) *models.DisputeModel {
	return &models.DisputeModel{
		ID:            dispute.ID,
		Code:          dispute.Code,
		TransactionID: dispute.TransactionID,
		OpenerID:      dispute.OpenerID,
		Reason:        string(dispute.Reason),
		Description:   dispute.Description,
		EvidenceURLs:  strings.Join(dispute.EvidenceURLs, "\n"),
		Status:        string(dispute.Status),
		Outcome:       string(dispute.Outcome),
		PriorStatus:   string(dispute.PriorStatus),
		ResolvedBy:    dispute.ResolvedBy,
		CreatedAt:     dispute.CreatedAt,
		ResolvedAt:    dispute.ResolvedAt,
	}
}
