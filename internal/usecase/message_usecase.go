package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/repassafesta/escrow-service/internal/contentfilter"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/metrics"
	messagedto "github.com/repassafesta/escrow-service/internal/usecase/dto/message"
)

type MessageUsecase interface {
	SendMessage(input *messagedto.SendMessageInput) (*domain.ChatMessage, error)
	ListMessages(input *messagedto.ListMessagesInput) ([]*domain.ChatMessage, int64, error)
}

type DefaultMessageUsecase struct {
	messageRepo domain.MessageRepository
	txRepo      domain.TransactionRepository
	notifier    domain.NotificationPublisher
	metrics     *metrics.EscrowMetrics
}

func NewDefaultMessageUsecase(
	messageRepo domain.MessageRepository,
	txRepo domain.TransactionRepository,
	notifier domain.NotificationPublisher,
	escrowMetrics *metrics.EscrowMetrics,
) *DefaultMessageUsecase {
	return &DefaultMessageUsecase{
		messageRepo: messageRepo,
		txRepo:      txRepo,
		notifier:    notifier,
		metrics:     escrowMetrics,
	}
}

// filterMode picks the filter strictness from the transaction's escrow
// phase. Once money is in custody the platform's fee is secured and
// contact exchange stops being a bypass vector.
func filterMode(status domain.TransactionStatus) contentfilter.Mode {
	switch status {
	case domain.StatusEscrowHeld,
		domain.StatusTransferPending,
		domain.StatusCompleted,
		domain.StatusDisputeOpened,
		domain.StatusDisputeResolved,
		domain.StatusRefunded:
		return contentfilter.PostEscrow
	}
	return contentfilter.PreEscrow
}

// SendMessage screens and stores one chat message between the transaction
// participants. Blocked messages are never persisted; the caller receives
// the single most serious reason to show the user.
func (uc *DefaultMessageUsecase) SendMessage(input *messagedto.SendMessageInput) (*domain.ChatMessage, error) {
	tx, err := uc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return nil, err
	}
	if input.SenderID != tx.BuyerID && input.SenderID != tx.SellerID {
		return nil, domain.ErrNotParticipant
	}

	result := contentfilter.Analyze(input.Body, filterMode(tx.Status))
	if result.IsBlocked {
		if uc.metrics != nil {
			for _, violation := range result.Violations {
				uc.metrics.MessagesBlockedTotal.WithLabelValues(violation).Inc()
			}
		}
		return nil, &domain.MessageBlockedError{
			Reason:     contentfilter.PrimaryReason(result.Violations),
			Severity:   string(result.Severity),
			Violations: result.Violations,
		}
	}

	msg := &domain.ChatMessage{
		ID:            uuid.NewString(),
		TransactionID: tx.ID,
		SenderID:      input.SenderID,
		Body:          result.SanitizedText,
		Severity:      string(result.Severity),
		Violations:    result.Violations,
		CreatedAt:     time.Now(),
	}
	if err := uc.messageRepo.CreateMessage(msg); err != nil {
		return nil, err
	}

	recipient := tx.SellerID
	if input.SenderID == tx.SellerID {
		recipient = tx.BuyerID
	}
	uc.notifier.Notify(recipient, domain.NotifyMessageReceived, map[string]string{
		"transaction_code": tx.Code,
		"message_id":       msg.ID,
	})
	return msg, nil
}

func (uc *DefaultMessageUsecase) ListMessages(input *messagedto.ListMessagesInput) ([]*domain.ChatMessage, int64, error) {
	tx, err := uc.txRepo.GetTransactionByID(input.TransactionID)
	if err != nil {
		return nil, 0, err
	}
	if input.ActorID != tx.BuyerID && input.ActorID != tx.SellerID {
		return nil, 0, domain.ErrNotParticipant
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	limit := input.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return uc.messageRepo.ListByTransaction(tx.ID, page, limit)
}
