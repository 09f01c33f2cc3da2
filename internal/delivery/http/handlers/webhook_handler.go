package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/repassafesta/escrow-service/internal/usecase"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
)

// WebhookHandler receives asynchronous callbacks from the payment
// processor. Delivery is at-least-once on their side, so the settlement
// path must stay idempotent all the way down.
type WebhookHandler struct {
	txUC usecase.TransactionUsecase
}

func NewWebhookHandler(txUC usecase.TransactionUsecase) *WebhookHandler {
	return &WebhookHandler{txUC: txUC}
}

func (h *WebhookHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/payments", h.PaymentCallback)
}

type paymentCallbackRequest struct {
	ExternalRef string `json:"external_ref" binding:"required"`
	Status      string `json:"status" binding:"required"`
	PaidAt      int64  `json:"paid_at"`
	Reason      string `json:"reason"`
}

func (h *WebhookHandler) PaymentCallback(c *gin.Context) {
	var req paymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	var err error
	switch req.Status {
	case "settled":
		err = h.txUC.OnPaymentSettled(&transactiondto.PaymentSettledInput{
			ExternalRef: req.ExternalRef,
			PaidAt:      req.PaidAt,
		})
	case "failed":
		err = h.txUC.OnPaymentFailed(&transactiondto.PaymentFailedInput{
			ExternalRef: req.ExternalRef,
			Reason:      req.Reason,
		})
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "unknown callback status",
		})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
