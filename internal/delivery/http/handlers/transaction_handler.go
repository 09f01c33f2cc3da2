package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/usecase"
	transactiondto "github.com/repassafesta/escrow-service/internal/usecase/dto/transaction"
)

type TransactionHandler struct {
	txUC usecase.TransactionUsecase
}

func NewTransactionHandler(txUC usecase.TransactionUsecase) *TransactionHandler {
	return &TransactionHandler{txUC: txUC}
}

func (h *TransactionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/transactions", h.Create)
	r.GET("/transactions/:id", h.Get)
	r.GET("/transactions/code/:code", h.GetByCode)
	r.GET("/transactions/:id/events", h.ListEvents)
	r.POST("/transactions/:id/payment", h.RequestPayment)
	r.POST("/transactions/:id/transfer", h.MarkTransferred)
	r.POST("/transactions/:id/confirm", h.Confirm)
	r.POST("/transactions/:id/cancel", h.Cancel)
	r.POST("/transactions/:id/refund", h.Refund)
}

type createTransactionRequest struct {
	ListingID           string `json:"listing_id" binding:"required"`
	AgreedPrice         int64  `json:"agreed_price" binding:"required"`
	PayerIdentity       string `json:"payer_identity"`
	BuyerAccountAgeDays int64  `json:"buyer_account_age_days"`
	BuyerVerified       bool   `json:"buyer_verified"`
}

type requestPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

type transferRequest struct {
	Note string `json:"note"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type transactionResponse struct {
	ID               string     `json:"id"`
	Code             string     `json:"code"`
	ListingID        string     `json:"listing_id"`
	BuyerID          string     `json:"buyer_id"`
	SellerID         string     `json:"seller_id"`
	AgreedPrice      int64      `json:"agreed_price"`
	PlatformFee      int64      `json:"platform_fee"`
	SellerNet        int64      `json:"seller_net"`
	Status           string     `json:"status"`
	FlaggedForReview bool       `json:"flagged_for_review,omitempty"`
	PaymentDeadline  time.Time  `json:"payment_deadline"`
	AutoReleaseAt    *time.Time `json:"auto_release_at,omitempty"`
	CancelReason     string     `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func toTransactionResponse(tx *domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:               tx.ID,
		Code:             tx.Code,
		ListingID:        tx.ListingID,
		BuyerID:          tx.BuyerID,
		SellerID:         tx.SellerID,
		AgreedPrice:      tx.AgreedPrice,
		PlatformFee:      tx.PlatformFee,
		SellerNet:        tx.SellerNet,
		Status:           string(tx.Status),
		FlaggedForReview: tx.FlaggedForReview,
		PaymentDeadline:  tx.PaymentDeadline,
		AutoReleaseAt:    tx.AutoReleaseAt,
		CancelReason:     tx.CancelReason,
		CreatedAt:        tx.CreatedAt,
		PaidAt:           tx.PaidAt,
		CompletedAt:      tx.CompletedAt,
	}
}

func (h *TransactionHandler) Create(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	tx, err := h.txUC.Create(c.Request.Context(), &transactiondto.CreateTransactionInput{
		ListingID:           req.ListingID,
		BuyerID:             callerID(c),
		AgreedPrice:         req.AgreedPrice,
		PayerIdentity:       req.PayerIdentity,
		BuyerAccountAgeDays: req.BuyerAccountAgeDays,
		BuyerVerified:       req.BuyerVerified,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(tx))
}

func (h *TransactionHandler) Get(c *gin.Context) {
	tx, err := h.txUC.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

func (h *TransactionHandler) GetByCode(c *gin.Context) {
	tx, err := h.txUC.GetByCode(c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

func (h *TransactionHandler) ListEvents(c *gin.Context) {
	events, err := h.txUC.ListEvents(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	type eventResponse struct {
		Status    string    `json:"status"`
		Actor     string    `json:"actor"`
		Note      string    `json:"note,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			Status:    string(e.Status),
			Actor:     e.Actor,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (h *TransactionHandler) RequestPayment(c *gin.Context) {
	var req requestPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	instructions, err := h.txUC.RequestPayment(c.Request.Context(), &transactiondto.RequestPaymentInput{
		TransactionID: c.Param("id"),
		BuyerID:       callerID(c),
		Method:        req.Method,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"payment_id":   instructions.PaymentID,
		"external_ref": instructions.ExternalRef,
		"amount":       instructions.Amount,
		"qr_payload":   instructions.QRPayload,
		"redirect_url": instructions.RedirectURL,
	})
}

func (h *TransactionHandler) MarkTransferred(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	if err := h.txUC.MarkSellerTransferred(c.Param("id"), callerID(c), req.Note); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusTransferPending)})
}

func (h *TransactionHandler) Confirm(c *gin.Context) {
	if err := h.txUC.ConfirmByBuyer(c.Param("id"), callerID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusCompleted)})
}

func (h *TransactionHandler) Cancel(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	err := h.txUC.Cancel(&transactiondto.CancelTransactionInput{
		TransactionID: c.Param("id"),
		ActorID:       callerID(c),
		Reason:        req.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusCancelled)})
}

func (h *TransactionHandler) Refund(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	if err := h.txUC.Refund(c.Param("id"), callerID(c), req.Reason); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusRefunded)})
}
