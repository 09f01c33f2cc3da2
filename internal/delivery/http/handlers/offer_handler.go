package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/usecase"
	offerdto "github.com/repassafesta/escrow-service/internal/usecase/dto/offer"
)

type OfferHandler struct {
	offerUC usecase.OfferUsecase
}

func NewOfferHandler(offerUC usecase.OfferUsecase) *OfferHandler {
	return &OfferHandler{offerUC: offerUC}
}

func (h *OfferHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/offers", h.Create)
	r.GET("/offers/:id", h.Get)
	r.POST("/offers/:id/accept", h.Accept)
	r.POST("/offers/:id/reject", h.Reject)
	r.POST("/offers/:id/counter", h.Counter)
	r.GET("/listings/:id/offers", h.ListByListing)
}

type createOfferRequest struct {
	ListingID           string `json:"listing_id" binding:"required"`
	Amount              int64  `json:"amount" binding:"required"`
	Message             string `json:"message"`
	PayerIdentity       string `json:"payer_identity"`
	BuyerAccountAgeDays int64  `json:"buyer_account_age_days"`
	BuyerVerified       bool   `json:"buyer_verified"`
}

type counterOfferRequest struct {
	CounterAmount  int64  `json:"counter_amount" binding:"required"`
	CounterMessage string `json:"counter_message"`
}

type offerResponse struct {
	ID             string     `json:"id"`
	ListingID      string     `json:"listing_id"`
	BuyerID        string     `json:"buyer_id"`
	SellerID       string     `json:"seller_id"`
	Amount         int64      `json:"amount"`
	Message        string     `json:"message,omitempty"`
	Status         string     `json:"status"`
	CounterAmount  int64      `json:"counter_amount,omitempty"`
	CounterMessage string     `json:"counter_message,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func toOfferResponse(offer *domain.Offer) offerResponse {
	return offerResponse{
		ID:             offer.ID,
		ListingID:      offer.ListingID,
		BuyerID:        offer.BuyerID,
		SellerID:       offer.SellerID,
		Amount:         offer.Amount,
		Message:        offer.Message,
		Status:         string(offer.Status),
		CounterAmount:  offer.CounterAmount,
		CounterMessage: offer.CounterMessage,
		ExpiresAt:      offer.ExpiresAt,
		RespondedAt:    offer.RespondedAt,
		CreatedAt:      offer.CreatedAt,
	}
}

func (h *OfferHandler) Create(c *gin.Context) {
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	offer, err := h.offerUC.CreateOffer(&offerdto.CreateOfferInput{
		ListingID:           req.ListingID,
		BuyerID:             callerID(c),
		Amount:              req.Amount,
		Message:             req.Message,
		PayerIdentity:       req.PayerIdentity,
		BuyerAccountAgeDays: req.BuyerAccountAgeDays,
		BuyerVerified:       req.BuyerVerified,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOfferResponse(offer))
}

func (h *OfferHandler) Get(c *gin.Context) {
	offer, err := h.offerUC.GetOfferByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOfferResponse(offer))
}

func (h *OfferHandler) Accept(c *gin.Context) {
	tx, err := h.offerUC.AcceptOffer(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionResponse(tx))
}

func (h *OfferHandler) Reject(c *gin.Context) {
	if err := h.offerUC.RejectOffer(c.Param("id"), callerID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.OfferRejected)})
}

func (h *OfferHandler) Counter(c *gin.Context) {
	var req counterOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	err := h.offerUC.CounterOffer(&offerdto.RespondOfferInput{
		OfferID:        c.Param("id"),
		SellerID:       callerID(c),
		CounterAmount:  req.CounterAmount,
		CounterMessage: req.CounterMessage,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.OfferCountered)})
}

func (h *OfferHandler) ListByListing(c *gin.Context) {
	offers, err := h.offerUC.ListByListing(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]offerResponse, 0, len(offers))
	for _, offer := range offers {
		out = append(out, toOfferResponse(offer))
	}
	c.JSON(http.StatusOK, gin.H{"offers": out})
}
