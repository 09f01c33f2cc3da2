package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/usecase"
	disputedto "github.com/repassafesta/escrow-service/internal/usecase/dto/dispute"
)

type DisputeHandler struct {
	disputeUC usecase.DisputeUsecase
}

func NewDisputeHandler(disputeUC usecase.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUC: disputeUC}
}

func (h *DisputeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/disputes", h.Open)
	r.GET("/disputes", h.List)
	r.GET("/disputes/:id", h.Get)
	r.POST("/disputes/:id/resolve", h.Resolve)
}

type openDisputeRequest struct {
	TransactionID string   `json:"transaction_id" binding:"required"`
	Reason        string   `json:"reason" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	EvidenceURLs  []string `json:"evidence_urls"`
}

type resolveDisputeRequest struct {
	Outcome string `json:"outcome" binding:"required"`
	Note    string `json:"note"`
}

type disputeResponse struct {
	ID            string     `json:"id"`
	Code          string     `json:"code"`
	TransactionID string     `json:"transaction_id"`
	OpenerID      string     `json:"opener_id"`
	Reason        string     `json:"reason"`
	Description   string     `json:"description"`
	EvidenceURLs  []string   `json:"evidence_urls,omitempty"`
	Status        string     `json:"status"`
	Outcome       string     `json:"outcome,omitempty"`
	ResolvedBy    string     `json:"resolved_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

func toDisputeResponse(dispute *domain.Dispute) disputeResponse {
	return disputeResponse{
		ID:            dispute.ID,
		Code:          dispute.Code,
		TransactionID: dispute.TransactionID,
		OpenerID:      dispute.OpenerID,
		Reason:        string(dispute.Reason),
		Description:   dispute.Description,
		EvidenceURLs:  dispute.EvidenceURLs,
		Status:        string(dispute.Status),
		Outcome:       string(dispute.Outcome),
		ResolvedBy:    dispute.ResolvedBy,
		CreatedAt:     dispute.CreatedAt,
		ResolvedAt:    dispute.ResolvedAt,
	}
}

func (h *DisputeHandler) Open(c *gin.Context) {
	var req openDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	dispute, err := h.disputeUC.OpenDispute(&disputedto.OpenDisputeInput{
		TransactionID: req.TransactionID,
		OpenerID:      callerID(c),
		Reason:        req.Reason,
		Description:   req.Description,
		EvidenceURLs:  req.EvidenceURLs,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toDisputeResponse(dispute))
}

func (h *DisputeHandler) Get(c *gin.Context) {
	dispute, err := h.disputeUC.GetDisputeByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDisputeResponse(dispute))
}

func (h *DisputeHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	out, err := h.disputeUC.ListDisputes(c.Query("status"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}

	disputes := make([]disputeResponse, 0, len(out.Disputes))
	for _, dispute := range out.Disputes {
		disputes = append(disputes, toDisputeResponse(dispute))
	}
	c.JSON(http.StatusOK, gin.H{
		"disputes": disputes,
		"pagination": gin.H{
			"current_page":   out.Pagination.CurrentPage,
			"total_pages":    out.Pagination.TotalPages,
			"total_items":    out.Pagination.TotalItems,
			"items_per_page": out.Pagination.ItemsPerPage,
		},
	})
}

func (h *DisputeHandler) Resolve(c *gin.Context) {
	var req resolveDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	err := h.disputeUC.ResolveDispute(&disputedto.ResolveDisputeInput{
		DisputeID:    c.Param("id"),
		ResolverID:   callerID(c),
		ResolverRole: callerRole(c),
		Outcome:      req.Outcome,
		Note:         req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.DisputeResolved)})
}
