package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/usecase"
	messagedto "github.com/repassafesta/escrow-service/internal/usecase/dto/message"
)

type MessageHandler struct {
	messageUC usecase.MessageUsecase
}

func NewMessageHandler(messageUC usecase.MessageUsecase) *MessageHandler {
	return &MessageHandler{messageUC: messageUC}
}

func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/transactions/:id/messages", h.Send)
	r.GET("/transactions/:id/messages", h.List)
}

type sendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(msg *domain.ChatMessage) messageResponse {
	return messageResponse{
		ID:        msg.ID,
		SenderID:  msg.SenderID,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "invalid request body",
		})
		return
	}

	msg, err := h.messageUC.SendMessage(&messagedto.SendMessageInput{
		TransactionID: c.Param("id"),
		SenderID:      callerID(c),
		Body:          req.Body,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(msg))
}

func (h *MessageHandler) List(c *gin.Context) {
	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	messages, total, err := h.messageUC.ListMessages(&messagedto.ListMessagesInput{
		TransactionID: c.Param("id"),
		ActorID:       callerID(c),
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, toMessageResponse(msg))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out, "total": total})
}
