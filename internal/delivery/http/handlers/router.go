package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all handlers under /v1. User-facing routes require a
// gateway-provided identity; webhook and operational routes do not.
func NewRouter(
	offerHandler *OfferHandler,
	txHandler *TransactionHandler,
	disputeHandler *DisputeHandler,
	messageHandler *MessageHandler,
	webhookHandler *WebhookHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")

	webhookHandler.RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(RequireIdentity())
	offerHandler.RegisterRoutes(authed)
	txHandler.RegisterRoutes(authed)
	disputeHandler.RegisterRoutes(authed)
	messageHandler.RegisterRoutes(authed)

	return router
}
