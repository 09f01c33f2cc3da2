package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Identity arrives from the API gateway, which terminates authentication.
// This service only needs who is calling and in which role.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "X-User-ID header required",
			})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, c.GetHeader(headerUserRole))
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func callerRole(c *gin.Context) string {
	return c.GetString(ctxUserRole)
}
