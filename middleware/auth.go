// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-class-pulse/logger"
)

// -------------- authentication middleware --------------

// AuthRequired ensures the caller holds an instructor session. Teacher-only
// endpoints (poll history, console actions) sit behind it; student websocket
// traffic does not.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("user")

	// block request if user session is missing
	if user == nil {
		logger.Warn.Printf("AuthRequired: No user found in session for %s", c.Request.URL.Path)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		c.Abort()
		return
	}

	logger.Debug.Println("[AuthRequired] User authenticated - proceeding with request")
	c.Next()
}
