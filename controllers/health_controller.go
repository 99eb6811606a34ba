// Package controllers handles the HTTP surface of the polling service.
// File: controllers/health_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

// Root answers GET / with a liveness summary.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Polling System API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startTime).Seconds(),
		"status":    "healthy",
	})
}

// Health is the dedicated health check for monitoring services.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
