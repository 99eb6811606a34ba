// Package controllers controllers/session_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-class-pulse/logger"
	"go-class-pulse/models"
	"go-class-pulse/services"
)

// HistoryProvider is the slice of the session the console endpoints need.
type HistoryProvider interface {
	History() []models.ArchivedPoll
}

var sessionHistory HistoryProvider

// SetSessionService injects the live session into the controllers.
func SetSessionService(h HistoryProvider) {
	sessionHistory = h
}

// GetQRCode serves a PNG QR code pointing students at the join page.
func GetQRCode(c *gin.Context) {
	png, err := services.GenerateJoinQRCode(256)
	if err != nil {
		logger.Error.Printf("GetQRCode: failed to generate QR code: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate QR code"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// SessionHistory returns the archived polls for the teacher console.
func SessionHistory(c *gin.Context) {
	if sessionHistory == nil {
		c.JSON(http.StatusOK, gin.H{"history": []models.ArchivedPoll{}})
		return
	}
	history := sessionHistory.History()
	if history == nil {
		history = []models.ArchivedPoll{}
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
