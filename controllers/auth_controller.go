// Package controllers controllers/auth_controller.go
package controllers

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"go-class-pulse/logger"
	"go-class-pulse/models"
)

var loadTeacherCredsFunc = LoadTeacherCreds // Assign to a variable for easier testing

// ------------------ authentication utilities ------------------

// checkPasswordHash verifies if the provided plain-text password matches the stored hashed password.
func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// LoadTeacherCreds loads instructor console credentials from JSON file.
func LoadTeacherCreds() (*models.TeacherCreds, error) {
	credPath := "./config/teacher_creds.json" // #nosec G101

	data, err := os.ReadFile(credPath)
	if err != nil {
		return nil, err
	}

	var creds models.TeacherCreds
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// ------------------ login handling ------------------

// loginRequest is the body for POST /login.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PerformLogin authenticates an instructor against the credentials file and
// stores the identity in the cookie session.
func PerformLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields."})
		return
	}

	creds, err := loadTeacherCredsFunc()
	if err != nil {
		logger.Error.Println("PerformLogin: Failed to load teacher credentials:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again later."})
		return
	}

	var valid bool
	for _, t := range creds.Teachers {
		if t.Username == req.Username && checkPasswordHash(req.Password, t.Password) {
			valid = true
			break
		}
	}
	if !valid {
		logger.Warn.Printf("PerformLogin: Invalid login attempt for user %s", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password."})
		return
	}

	session := sessions.Default(c)
	session.Set("user", req.Username)
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformLogin: Failed to save session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again later."})
		return
	}

	logger.Info.Printf("Teacher %s logged in", req.Username)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout clears the instructor session.
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Println("Logout: Failed to save session:", err)
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
