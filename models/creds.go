// Package models defines data structures used across the application.
// File: models/creds.go
package models

// ----------------------- teacher console credentials -----------------------

// Teacher represents one instructor account for the console.
// Password holds a bcrypt hash, never plain text.
type Teacher struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TeacherCreds holds the instructor accounts loaded from config.
type TeacherCreds struct {
	Teachers []Teacher `json:"teachers"`
}
