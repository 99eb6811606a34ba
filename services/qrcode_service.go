// services/qrcode_service.go
package services

import (
	"os"

	"github.com/skip2/go-qrcode"
)

// GenerateJoinQRCode creates a QR code pointing students at the join page.
func GenerateJoinQRCode(size int) ([]byte, error) {
	applicationURL := os.Getenv("APPLICATION_URL")
	if applicationURL == "" {
		applicationURL = "http://localhost:8080" // Default for local testing
	}

	png, err := qrcode.Encode(applicationURL+"/join", qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
