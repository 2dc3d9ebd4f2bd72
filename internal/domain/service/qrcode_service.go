package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation and parsing services
type QRCodeService interface {
	// GenerateProjectQR renders a PNG QR code linking to the public project page.
	GenerateProjectQR(projectID uuid.UUID) ([]byte, error)

	// ParseProjectQR extracts the project ID from QR code content.
	ParseProjectQR(qrData string) (uuid.UUID, error)
}
