package qrcode

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"carbonledger/config"
	"carbonledger/internal/domain/service"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const projectPathPrefix = "/projects/"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance. Codes link to baseURL/projects/<id>.
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// NewQRCodeServiceFromConfig builds the service from the qrcode config section.
func NewQRCodeServiceFromConfig(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return NewQRCodeService(0, "", "")
	}

	return NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

// GenerateProjectQR renders a PNG QR code pointing at the public project page.
func (s *qrcodeService) GenerateProjectQR(projectID uuid.UUID) ([]byte, error) {
	qrCode, err := qrcode.New(s.projectURL(projectID), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}

// ParseProjectQR extracts the project ID from a scanned project link.
func (s *qrcodeService) ParseProjectQR(qrData string) (uuid.UUID, error) {
	parsed, err := url.Parse(strings.TrimSpace(qrData))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse QR code data: %w", err)
	}

	if !strings.Contains(parsed.Path, projectPathPrefix) {
		return uuid.Nil, fmt.Errorf("invalid QR code link: %s", qrData)
	}

	projectID, err := uuid.Parse(path.Base(parsed.Path))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse project ID: %w", err)
	}

	return projectID, nil
}

func (s *qrcodeService) projectURL(projectID uuid.UUID) string {
	return s.baseURL + projectPathPrefix + projectID.String()
}
