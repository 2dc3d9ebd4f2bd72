package qrcode

import (
	"testing"

	"carbonledger/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		size                 int
		errorCorrectionLevel string
	}{
		{"Low error correction", 256, "L"},
		{"Medium error correction", 256, "M"},
		{"High error correction", 256, "Q"},
		{"Highest error correction", 256, "H"},
		{"Default error correction", 256, "invalid"},
		{"Default size", 0, "M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewQRCodeService(tt.size, tt.errorCorrectionLevel, "https://ledger.example")
			assert.NotNil(t, service)
		})
	}
}

func TestQRCodeService_GenerateProjectQR(t *testing.T) {
	service := NewQRCodeService(256, "M", "https://ledger.example")

	qrBytes, err := service.GenerateProjectQR(uuid.New())
	require.NoError(t, err)
	require.Greater(t, len(qrBytes), 4)

	// Verify it's a valid PNG (starts with PNG magic number)
	assert.Equal(t, byte(0x89), qrBytes[0])
	assert.Equal(t, byte(0x50), qrBytes[1])
	assert.Equal(t, byte(0x4E), qrBytes[2])
	assert.Equal(t, byte(0x47), qrBytes[3])
}

func TestQRCodeService_ProjectURL(t *testing.T) {
	service := NewQRCodeService(256, "M", "https://ledger.example/").(*qrcodeService)
	projectID := uuid.New()

	assert.Equal(t, "https://ledger.example/projects/"+projectID.String(), service.projectURL(projectID))
}

func TestQRCodeService_ParseProjectQR(t *testing.T) {
	service := NewQRCodeService(256, "M", "https://ledger.example")
	projectID := uuid.New()

	tests := []struct {
		name    string
		data    string
		want    uuid.UUID
		wantErr bool
	}{
		{"Absolute link", "https://ledger.example/projects/" + projectID.String(), projectID, false},
		{"Relative link", "/projects/" + projectID.String(), projectID, false},
		{"Other page", "https://ledger.example/leaderboard", uuid.Nil, true},
		{"Bad id", "https://ledger.example/projects/not-a-uuid", uuid.Nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.ParseProjectQR(tt.data)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewQRCodeServiceFromConfig(t *testing.T) {
	cfg := &config.Config{QRCode: &config.QRCodeConfig{Size: 128, ErrorCorrectionLevel: "H", BaseURL: "https://x.example"}}
	service := NewQRCodeServiceFromConfig(cfg).(*qrcodeService)

	assert.Equal(t, 128, service.size)
	assert.Equal(t, "https://x.example", service.baseURL)

	assert.NotNil(t, NewQRCodeServiceFromConfig(&config.Config{}))
}
