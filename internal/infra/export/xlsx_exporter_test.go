package export

import (
	"bytes"
	"testing"
	"time"

	"carbonledger/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXExporter_Export(t *testing.T) {
	exporter := NewXLSXExporter()
	assert.Equal(t, "xlsx", exporter.FileExtension())

	investments := []*entity.InvestmentDetail{
		{
			Investment: entity.Investment{
				ID:             uuid.New(),
				OwnerType:      entity.OwnerTypeCompany,
				ProjectID:      uuid.New(),
				PaymentProofID: uuid.New(),
				Amount:         decimal.RequireFromString("100.50"),
				CreatedAt:      time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			ProjectName: "Mangroves",
			SDGID:       13,
			OwnerName:   "Acme Lda",
		},
		{
			Investment: entity.Investment{
				ID:        uuid.New(),
				OwnerType: entity.OwnerTypeIndividual,
				Amount:    decimal.NewFromInt(40),
			},
			ProjectName: "Wells",
			SDGID:       6,
			OwnerName:   "Ana",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, investments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Investment ID", rows[0][0])
	assert.Equal(t, "2026-03-01 10:00:00", rows[1][1])
	assert.Equal(t, "Acme Lda", rows[1][3])
	assert.Equal(t, "13", rows[1][5])
	assert.Equal(t, "100.5", rows[1][7])
	assert.Equal(t, "individual", rows[2][2])

	formula, err := f.GetCellFormula(SheetName, "H4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(H2:H3)", formula)
}

func TestXLSXExporter_ExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXExporter().Export(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	total, err := f.GetCellValue(SheetName, "H2")
	require.NoError(t, err)
	assert.Equal(t, "0", total)
}
