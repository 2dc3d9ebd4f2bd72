// Package export renders ledger data as spreadsheets.
package export

import (
	"fmt"
	"io"

	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/errors"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding exported investments.
const SheetName = "Investments"

var investmentHeaders = []string{
	"Investment ID", "Created At", "Owner Type", "Owner", "Project", "SDG", "Payment Proof ID", "Amount (Kz)",
}

type xlsxExporter struct{}

// NewXLSXExporter creates an exporter writing Office Open XML workbooks.
func NewXLSXExporter() service.InvestmentExporter {
	return xlsxExporter{}
}

func (xlsxExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (xlsxExporter) FileExtension() string {
	return "xlsx"
}

// Export writes one row per investment below a header row, with a total at the bottom.
func (xlsxExporter) Export(w io.Writer, investments []*entity.InvestmentDetail) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return errors.WithStack(err)
	}

	for i, header := range investmentHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return errors.WithStack(err)
		}
	}

	for i, inv := range investments {
		row := i + 2
		amount, _ := inv.Amount.Float64()
		values := []any{
			inv.ID.String(),
			inv.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			inv.OwnerType.String(),
			inv.OwnerName,
			inv.ProjectName,
			inv.SDGID,
			inv.PaymentProofID.String(),
			amount,
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", row), &values); err != nil {
			return errors.WithStack(err)
		}
	}

	totalRow := len(investments) + 2
	if err := f.SetCellValue(SheetName, fmt.Sprintf("G%d", totalRow), "Total"); err != nil {
		return errors.WithStack(err)
	}
	if len(investments) > 0 {
		formula := fmt.Sprintf("SUM(H2:H%d)", totalRow-1)
		if err := f.SetCellFormula(SheetName, fmt.Sprintf("H%d", totalRow), formula); err != nil {
			return errors.WithStack(err)
		}
	} else if err := f.SetCellValue(SheetName, fmt.Sprintf("H%d", totalRow), 0); err != nil {
		return errors.WithStack(err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}

	return nil
}
