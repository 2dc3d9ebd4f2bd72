package service

import (
	"io"

	"carbonledger/internal/domain/entity"
)

// InvestmentExporter writes investments as a spreadsheet.
type InvestmentExporter interface {
	ContentType() string
	FileExtension() string
	Export(w io.Writer, investments []*entity.InvestmentDetail) error
}
