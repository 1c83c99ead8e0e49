// Package export renders the canonical invoice into downloadable
// formats. Exporters consume only the normalized Invoice and never
// re-derive totals; whatever the normalizer computed is what prints.
package export

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/models"
)

// Format identifies an export format
type Format string

// Supported export formats
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXML  Format = "xml"
	FormatPDF  Format = "pdf"
)

// Exporter renders canonical invoices into export formats
type Exporter struct {
	companyName string
	logger      *zap.Logger
}

// NewExporter creates a new exporter
func NewExporter(companyName string, logger *zap.Logger) *Exporter {
	return &Exporter{
		companyName: companyName,
		logger:      logger,
	}
}

// Export renders the invoice in the requested format and returns the
// document bytes together with its MIME content type.
func (e *Exporter) Export(invoice *models.Invoice, format Format) ([]byte, string, error) {
	e.logger.Info("Exporting invoice",
		zap.String("id", invoice.ID),
		zap.String("format", string(format)))

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(invoice, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to serialize invoice: %w", err)
		}
		return data, "application/json", nil
	case FormatCSV:
		data, err := e.renderCSV(invoice)
		return data, "text/csv", err
	case FormatXLSX:
		data, err := e.renderXLSX(invoice)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case FormatXML:
		data, err := e.renderXML(invoice)
		return data, "application/xml", err
	case FormatPDF:
		data, err := e.renderPDF(invoice)
		return data, "application/pdf", err
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}
