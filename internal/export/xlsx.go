package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/inkwell-apps/invoicer/internal/models"
)

// renderXLSX builds a single-sheet workbook: header block, one row per
// line item, then the invoice totals.
func (e *Exporter) renderXLSX(invoice *models.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	setCell(f, sheet, "A1", "Invoice")
	setCell(f, sheet, "B1", invoice.Details.InvoiceNumber)
	setCell(f, sheet, "A2", "From")
	setCell(f, sheet, "B2", invoice.Sender.Name)
	setCell(f, sheet, "A3", "To")
	setCell(f, sheet, "B3", invoice.Receiver.Name)
	setCell(f, sheet, "A4", "Date")
	setCell(f, sheet, "B4", formatDate(invoice.Details.InvoiceDate))
	setCell(f, sheet, "A5", "Due")
	setCell(f, sheet, "B5", formatDate(invoice.Details.DueDate))
	setCell(f, sheet, "A6", "Currency")
	setCell(f, sheet, "B6", invoice.Details.Currency)

	headerRow := 8
	for col, header := range []string{"Item", "Description", "Qty", "Unit Price", "Tax", "Discount", "Total"} {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		setCell(f, sheet, cell, header)
	}

	row := headerRow + 1
	for _, item := range invoice.Details.Items {
		values := []any{
			item.Name,
			item.Description,
			item.Quantity,
			item.UnitPrice,
			formatSpec(item.Tax),
			formatSpec(item.Discount),
			item.Total,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			setCell(f, sheet, cell, value)
		}
		row++
	}

	row++
	setCell(f, sheet, fmt.Sprintf("F%d", row), "Subtotal")
	setCell(f, sheet, fmt.Sprintf("G%d", row), invoice.Details.SubTotal)
	row++
	setCell(f, sheet, fmt.Sprintf("F%d", row), "Total")
	setCell(f, sheet, fmt.Sprintf("G%d", row), invoice.Details.TotalAmount)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet, cell string, value any) {
	// SetCellValue only fails on malformed coordinates, which are all
	// fixed strings here.
	_ = f.SetCellValue(sheet, cell, value)
}

func formatSpec(spec models.AmountSpec) string {
	if spec.AmountType == models.AmountTypePercentage {
		return fmt.Sprintf("%g%%", spec.Amount)
	}
	return fmt.Sprintf("%g", spec.Amount)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
