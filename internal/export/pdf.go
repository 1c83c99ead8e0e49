package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/inkwell-apps/invoicer/internal/models"
)

// currencySymbols maps common currency codes to their print symbols.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "EUR ",
	"GBP": "GBP ",
	"JPY": "JPY ",
	"CHF": "CHF ",
}

func currencySymbol(code string) string {
	if symbol, ok := currencySymbols[code]; ok {
		return symbol
	}
	if code != "" {
		return code + " "
	}
	return ""
}

// renderPDF draws a simple A4 invoice: parties, metadata, item table
// and totals.
func (e *Exporter) renderPDF(invoice *models.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", invoice.Details.InvoiceNumber), true)
	if e.companyName != "" {
		pdf.SetAuthor(e.companyName, true)
	}
	pdf.AddPage()
	symbol := currencySymbol(invoice.Details.Currency)

	pdf.SetFont("Arial", "B", 24)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(95, 6, fmt.Sprintf("Invoice Number: %s", invoice.Details.InvoiceNumber))
	pdf.Cell(95, 6, fmt.Sprintf("Date: %s", formatDate(invoice.Details.InvoiceDate)))
	pdf.Ln(6)
	pdf.Cell(95, 6, fmt.Sprintf("Status: %s", invoice.Details.Status))
	pdf.Cell(95, 6, fmt.Sprintf("Due Date: %s", formatDate(invoice.Details.DueDate)))
	pdf.Ln(12)

	e.writeParty(pdf, "From:", invoice.Sender)
	e.writeParty(pdf, "Bill To:", invoice.Receiver)

	// Item table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(80, 8, "Item", "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Unit Price", "", 0, "R", true, 0, "")
	pdf.CellFormat(30, 8, "Total", "", 1, "R", true, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(10, pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	for _, item := range invoice.Details.Items {
		pdf.CellFormat(80, 6, item.Name, "", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, fmt.Sprintf("%g", item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%s%.2f", symbol, item.UnitPrice), "", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%s%.2f", symbol, item.Total), "", 1, "R", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, fmt.Sprintf("%s%.2f", symbol, invoice.Details.SubTotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(130, 6, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 6, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, fmt.Sprintf("%s%.2f", symbol, invoice.Details.TotalAmount), "", 1, "R", false, 0, "")

	if terms := invoice.Details.PaymentTerms; terms != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Payment Terms")
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, terms, "", "L", false)
	}
	if notes := invoice.Details.AdditionalNotes; notes != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(0, 6, "Notes")
		pdf.Ln(5)
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, notes, "", "L", false)
	}

	if e.companyName != "" {
		pdf.Ln(10)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.Cell(0, 5, fmt.Sprintf("Issued by %s", e.companyName))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) writeParty(pdf *gofpdf.Fpdf, label string, party models.PartyInfo) {
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, label)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	lines := []string{party.Name, party.Address, party.City + " " + party.ZipCode, party.Country, party.Email}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.Cell(0, 5, line)
		pdf.Ln(4)
	}
	pdf.Ln(6)
}
