package export

import (
	"encoding/xml"
	"fmt"

	"github.com/inkwell-apps/invoicer/internal/models"
)

type xmlParty struct {
	Name    string `xml:"Name"`
	Address string `xml:"Address,omitempty"`
	City    string `xml:"City,omitempty"`
	ZipCode string `xml:"ZipCode,omitempty"`
	Country string `xml:"Country,omitempty"`
	Email   string `xml:"Email,omitempty"`
	Phone   string `xml:"Phone,omitempty"`
}

type xmlAmountSpec struct {
	Amount float64 `xml:"Amount"`
	Type   string  `xml:"Type,attr"`
}

type xmlItem struct {
	ID          string        `xml:"ID,attr"`
	Name        string        `xml:"Name"`
	Description string        `xml:"Description,omitempty"`
	Quantity    float64       `xml:"Quantity"`
	UnitPrice   float64       `xml:"UnitPrice"`
	Tax         xmlAmountSpec `xml:"Tax"`
	Discount    xmlAmountSpec `xml:"Discount"`
	Total       float64       `xml:"Total"`
}

type xmlInvoice struct {
	XMLName       xml.Name  `xml:"Invoice"`
	ID            string    `xml:"ID,attr,omitempty"`
	InvoiceNumber string    `xml:"InvoiceNumber"`
	InvoiceDate   string    `xml:"InvoiceDate,omitempty"`
	DueDate       string    `xml:"DueDate,omitempty"`
	Currency      string    `xml:"Currency"`
	Status        string    `xml:"Status"`
	Sender        xmlParty  `xml:"Sender"`
	Receiver      xmlParty  `xml:"Receiver"`
	Items         []xmlItem `xml:"Items>Item"`
	SubTotal      float64   `xml:"SubTotal"`
	TotalAmount   float64   `xml:"TotalAmount"`
	PaymentTerms  string    `xml:"PaymentTerms,omitempty"`
	Notes         string    `xml:"Notes,omitempty"`
}

// renderXML maps the canonical invoice onto a flat XML document.
func (e *Exporter) renderXML(invoice *models.Invoice) ([]byte, error) {
	doc := xmlInvoice{
		ID:            invoice.ID,
		InvoiceNumber: invoice.Details.InvoiceNumber,
		InvoiceDate:   formatDate(invoice.Details.InvoiceDate),
		DueDate:       formatDate(invoice.Details.DueDate),
		Currency:      invoice.Details.Currency,
		Status:        invoice.Details.Status,
		Sender:        toXMLParty(invoice.Sender),
		Receiver:      toXMLParty(invoice.Receiver),
		SubTotal:      invoice.Details.SubTotal,
		TotalAmount:   invoice.Details.TotalAmount,
		PaymentTerms:  invoice.Details.PaymentTerms,
		Notes:         invoice.Details.AdditionalNotes,
	}

	for _, item := range invoice.Details.Items {
		doc.Items = append(doc.Items, xmlItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Tax:         xmlAmountSpec{Amount: item.Tax.Amount, Type: item.Tax.AmountType},
			Discount:    xmlAmountSpec{Amount: item.Discount.Amount, Type: item.Discount.AmountType},
			Total:       item.Total,
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize XML: %w", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func toXMLParty(party models.PartyInfo) xmlParty {
	return xmlParty{
		Name:    party.Name,
		Address: party.Address,
		City:    party.City,
		ZipCode: party.ZipCode,
		Country: party.Country,
		Email:   party.Email,
		Phone:   party.Phone,
	}
}
