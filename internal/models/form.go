package models

import "time"

// ParsedInvoice is the loosely typed shape produced by the AI extractor
// or any other external producer. Nothing in it is trusted: sections may
// be missing, numbers may arrive as strings, dates as free text. The
// Details map deliberately stays untyped so coercion happens in exactly
// one place.
type ParsedInvoice struct {
	Sender   any            `json:"sender"`
	Receiver any            `json:"receiver"`
	Details  map[string]any `json:"details"`
}

// FormItem is one editable item row in the invoice form. Unlike the
// canonical LineItem it always carries a non-empty ID and a non-empty
// name so the form never renders a blank row.
type FormItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice"`
	Total       float64    `json:"total"`
	Tax         AmountSpec `json:"tax"`
	Discount    AmountSpec `json:"discount"`
}

// FormDetails mirrors InvoiceDetails with the stricter null-handling the
// form widgets need: dates are nil when unparseable, totals are nil when
// the source did not supply them.
type FormDetails struct {
	Items               []FormItem         `json:"items"`
	InvoiceNumber       string             `json:"invoiceNumber"`
	InvoiceDate         *time.Time         `json:"invoiceDate"`
	DueDate             *time.Time         `json:"dueDate"`
	Currency            string             `json:"currency"`
	Status              string             `json:"status"`
	SubTotal            *float64           `json:"subTotal"`
	TotalAmount         *float64           `json:"totalAmount"`
	PurchaseOrderNumber string             `json:"purchaseOrderNumber"`
	PaymentInformation  PaymentInformation `json:"paymentInformation"`
	Signature           Signature          `json:"signature"`
	AdditionalNotes     string             `json:"additionalNotes"`
	PaymentTerms        string             `json:"paymentTerms"`
	InvoiceLogo         string             `json:"invoiceLogo"`
}

// FormInvoice is the shape the multi-step form edits. Sender/Receiver
// are nil when the source had no usable party data, which is how the
// pre-submit validity check tells "empty form" from "partial form".
type FormInvoice struct {
	Sender   *PartyInfo   `json:"sender"`
	Receiver *PartyInfo   `json:"receiver"`
	Details  *FormDetails `json:"details"`
}
