package models

import "time"

// Amount type constants for AmountSpec
const (
	AmountTypePercentage = "percentage"
	AmountTypeFixed      = "fixed"
)

// Invoice status constants
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

// AmountSpec represents a charge or reduction expressed either as a
// percentage of a base amount or as a fixed absolute amount. It is used
// for taxes, discounts and shipping.
type AmountSpec struct {
	Amount     float64 `json:"amount"`
	AmountType string  `json:"amountType"`
}

// LineItem is one billable row on an invoice with fully computed monetary
// fields. Price mirrors UnitPrice for consumers that still read the old
// field name; the two are always numerically equal after normalization.
type LineItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Quantity    float64    `json:"quantity"`
	UnitPrice   float64    `json:"unitPrice"`
	Price       float64    `json:"price"` // alias of UnitPrice
	Tax         AmountSpec `json:"tax"`
	Discount    AmountSpec `json:"discount"`
	Total       float64    `json:"total"`

	// Legacy rate echoes, populated only when the input carried the old
	// bare-number fields.
	TaxRate      *float64 `json:"taxRate,omitempty"`
	DiscountRate *float64 `json:"discountRate,omitempty"`
}

// CustomInput is a free-form key/value pair attached to a party.
type CustomInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PartyInfo describes the sender or receiver of an invoice. All fields
// are optional; empty strings mean "not provided".
type PartyInfo struct {
	Name         string        `json:"name"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	ZipCode      string        `json:"zipCode"`
	Country      string        `json:"country"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	CustomInputs []CustomInput `json:"customInputs,omitempty"`
}

// PaymentInformation holds the bank details printed on the invoice.
type PaymentInformation struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

// Signature holds a drawn/typed/uploaded signature.
type Signature struct {
	Data       string `json:"data"`
	FontFamily string `json:"fontFamily,omitempty"`
}

// InvoiceDetails carries the document-level fields of an invoice.
// Notes/AdditionalNotes and Terms/PaymentTerms are alias pairs: the
// normalizer guarantees both sides of each pair read the same value.
type InvoiceDetails struct {
	InvoiceNumber       string             `json:"invoiceNumber"`
	InvoiceDate         *time.Time         `json:"invoiceDate,omitempty"`
	DueDate             *time.Time         `json:"dueDate,omitempty"`
	Currency            string             `json:"currency"`
	Status              string             `json:"status"`
	Items               []LineItem         `json:"items"`
	SubTotal            float64            `json:"subTotal"`
	TotalAmount         float64            `json:"totalAmount"`
	Tax                 AmountSpec         `json:"tax"`
	Discount            AmountSpec         `json:"discount"`
	Shipping            AmountSpec         `json:"shipping"`
	PaymentInformation  PaymentInformation `json:"paymentInformation"`
	Signature           Signature          `json:"signature"`
	AdditionalNotes     string             `json:"additionalNotes"`
	Notes               string             `json:"notes"`
	PaymentTerms        string             `json:"paymentTerms"`
	Terms               string             `json:"terms"`
	PDFTemplate         int                `json:"pdfTemplate"`
	InvoiceLogo         string             `json:"invoiceLogo"`
	PurchaseOrderNumber string             `json:"purchaseOrderNumber"`
}

// Invoice is the canonical, fully computed representation that every
// consumer (persistence, rendering, export) trusts. Legacy inputs with
// root-level items or a settings block never survive normalization; they
// are folded into Details.
type Invoice struct {
	ID        string         `json:"id,omitempty"`
	Sender    PartyInfo      `json:"sender"`
	Receiver  PartyInfo      `json:"receiver"`
	Details   InvoiceDetails `json:"details"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}
