package normalize

import (
	"github.com/google/uuid"
	"github.com/inkwell-apps/invoicer/internal/coerce"
	"github.com/inkwell-apps/invoicer/internal/models"
)

// fallbackItemName is what the form shows for an item the extractor
// could not name.
const fallbackItemName = "Item"

// ToFormInvoice adapts a loosely typed parsed invoice into the shape the
// multi-step form edits. The form needs stricter guarantees than the
// canonical model: every item has a non-empty ID (freshly generated when
// the source had none), a display name, and a non-zero starting
// quantity; dates that fail to parse come back nil so the widgets render
// empty instead of crashing.
func ToFormInvoice(parsed models.ParsedInvoice) models.FormInvoice {
	form := models.FormInvoice{
		Sender:   toFormParty(parsed.Sender),
		Receiver: toFormParty(parsed.Receiver),
	}

	if parsed.Details == nil {
		return form
	}
	src := parsed.Details

	details := &models.FormDetails{
		Items:               []models.FormItem{},
		InvoiceNumber:       coerce.ToString(src["invoiceNumber"]),
		InvoiceDate:         coerce.ToDate(src["invoiceDate"]),
		DueDate:             coerce.ToDate(src["dueDate"]),
		Currency:            coerce.ToString(src["currency"]),
		Status:              coerce.ToString(src["status"]),
		SubTotal:            optionalNumber(src["subTotal"]),
		TotalAmount:         optionalNumber(src["totalAmount"]),
		PurchaseOrderNumber: coerce.ToString(src["purchaseOrderNumber"]),
		PaymentInformation:  toPaymentInformation(src["paymentInformation"]),
		Signature:           toSignature(src["signature"]),
		AdditionalNotes:     coerce.ToString(src["additionalNotes"]),
		PaymentTerms:        coerce.ToString(src["paymentTerms"]),
		InvoiceLogo:         coerce.ToString(src["invoiceLogo"]),
	}

	for _, rawItem := range coerce.AsSlice(src["items"]) {
		details.Items = append(details.Items, toFormItem(rawItem))
	}

	form.Details = details
	return form
}

// toFormItem builds one editable item row. Quantity defaults to 1 here,
// not 0: an operator-facing form starts from a sensible non-zero value,
// while ingestion (ProcessItem) keeps absent quantity at 0.
func toFormItem(raw any) models.FormItem {
	src := coerce.AsMap(raw)

	item := models.FormItem{
		ID:          coerce.ToString(src["id"]),
		Name:        coerce.ToString(src["name"]),
		Description: coerce.ToString(src["description"]),
		Quantity:    coerce.ToNumber(src["quantity"]),
		UnitPrice:   coerce.ToNumber(src["unitPrice"]),
		Tax:         coerce.ToAmountSpec(src["tax"], models.AmountTypePercentage),
		Discount:    coerce.ToAmountSpec(src["discount"], models.AmountTypePercentage),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Name == "" {
		item.Name = fallbackItemName
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	item.Total = item.Quantity * item.UnitPrice
	return item
}

// NewFormItem returns a blank row for the items editor. The tax and
// discount here start as fixed amounts, which deliberately differs from
// the percentage default used during coercion; unifying the two would
// silently change totals on invoices authored under either convention.
func NewFormItem() models.FormItem {
	return models.FormItem{
		ID:       uuid.NewString(),
		Name:     "",
		Quantity: 1,
		Tax:      models.AmountSpec{Amount: 0, AmountType: models.AmountTypeFixed},
		Discount: models.AmountSpec{Amount: 0, AmountType: models.AmountTypeFixed},
	}
}

// IsValidFormData is the pre-submit gate: the form must name at least
// one party, and every item (if any) must be complete enough to compute
// a total from. It is not a persistence-layer constraint.
func IsValidFormData(form models.FormInvoice) bool {
	if form.Sender == nil && form.Receiver == nil {
		return false
	}
	if form.Details == nil {
		return true
	}
	for _, item := range form.Details.Items {
		if item.ID == "" || item.Name == "" {
			return false
		}
		if item.Tax.AmountType == "" || item.Discount.AmountType == "" {
			return false
		}
	}
	return true
}

// toFormParty returns nil when the source has no usable party block,
// which is how the validity check distinguishes an empty form.
func toFormParty(v any) *models.PartyInfo {
	m, ok := v.(map[string]any)
	if !ok || m == nil {
		return nil
	}
	party := toParty(m)
	return &party
}

func optionalNumber(v any) *float64 {
	if v == nil {
		return nil
	}
	n := coerce.ToNumber(v)
	return &n
}
