package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/inkwell-apps/invoicer/internal/coerce"
	"github.com/inkwell-apps/invoicer/internal/models"
)

// NormalizeInvoice reconciles an invoice-like payload of any historical
// shape into the canonical Invoice. It accepts whatever the extractor,
// the form, stored documents or a duplication produced: items at the
// document root or under details, a settings block instead of details
// fields, note/term aliases, bare-number discounts. The input is never
// mutated; the function reads a structural copy and builds a fresh
// Invoice. It never fails: nil or garbage input yields an empty but
// well-formed Invoice.
func NormalizeInvoice(source any) *models.Invoice {
	raw := toDocument(source)
	details := coerce.AsMap(raw["details"])

	inv := &models.Invoice{
		ID:       invoiceID(raw),
		Sender:   toParty(raw["sender"]),
		Receiver: toParty(raw["receiver"]),
	}
	inv.CreatedAt = coerce.ToDate(raw["createdAt"])
	inv.UpdatedAt = coerce.ToDate(raw["updatedAt"])

	d := &inv.Details
	d.InvoiceNumber = coerce.ToString(details["invoiceNumber"])
	d.InvoiceDate = coerce.ToDate(details["invoiceDate"])
	d.DueDate = coerce.ToDate(details["dueDate"])
	d.Currency = coerce.ToString(details["currency"])
	d.Status = coerce.ToString(details["status"])
	d.PurchaseOrderNumber = coerce.ToString(details["purchaseOrderNumber"])
	d.PaymentInformation = toPaymentInformation(details["paymentInformation"])
	d.Signature = toSignature(details["signature"])

	d.Items = processItems(resolveItems(raw, details))

	migrateSettings(raw, details, d)
	reconcileAliases(details, d)

	d.Tax = resolveDocumentSpec(details, "tax", "taxRate")
	d.Discount = resolveDocumentSpec(details, "discount", "discountRate")
	d.Shipping = toShippingSpec(details["shipping"])

	applyTotals(details, d)

	return inv
}

// resolveItems picks the items source of truth: details.items when it is
// a non-empty array, otherwise the legacy root-level items array. The
// root field never survives into the output either way.
func resolveItems(raw, details map[string]any) []any {
	if items := coerce.AsSlice(details["items"]); len(items) > 0 {
		return items
	}
	return coerce.AsSlice(raw["items"])
}

// processItems runs every raw item through ProcessItem, assigning a
// positional fallback ID where the input had none.
func processItems(rawItems []any) []models.LineItem {
	items := make([]models.LineItem, 0, len(rawItems))
	for i, rawItem := range rawItems {
		item := ProcessItem(rawItem)
		if item.ID == "" {
			item.ID = fmt.Sprintf("item-%d", i)
		}
		items = append(items, item)
	}
	return items
}

// migrateSettings copies the legacy settings block into details fields
// that are still empty, then leaves settings behind. pdfTemplate always
// ends up a number, defaulting to template 1.
func migrateSettings(raw, details map[string]any, d *models.InvoiceDetails) {
	settings := coerce.AsMap(raw["settings"])

	d.InvoiceLogo = coerce.ToString(details["invoiceLogo"])
	if d.InvoiceLogo == "" {
		d.InvoiceLogo = coerce.ToString(settings["logo"])
	}

	d.PDFTemplate = coerce.ToInt(details["pdfTemplate"], 0)
	if d.PDFTemplate == 0 {
		d.PDFTemplate = coerce.ToInt(settings["template"], 1)
	}
}

// reconcileAliases makes both sides of the notes/additionalNotes and
// terms/paymentTerms pairs read the same value. When only one side is
// populated it is copied to the other; when both are set neither is
// overwritten.
func reconcileAliases(details map[string]any, d *models.InvoiceDetails) {
	d.Notes = coerce.ToString(details["notes"])
	d.AdditionalNotes = coerce.ToString(details["additionalNotes"])
	if d.Notes != "" && d.AdditionalNotes == "" {
		d.AdditionalNotes = d.Notes
	} else if d.AdditionalNotes != "" && d.Notes == "" {
		d.Notes = d.AdditionalNotes
	}

	d.Terms = coerce.ToString(details["terms"])
	d.PaymentTerms = coerce.ToString(details["paymentTerms"])
	if d.Terms != "" && d.PaymentTerms == "" {
		d.PaymentTerms = d.Terms
	} else if d.PaymentTerms != "" && d.Terms == "" {
		d.Terms = d.PaymentTerms
	}
}

// resolveDocumentSpec resolves a document-level tax or discount the same
// way items do: a structured object wins over the legacy bare-number
// rate field.
func resolveDocumentSpec(details map[string]any, key, legacyKey string) models.AmountSpec {
	if v, ok := details[key]; ok && v != nil {
		return coerce.ToAmountSpec(v, models.AmountTypePercentage)
	}
	if v, ok := details[legacyKey]; ok && v != nil {
		return models.AmountSpec{Amount: coerce.ToNumber(v), AmountType: models.AmountTypePercentage}
	}
	return coerce.ToAmountSpec(nil, models.AmountTypePercentage)
}

// toShippingSpec accepts both the AmountSpec shape and the legacy
// {cost, costType} shape. Shipping defaults to a fixed charge, unlike
// tax and discount.
func toShippingSpec(v any) models.AmountSpec {
	if m, ok := v.(map[string]any); ok {
		if _, hasCost := m["cost"]; hasCost {
			spec := models.AmountSpec{
				Amount:     coerce.ToNumber(m["cost"]),
				AmountType: models.AmountTypeFixed,
			}
			if ct := coerce.ToString(m["costType"]); ct != "" {
				spec.AmountType = ct
			}
			if spec.Amount < 0 {
				spec.Amount = 0
			}
			return spec
		}
	}
	return coerce.ToAmountSpec(v, models.AmountTypeFixed)
}

// applyTotals aggregates item totals into invoice-level subTotal and
// totalAmount. Explicit numeric values in the payload are trusted as-is
// so already-finalized or duplicated invoices keep exactly the totals
// their client saw; only absent values are recomputed. Per-item totals,
// by contrast, are always recomputed in ProcessItem.
func applyTotals(details map[string]any, d *models.InvoiceDetails) {
	subTotal := 0.0
	for _, item := range d.Items {
		subTotal += item.Quantity * item.UnitPrice
	}

	discountValue := d.Discount.Amount
	if d.Discount.AmountType == models.AmountTypePercentage {
		discountValue = subTotal * d.Discount.Amount / 100
	}

	taxBase := subTotal - discountValue
	taxValue := d.Tax.Amount
	if d.Tax.AmountType == models.AmountTypePercentage {
		taxValue = taxBase * d.Tax.Amount / 100
	}

	d.SubTotal = round2(sanitize(subTotal))
	d.TotalAmount = round2(sanitize(subTotal - discountValue + taxValue))

	if explicit, ok := explicitNumber(details, "subTotal"); ok {
		d.SubTotal = explicit
	}
	if explicit, ok := explicitNumber(details, "totalAmount"); ok {
		d.TotalAmount = explicit
	}
}

// explicitNumber reports whether the payload carries a usable non-zero
// number under key. Zero counts as absent: a zero total is always safe
// to recompute and older documents stored zero as a placeholder.
func explicitNumber(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	n := coerce.ToNumber(v)
	if n == 0 {
		return 0, false
	}
	return n, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// invoiceID reads the document ID, accepting the Mongo-style _id key
// older exports used.
func invoiceID(raw map[string]any) string {
	if id := coerce.ToString(raw["id"]); id != "" {
		return id
	}
	return coerce.ToString(raw["_id"])
}

// toParty normalizes a sender/receiver block.
func toParty(v any) models.PartyInfo {
	m := coerce.AsMap(v)
	return models.PartyInfo{
		Name:         coerce.ToString(m["name"]),
		Address:      coerce.ToString(m["address"]),
		City:         coerce.ToString(m["city"]),
		ZipCode:      coerce.ToString(m["zipCode"]),
		Country:      coerce.ToString(m["country"]),
		Email:        coerce.ToString(m["email"]),
		Phone:        coerce.ToString(m["phone"]),
		CustomInputs: toCustomInputs(m["customInputs"]),
	}
}

// toCustomInputs coerces custom inputs from either the pair-array shape
// or a plain key/value map.
func toCustomInputs(v any) []models.CustomInput {
	if pairs := coerce.AsSlice(v); pairs != nil {
		out := make([]models.CustomInput, 0, len(pairs))
		for _, pair := range pairs {
			m := coerce.AsMap(pair)
			out = append(out, models.CustomInput{
				Key:   coerce.ToString(m["key"]),
				Value: coerce.ToString(m["value"]),
			})
		}
		return out
	}
	if m, ok := v.(map[string]any); ok {
		out := make([]models.CustomInput, 0, len(m))
		for _, key := range sortedKeys(m) {
			out = append(out, models.CustomInput{Key: key, Value: coerce.ToString(m[key])})
		}
		return out
	}
	return nil
}

func toPaymentInformation(v any) models.PaymentInformation {
	m := coerce.AsMap(v)
	return models.PaymentInformation{
		BankName:      coerce.ToString(m["bankName"]),
		AccountName:   coerce.ToString(m["accountName"]),
		AccountNumber: coerce.ToString(m["accountNumber"]),
	}
}

func toSignature(v any) models.Signature {
	// A bare string is a data URL from the draw/upload widgets.
	if s, ok := v.(string); ok {
		return models.Signature{Data: s}
	}
	m := coerce.AsMap(v)
	return models.Signature{
		Data:       coerce.ToString(m["data"]),
		FontFamily: coerce.ToString(m["fontFamily"]),
	}
}

// toDocument converts any source value into a plain document map via a
// JSON round-trip. The round-trip doubles as the structural deep copy
// that keeps NormalizeInvoice from ever touching its input.
func toDocument(source any) map[string]any {
	if source == nil {
		return map[string]any{}
	}
	data, err := json.Marshal(source)
	if err != nil {
		return map[string]any{}
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		return map[string]any{}
	}
	return doc
}
