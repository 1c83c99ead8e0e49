// Package normalize turns invoice payloads of any historical shape into
// the single canonical representation the rest of the system trusts.
// Every entry point is total: garbage in, well-formed invoice out.
package normalize

import (
	"math"

	"github.com/inkwell-apps/invoicer/internal/coerce"
	"github.com/inkwell-apps/invoicer/internal/models"
)

// ProcessItem normalizes one raw line item and computes its monetary
// fields. Legacy inputs are resolved here: `price` as an alias of
// `unitPrice`, bare-number discounts, and the old `taxRate` and
// `discountRate` fields. The total is always recomputed from the
// normalized fields; a total supplied by the input is ignored.
func ProcessItem(raw any) models.LineItem {
	src := coerce.AsMap(raw)

	item := models.LineItem{
		ID:          coerce.ToString(src["id"]),
		Name:        coerce.ToString(src["name"]),
		Description: coerce.ToString(src["description"]),
		Quantity:    coerce.ToNumber(src["quantity"]),
	}

	// unitPrice wins over the legacy price field when both are present.
	if _, ok := src["unitPrice"]; ok {
		item.UnitPrice = coerce.ToNumber(src["unitPrice"])
	} else {
		item.UnitPrice = coerce.ToNumber(src["price"])
	}
	item.Price = item.UnitPrice

	// A structured tax object wins over the legacy taxRate number.
	if tax, ok := src["tax"]; ok && tax != nil {
		item.Tax = coerce.ToAmountSpec(tax, models.AmountTypePercentage)
	} else if rate, ok := src["taxRate"]; ok && rate != nil {
		item.Tax = models.AmountSpec{
			Amount:     coerce.ToNumber(rate),
			AmountType: models.AmountTypePercentage,
		}
	} else {
		item.Tax = coerce.ToAmountSpec(nil, models.AmountTypePercentage)
	}

	if discount, ok := src["discount"]; ok && discount != nil {
		item.Discount = coerce.ToAmountSpec(discount, models.AmountTypePercentage)
	} else if rate, ok := src["discountRate"]; ok && rate != nil {
		item.Discount = models.AmountSpec{
			Amount:     coerce.ToNumber(rate),
			AmountType: models.AmountTypePercentage,
		}
	} else {
		item.Discount = coerce.ToAmountSpec(nil, models.AmountTypePercentage)
	}

	// The legacy rate fields are echoed whenever present so a document
	// that carried them keeps them across repeated normalization.
	if rate, ok := src["taxRate"]; ok && rate != nil {
		r := coerce.ToNumber(rate)
		item.TaxRate = &r
	}
	if rate, ok := src["discountRate"]; ok && rate != nil {
		r := coerce.ToNumber(rate)
		item.DiscountRate = &r
	}

	item.Total = computeItemTotal(item.Quantity, item.UnitPrice, item.Tax, item.Discount)
	return item
}

// computeItemTotal derives an item total from its normalized fields:
// subtotal, minus discount, plus tax on the discounted base, rounded to
// cents and clamped at zero. The taxable amount is intentionally not
// clamped before tax so a fixed discount larger than the subtotal still
// produces a coherent (then clamped) result.
func computeItemTotal(quantity, unitPrice float64, tax, discount models.AmountSpec) float64 {
	subtotal := quantity * unitPrice

	discountValue := discount.Amount
	if discount.AmountType == models.AmountTypePercentage {
		discountValue = subtotal * discount.Amount / 100
	}

	taxable := subtotal - discountValue

	taxValue := tax.Amount
	if tax.AmountType == models.AmountTypePercentage {
		taxValue = taxable * tax.Amount / 100
	}

	total := taxable + taxValue
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return 0
	}
	return math.Max(0, round2(total))
}

// round2 rounds to two decimal places.
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
