package normalize

import (
	"testing"

	"github.com/inkwell-apps/invoicer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInvoice_Totality(t *testing.T) {
	inputs := []any{
		nil,
		map[string]any{},
		"garbage",
		42,
		[]any{1, 2, 3},
		map[string]any{"details": "not an object", "sender": 7, "items": "nope"},
	}

	for _, input := range inputs {
		inv := NormalizeInvoice(input)
		require.NotNil(t, inv)
		assert.NotNil(t, inv.Details.Items)
		assert.Equal(t, models.AmountTypePercentage, inv.Details.Tax.AmountType)
		assert.Equal(t, models.AmountTypePercentage, inv.Details.Discount.AmountType)
		assert.Equal(t, models.AmountTypeFixed, inv.Details.Shipping.AmountType)
		assert.Equal(t, 1, inv.Details.PDFTemplate)
	}
}

func TestNormalizeInvoice_RootItemsFallback(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"name": "A", "quantity": 1, "unitPrice": 10},
			map[string]any{"name": "B", "quantity": 2, "unitPrice": 20},
			map[string]any{"name": "C", "quantity": 3, "unitPrice": 30},
		},
		"details": map[string]any{},
	}

	inv := NormalizeInvoice(raw)
	require.Len(t, inv.Details.Items, 3)
	assert.Equal(t, "A", inv.Details.Items[0].Name)
	assert.Equal(t, 140.0, inv.Details.SubTotal)
}

func TestNormalizeInvoice_DetailsItemsWinOverRoot(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"name": "stale", "quantity": 9, "unitPrice": 9},
		},
		"details": map[string]any{
			"items": []any{
				map[string]any{"name": "current", "quantity": 1, "unitPrice": 10},
			},
		},
	}

	inv := NormalizeInvoice(raw)
	require.Len(t, inv.Details.Items, 1)
	assert.Equal(t, "current", inv.Details.Items[0].Name)
}

func TestNormalizeInvoice_SettingsMigration(t *testing.T) {
	raw := map[string]any{
		"settings": map[string]any{"logo": "data:image/png;base64,abc", "template": "3"},
		"details":  map[string]any{},
	}

	inv := NormalizeInvoice(raw)
	assert.Equal(t, "data:image/png;base64,abc", inv.Details.InvoiceLogo)
	assert.Equal(t, 3, inv.Details.PDFTemplate)
}

func TestNormalizeInvoice_SettingsDoNotOverwriteDetails(t *testing.T) {
	raw := map[string]any{
		"settings": map[string]any{"logo": "old-logo", "template": 4},
		"details": map[string]any{
			"invoiceLogo": "current-logo",
			"pdfTemplate": 2,
		},
	}

	inv := NormalizeInvoice(raw)
	assert.Equal(t, "current-logo", inv.Details.InvoiceLogo)
	assert.Equal(t, 2, inv.Details.PDFTemplate)
}

func TestNormalizeInvoice_AliasSymmetry(t *testing.T) {
	t.Run("notes copies to additionalNotes", func(t *testing.T) {
		inv := NormalizeInvoice(map[string]any{
			"details": map[string]any{"notes": "hello"},
		})
		assert.Equal(t, "hello", inv.Details.Notes)
		assert.Equal(t, "hello", inv.Details.AdditionalNotes)
	})

	t.Run("additionalNotes copies to notes", func(t *testing.T) {
		inv := NormalizeInvoice(map[string]any{
			"details": map[string]any{"additionalNotes": "world"},
		})
		assert.Equal(t, "world", inv.Details.Notes)
		assert.Equal(t, "world", inv.Details.AdditionalNotes)
	})

	t.Run("both set stay unchanged", func(t *testing.T) {
		inv := NormalizeInvoice(map[string]any{
			"details": map[string]any{"notes": "one", "additionalNotes": "two"},
		})
		assert.Equal(t, "one", inv.Details.Notes)
		assert.Equal(t, "two", inv.Details.AdditionalNotes)
	})

	t.Run("terms and paymentTerms", func(t *testing.T) {
		inv := NormalizeInvoice(map[string]any{
			"details": map[string]any{"terms": "net 30"},
		})
		assert.Equal(t, "net 30", inv.Details.PaymentTerms)
		assert.Equal(t, "net 30", inv.Details.Terms)
	})
}

func TestNormalizeInvoice_OverridePrecedence(t *testing.T) {
	raw := map[string]any{
		"details": map[string]any{
			"subTotal": 500,
			"items": []any{
				map[string]any{"quantity": 1, "unitPrice": 100, "total": 12345},
				map[string]any{"quantity": 2, "unitPrice": 100},
			},
		},
	}

	inv := NormalizeInvoice(raw)

	// The explicit document-level value wins over the recomputed 300.
	assert.Equal(t, 500.0, inv.Details.SubTotal)

	// Per-item totals are still always recomputed.
	assert.Equal(t, 100.0, inv.Details.Items[0].Total)
	assert.Equal(t, 200.0, inv.Details.Items[1].Total)
}

func TestNormalizeInvoice_ComputesTotalsWhenAbsent(t *testing.T) {
	raw := map[string]any{
		"details": map[string]any{
			"items": []any{
				map[string]any{"quantity": 2, "unitPrice": 50},
			},
			"discount": map[string]any{"amount": 10, "amountType": "percentage"},
			"tax":      map[string]any{"amount": 5, "amountType": "fixed"},
		},
	}

	inv := NormalizeInvoice(raw)
	assert.Equal(t, 100.0, inv.Details.SubTotal)
	// 100 - 10 + 5
	assert.Equal(t, 95.0, inv.Details.TotalAmount)
}

func TestNormalizeInvoice_InvoiceLevelPercentageTax(t *testing.T) {
	raw := map[string]any{
		"details": map[string]any{
			"items": []any{
				map[string]any{"quantity": 1, "unitPrice": 200},
			},
			"discount": map[string]any{"amount": 50, "amountType": "fixed"},
			"tax":      map[string]any{"amount": 10, "amountType": "percentage"},
		},
	}

	inv := NormalizeInvoice(raw)
	// tax base is subTotal minus the invoice discount: (200-50) * 10% = 15
	assert.Equal(t, 200.0, inv.Details.SubTotal)
	assert.Equal(t, 165.0, inv.Details.TotalAmount)
}

func TestNormalizeInvoice_ItemIDFallback(t *testing.T) {
	raw := map[string]any{
		"details": map[string]any{
			"items": []any{
				map[string]any{"name": "keeps id", "id": "abc"},
				map[string]any{"name": "needs id"},
			},
		},
	}

	inv := NormalizeInvoice(raw)
	assert.Equal(t, "abc", inv.Details.Items[0].ID)
	assert.Equal(t, "item-1", inv.Details.Items[1].ID)
}

func TestNormalizeInvoice_MongoIDFallback(t *testing.T) {
	inv := NormalizeInvoice(map[string]any{"_id": "65f0c2"})
	assert.Equal(t, "65f0c2", inv.ID)

	inv = NormalizeInvoice(map[string]any{"id": "abc", "_id": "ignored"})
	assert.Equal(t, "abc", inv.ID)
}

func TestNormalizeInvoice_LegacyShippingShape(t *testing.T) {
	inv := NormalizeInvoice(map[string]any{
		"details": map[string]any{
			"shipping": map[string]any{"cost": 12.5, "costType": "fixed"},
		},
	})
	assert.Equal(t, models.AmountSpec{Amount: 12.5, AmountType: models.AmountTypeFixed}, inv.Details.Shipping)
}

func TestNormalizeInvoice_PartyAndCustomInputs(t *testing.T) {
	raw := map[string]any{
		"sender": map[string]any{
			"name":  "Acme GmbH",
			"email": "billing@acme.test",
			"customInputs": []any{
				map[string]any{"key": "VAT", "value": "DE123"},
			},
		},
		"receiver": map[string]any{
			"name":         "Client Ltd",
			"customInputs": map[string]any{"PO": "4711"},
		},
	}

	inv := NormalizeInvoice(raw)
	assert.Equal(t, "Acme GmbH", inv.Sender.Name)
	require.Len(t, inv.Sender.CustomInputs, 1)
	assert.Equal(t, models.CustomInput{Key: "VAT", Value: "DE123"}, inv.Sender.CustomInputs[0])
	require.Len(t, inv.Receiver.CustomInputs, 1)
	assert.Equal(t, models.CustomInput{Key: "PO", Value: "4711"}, inv.Receiver.CustomInputs[0])
}

func TestNormalizeInvoice_DoesNotMutateInput(t *testing.T) {
	raw := map[string]any{
		"items": []any{
			map[string]any{"name": "root item", "quantity": 1, "unitPrice": 10},
		},
		"details": map[string]any{"notes": "hello"},
	}

	_ = NormalizeInvoice(raw)

	// Root items stay where they were and nothing was written back.
	assert.Len(t, raw["items"], 1)
	details := raw["details"].(map[string]any)
	_, hasAdditional := details["additionalNotes"]
	assert.False(t, hasAdditional)
	_, hasItems := details["items"]
	assert.False(t, hasItems)
}

func TestNormalizeInvoice_Idempotent(t *testing.T) {
	sources := []any{
		nil,
		map[string]any{},
		map[string]any{
			"id": "inv-77",
			"sender": map[string]any{"name": "Acme"},
			"items": []any{
				map[string]any{"name": "A", "quantity": "2", "unitPrice": "49.5", "discount": 7},
				map[string]any{"name": "B", "quantity": 1, "unitPrice": 10, "taxRate": 19},
			},
			"settings": map[string]any{"logo": "logo.png", "template": 2},
			"details": map[string]any{
				"notes":       "pay soon",
				"invoiceDate": "2025-06-01",
				"currency":    "EUR",
			},
		},
	}

	for _, source := range sources {
		once := NormalizeInvoice(source)
		twice := NormalizeInvoice(once)
		assert.Equal(t, once, twice)
	}
}
