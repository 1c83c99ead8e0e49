package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/export"
	"github.com/inkwell-apps/invoicer/internal/models"
	"github.com/inkwell-apps/invoicer/internal/repository"
)

// memoryStore is an in-memory InvoiceStore for service tests.
type memoryStore struct {
	invoices map[string]*models.Invoice
	order    []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{invoices: make(map[string]*models.Invoice)}
}

func (m *memoryStore) Create(invoice *models.Invoice) error {
	m.invoices[invoice.ID] = invoice
	m.order = append(m.order, invoice.ID)
	return nil
}

func (m *memoryStore) GetByID(id string) (*models.Invoice, error) {
	return m.invoices[id], nil
}

func (m *memoryStore) List(filter repository.ListFilter) (*repository.ListResult, error) {
	result := &repository.ListResult{Page: 1, Limit: len(m.order)}
	for _, id := range m.order {
		result.Invoices = append(result.Invoices, m.invoices[id])
	}
	result.Total = len(result.Invoices)
	return result, nil
}

func (m *memoryStore) Update(invoice *models.Invoice) error {
	m.invoices[invoice.ID] = invoice
	return nil
}

func (m *memoryStore) Delete(id string) error {
	delete(m.invoices, id)
	return nil
}

type stubTextParser struct {
	parsed *models.ParsedInvoice
	err    error
}

func (s *stubTextParser) ParseText(ctx context.Context, text string) (*models.ParsedInvoice, error) {
	return s.parsed, s.err
}

func newTestService(store *memoryStore, parser TextParser) *InvoiceService {
	exporter := export.NewExporter("Acme GmbH", zap.NewNop())
	return NewInvoiceService(store, parser, nil, exporter, zap.NewNop())
}

func submission() map[string]any {
	return map[string]any{
		"sender":   map[string]any{"name": "Acme GmbH"},
		"receiver": map[string]any{"name": "Client Ltd"},
		"details": map[string]any{
			"invoiceNumber": "INV-001",
			"currency":      "EUR",
			"items": []any{
				map[string]any{"name": "Design", "quantity": 2, "unitPrice": 50},
			},
		},
	}
}

func TestCreate_NormalizesAndStores(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)

	invoice, err := svc.Create(submission())
	require.NoError(t, err)

	assert.NotEmpty(t, invoice.ID)
	assert.Equal(t, models.StatusDraft, invoice.Details.Status)
	require.NotNil(t, invoice.CreatedAt)
	require.Len(t, invoice.Details.Items, 1)
	assert.Equal(t, 100.0, invoice.Details.Items[0].Total)
	assert.Equal(t, 100.0, invoice.Details.TotalAmount)
	assert.Contains(t, store.invoices, invoice.ID)
}

func TestCreate_KeepsSubmittedStatus(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)

	doc := submission()
	doc["details"].(map[string]any)["status"] = "paid"

	invoice, err := svc.Create(doc)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, invoice.Details.Status)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)

	_, err := svc.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_PathIDWins(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)

	created, err := svc.Create(submission())
	require.NoError(t, err)

	doc := submission()
	doc["id"] = "some-other-id"
	doc["details"].(map[string]any)["invoiceNumber"] = "INV-002"

	updated, err := svc.Update(created.ID, doc)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "INV-002", updated.Details.InvoiceNumber)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)

	_, err := svc.Update("missing", submission())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)

	created, err := svc.Create(submission())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID))
	assert.NotContains(t, store.invoices, created.ID)

	assert.ErrorIs(t, svc.Delete(created.ID), ErrNotFound)
}

func TestDuplicate(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)

	doc := submission()
	doc["details"].(map[string]any)["status"] = "paid"

	created, err := svc.Create(doc)
	require.NoError(t, err)

	copied, err := svc.Duplicate(created.ID)
	require.NoError(t, err)

	assert.NotEqual(t, created.ID, copied.ID)
	assert.Equal(t, models.StatusDraft, copied.Details.Status)
	assert.Equal(t, created.Details.InvoiceNumber, copied.Details.InvoiceNumber)
	assert.Equal(t, created.Details.TotalAmount, copied.Details.TotalAmount)
	assert.Contains(t, store.invoices, copied.ID)
}

// Duplicating an invoice with finalized totals must not recompute them.
func TestDuplicate_PreservesFinalizedTotals(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil)

	doc := submission()
	doc["details"].(map[string]any)["subTotal"] = 500.0
	doc["details"].(map[string]any)["totalAmount"] = 500.0

	created, err := svc.Create(doc)
	require.NoError(t, err)
	require.Equal(t, 500.0, created.Details.TotalAmount)

	copied, err := svc.Duplicate(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, copied.Details.SubTotal)
	assert.Equal(t, 500.0, copied.Details.TotalAmount)
}

func TestParseText(t *testing.T) {
	parser := &stubTextParser{
		parsed: &models.ParsedInvoice{
			Sender: map[string]any{"name": "Acme GmbH"},
			Details: map[string]any{
				"invoiceNumber": "INV-001",
				"items": []any{
					map[string]any{"name": "Design", "quantity": 2, "unitPrice": 50},
				},
			},
		},
	}
	svc := newTestService(newMemoryStore(), parser)

	form, err := svc.ParseText(context.Background(), "invoice text")
	require.NoError(t, err)
	require.NotNil(t, form.Sender)
	assert.Equal(t, "Acme GmbH", form.Sender.Name)
	require.NotNil(t, form.Details)
	require.Len(t, form.Details.Items, 1)
	assert.Equal(t, 100.0, form.Details.Items[0].Total)
}

func TestParseText_Disabled(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)

	_, err := svc.ParseText(context.Background(), "invoice text")
	assert.ErrorIs(t, err, ErrExtractionDisabled)
}

func TestParseDocument_Disabled(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)

	_, err := svc.ParseDocument(context.Background(), "invoice.pdf")
	assert.ErrorIs(t, err, ErrExtractionDisabled)
}

func TestExport_NormalizesBeforeRendering(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil)

	data, contentType, err := svc.Export(submission(), export.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.Contains(t, string(data), `"totalAmount": 100`)
}
