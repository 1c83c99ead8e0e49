package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/export"
	"github.com/inkwell-apps/invoicer/internal/models"
	"github.com/inkwell-apps/invoicer/internal/repository"
	"github.com/inkwell-apps/invoicer/internal/service"
)

// mockInvoiceService records calls and returns canned results.
type mockInvoiceService struct {
	invoice    *models.Invoice
	listResult *repository.ListResult
	form       *models.FormInvoice
	err        error

	lastFilter repository.ListFilter
	lastID     string
	lastSource any
	deleted    []string
}

func (m *mockInvoiceService) Create(source any) (*models.Invoice, error) {
	m.lastSource = source
	return m.invoice, m.err
}

func (m *mockInvoiceService) Get(id string) (*models.Invoice, error) {
	m.lastID = id
	return m.invoice, m.err
}

func (m *mockInvoiceService) List(filter repository.ListFilter) (*repository.ListResult, error) {
	m.lastFilter = filter
	return m.listResult, m.err
}

func (m *mockInvoiceService) Update(id string, source any) (*models.Invoice, error) {
	m.lastID = id
	m.lastSource = source
	return m.invoice, m.err
}

func (m *mockInvoiceService) Delete(id string) error {
	m.deleted = append(m.deleted, id)
	return m.err
}

func (m *mockInvoiceService) Duplicate(id string) (*models.Invoice, error) {
	m.lastID = id
	return m.invoice, m.err
}

func (m *mockInvoiceService) ParseText(ctx context.Context, text string) (*models.FormInvoice, error) {
	return m.form, m.err
}

func (m *mockInvoiceService) ParseDocument(ctx context.Context, path string) (*models.FormInvoice, error) {
	m.lastID = path
	return m.form, m.err
}

func (m *mockInvoiceService) Export(source any, format export.Format) ([]byte, string, error) {
	if m.err != nil {
		return nil, "", m.err
	}
	return []byte(`{"exported":true}`), "application/json", nil
}

func newTestServer(mock *mockInvoiceService) *Server {
	return NewServer(DefaultServerConfig(), mock, zap.NewNop())
}

func performRequest(s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(&mockInvoiceService{})

	w := performRequest(s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestListInvoices_PassesFilter(t *testing.T) {
	mock := &mockInvoiceService{listResult: &repository.ListResult{Page: 2, Limit: 5}}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodGet, "/api/invoices?page=2&limit=5&status=paid&search=acme", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, repository.ListFilter{Page: 2, Limit: 5, Status: "paid", Search: "acme"}, mock.lastFilter)
}

func TestCreateInvoice(t *testing.T) {
	mock := &mockInvoiceService{invoice: &models.Invoice{ID: "inv-1"}}
	s := newTestServer(mock)

	body := []byte(`{"details":{"items":[{"name":"Design","quantity":2,"unitPrice":50}]}}`)
	w := performRequest(s, http.MethodPost, "/api/invoices", body)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	// The raw document must reach the service untouched.
	source, ok := mock.lastSource.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, source, "details")
}

func TestCreateInvoice_InvalidJSON(t *testing.T) {
	s := newTestServer(&mockInvoiceService{})

	w := performRequest(s, http.MethodPost, "/api/invoices", []byte(`{not json`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
}

func TestGetInvoice_NotFound(t *testing.T) {
	s := newTestServer(&mockInvoiceService{err: service.ErrNotFound})

	w := performRequest(s, http.MethodGet, "/api/invoices/missing", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "invoice not found", resp.Error)
}

func TestUpdateInvoice_UsesPathID(t *testing.T) {
	mock := &mockInvoiceService{invoice: &models.Invoice{ID: "inv-1"}}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodPut, "/api/invoices/inv-1", []byte(`{"id":"other"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "inv-1", mock.lastID)
}

func TestDeleteInvoice(t *testing.T) {
	mock := &mockInvoiceService{}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodDelete, "/api/invoices/inv-1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"inv-1"}, mock.deleted)
}

func TestDuplicateInvoice(t *testing.T) {
	mock := &mockInvoiceService{invoice: &models.Invoice{ID: "inv-2"}}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodPost, "/api/invoices/inv-1/duplicate", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "inv-1", mock.lastID)
}

func TestParseText(t *testing.T) {
	mock := &mockInvoiceService{form: &models.FormInvoice{}}
	s := newTestServer(mock)

	w := performRequest(s, http.MethodPost, "/api/invoice/parse/text", []byte(`{"text":"invoice from Acme"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestParseText_MissingText(t *testing.T) {
	s := newTestServer(&mockInvoiceService{})

	w := performRequest(s, http.MethodPost, "/api/invoice/parse/text", []byte(`{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseText_ExtractionDisabled(t *testing.T) {
	s := newTestServer(&mockInvoiceService{err: service.ErrExtractionDisabled})

	w := performRequest(s, http.MethodPost, "/api/invoice/parse/text", []byte(`{"text":"invoice"}`))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestExportInvoice(t *testing.T) {
	s := newTestServer(&mockInvoiceService{})

	w := performRequest(s, http.MethodPost, "/api/invoice/export?format=json", []byte(`{"details":{}}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice.json")
	assert.JSONEq(t, `{"exported":true}`, w.Body.String())
}
