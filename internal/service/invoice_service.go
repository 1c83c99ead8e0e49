// Package service wires the normalizer, repository, extractor and
// exporters together behind the operations the HTTP layer exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/export"
	"github.com/inkwell-apps/invoicer/internal/models"
	"github.com/inkwell-apps/invoicer/internal/normalize"
	"github.com/inkwell-apps/invoicer/internal/repository"
	"github.com/inkwell-apps/invoicer/pkg/utils"
)

// ErrNotFound is returned when the requested invoice does not exist.
var ErrNotFound = errors.New("invoice not found")

// ErrExtractionDisabled is returned when parsing is requested but no
// OpenAI API key was configured.
var ErrExtractionDisabled = errors.New("invoice extraction is not configured")

// InvoiceStore is the persistence surface the service depends on.
type InvoiceStore interface {
	Create(invoice *models.Invoice) error
	GetByID(id string) (*models.Invoice, error)
	List(filter repository.ListFilter) (*repository.ListResult, error)
	Update(invoice *models.Invoice) error
	Delete(id string) error
}

// TextParser extracts invoice data from free-form text.
type TextParser interface {
	ParseText(ctx context.Context, text string) (*models.ParsedInvoice, error)
}

// DocumentParser extracts invoice data from an uploaded PDF or image.
type DocumentParser interface {
	ParseDocument(ctx context.Context, path string) (*models.ParsedInvoice, error)
}

// InvoiceService implements the invoice operations. Every submission
// passes through the normalizer before it is stored, so the repository
// only ever sees canonical documents.
type InvoiceService struct {
	store      InvoiceStore
	textParser TextParser
	docParser  DocumentParser
	exporter   *export.Exporter
	logger     *zap.Logger
}

// NewInvoiceService creates a new invoice service. textParser and
// docParser may be nil when extraction is not configured; the parse
// operations then return ErrExtractionDisabled.
func NewInvoiceService(
	store InvoiceStore,
	textParser TextParser,
	docParser DocumentParser,
	exporter *export.Exporter,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		store:      store,
		textParser: textParser,
		docParser:  docParser,
		exporter:   exporter,
		logger:     logger,
	}
}

// Create normalizes the submitted document and stores it. Missing IDs
// and statuses are filled in here, not by the normalizer, so normal
// form round-trips stay byte-stable.
func (s *InvoiceService) Create(source any) (*models.Invoice, error) {
	invoice := normalize.NormalizeInvoice(source)
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}
	if invoice.Details.Status == "" {
		invoice.Details.Status = models.StatusDraft
	}
	now := time.Now().UTC()
	invoice.CreatedAt = &now
	invoice.UpdatedAt = &now

	s.warnOnSuspectFields(invoice)

	if err := s.store.Create(invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("Invoice created",
		zap.String("id", invoice.ID),
		zap.String("invoice_number", invoice.Details.InvoiceNumber))
	return invoice, nil
}

// Get returns the invoice with the given ID.
func (s *InvoiceService) Get(id string) (*models.Invoice, error) {
	invoice, err := s.store.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if invoice == nil {
		return nil, ErrNotFound
	}
	return invoice, nil
}

// List returns a page of invoices matching the filter.
func (s *InvoiceService) List(filter repository.ListFilter) (*repository.ListResult, error) {
	result, err := s.store.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return result, nil
}

// Update normalizes the submitted document and replaces the stored
// invoice. The path ID wins over any ID embedded in the document.
func (s *InvoiceService) Update(id string, source any) (*models.Invoice, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	invoice := normalize.NormalizeInvoice(source)
	invoice.ID = id
	if invoice.Details.Status == "" {
		invoice.Details.Status = existing.Details.Status
	}
	invoice.CreatedAt = existing.CreatedAt
	now := time.Now().UTC()
	invoice.UpdatedAt = &now

	s.warnOnSuspectFields(invoice)

	if err := s.store.Update(invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.logger.Info("Invoice updated", zap.String("id", id))
	return invoice, nil
}

// Delete removes the invoice with the given ID.
func (s *InvoiceService) Delete(id string) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	if err := s.store.Delete(id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	s.logger.Info("Invoice deleted", zap.String("id", id))
	return nil
}

// Duplicate copies an existing invoice under a fresh ID. The copy goes
// back through the normalizer, which leaves its finalized totals
// intact, and starts over as a draft.
func (s *InvoiceService) Duplicate(id string) (*models.Invoice, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	copied := normalize.NormalizeInvoice(existing)
	copied.ID = uuid.NewString()
	copied.Details.Status = models.StatusDraft
	now := time.Now().UTC()
	copied.CreatedAt = &now
	copied.UpdatedAt = &now

	if err := s.store.Create(copied); err != nil {
		return nil, fmt.Errorf("failed to duplicate invoice: %w", err)
	}

	s.logger.Info("Invoice duplicated",
		zap.String("source_id", id),
		zap.String("id", copied.ID))
	return copied, nil
}

// ParseText extracts invoice data from free-form text and returns a
// form-ready invoice.
func (s *InvoiceService) ParseText(ctx context.Context, text string) (*models.FormInvoice, error) {
	if s.textParser == nil {
		return nil, ErrExtractionDisabled
	}
	parsed, err := s.textParser.ParseText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice text: %w", err)
	}
	form := normalize.ToFormInvoice(*parsed)
	return &form, nil
}

// ParseDocument extracts invoice data from an uploaded PDF or image
// file and returns a form-ready invoice.
func (s *InvoiceService) ParseDocument(ctx context.Context, path string) (*models.FormInvoice, error) {
	if s.docParser == nil {
		return nil, ErrExtractionDisabled
	}
	parsed, err := s.docParser.ParseDocument(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse invoice document: %w", err)
	}
	form := normalize.ToFormInvoice(*parsed)
	return &form, nil
}

// Export renders the submitted document in the requested format. The
// document is normalized first so exports always show canonical totals.
func (s *InvoiceService) Export(source any, format export.Format) ([]byte, string, error) {
	invoice := normalize.NormalizeInvoice(source)
	return s.exporter.Export(invoice, format)
}

// warnOnSuspectFields logs likely data-entry mistakes. Normalization is
// total, so bad values are stored as submitted; these warnings are the
// only signal they leave behind.
func (s *InvoiceService) warnOnSuspectFields(invoice *models.Invoice) {
	if invoice.Sender.Email != "" {
		if err := utils.ValidateEmail(invoice.Sender.Email); err != nil {
			s.logger.Warn("Suspect sender email",
				zap.String("id", invoice.ID), zap.Error(err))
		}
	}
	if invoice.Receiver.Email != "" {
		if err := utils.ValidateEmail(invoice.Receiver.Email); err != nil {
			s.logger.Warn("Suspect receiver email",
				zap.String("id", invoice.ID), zap.Error(err))
		}
	}
	if invoice.Details.Currency != "" {
		if err := utils.ValidateCurrency(invoice.Details.Currency); err != nil {
			s.logger.Warn("Suspect currency code",
				zap.String("id", invoice.ID), zap.Error(err))
		}
	}
}
