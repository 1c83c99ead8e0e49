package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/models"
	"github.com/inkwell-apps/invoicer/internal/normalize"
	"github.com/inkwell-apps/invoicer/pkg/utils"
)

// ListFilter controls pagination and filtering of the invoice list.
type ListFilter struct {
	Page   int
	Limit  int
	Status string
	Search string
}

// ListResult carries one page of invoices plus paging metadata.
type ListResult struct {
	Invoices []*models.Invoice `json:"invoices"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// InvoiceRepository stores canonical invoices. The full document is kept
// as JSON; a handful of columns are extracted for list filtering and
// search so the document itself stays the single source of truth.
type InvoiceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new invoice record
func (r *InvoiceRepository) Create(invoice *models.Invoice) error {
	document, err := json.Marshal(invoice)
	if err != nil {
		return fmt.Errorf("failed to serialize invoice: %w", err)
	}

	query := `
		INSERT INTO invoices (
			id, invoice_number, status, currency, sender_name, receiver_name,
			total_amount, invoice_date, due_date, document, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		invoice.ID,
		invoice.Details.InvoiceNumber,
		invoice.Details.Status,
		invoice.Details.Currency,
		invoice.Sender.Name,
		invoice.Receiver.Name,
		invoice.Details.TotalAmount,
		nullableTime(invoice.Details.InvoiceDate),
		nullableTime(invoice.Details.DueDate),
		string(document),
		nullableTime(invoice.CreatedAt),
		nullableTime(invoice.UpdatedAt),
	)
	if err != nil {
		r.logger.Error("Failed to create invoice", zap.String("id", invoice.ID), zap.Error(err))
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// GetByID retrieves an invoice document by ID; (nil, nil) when absent.
func (r *InvoiceRepository) GetByID(id string) (*models.Invoice, error) {
	var document string
	err := r.db.QueryRow("SELECT document FROM invoices WHERE id = ?", id).Scan(&document)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get invoice", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return decodeDocument(document)
}

// List returns one page of invoices, optionally filtered by status and
// a case-insensitive search over invoice number and party names.
func (r *InvoiceRepository) List(filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 9
	}

	where, args := buildListFilter(filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM invoices" + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := "SELECT document FROM invoices" + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	result := &ListResult{
		Invoices: []*models.Invoice{},
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoice, err := decodeDocument(document)
		if err != nil {
			return nil, err
		}
		result.Invoices = append(result.Invoices, invoice)
	}
	return result, rows.Err()
}

// Update replaces a stored invoice document
func (r *InvoiceRepository) Update(invoice *models.Invoice) error {
	document, err := json.Marshal(invoice)
	if err != nil {
		return fmt.Errorf("failed to serialize invoice: %w", err)
	}

	query := `
		UPDATE invoices SET
			invoice_number = ?, status = ?, currency = ?, sender_name = ?,
			receiver_name = ?, total_amount = ?, invoice_date = ?, due_date = ?,
			document = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		invoice.Details.InvoiceNumber,
		invoice.Details.Status,
		invoice.Details.Currency,
		invoice.Sender.Name,
		invoice.Receiver.Name,
		invoice.Details.TotalAmount,
		nullableTime(invoice.Details.InvoiceDate),
		nullableTime(invoice.Details.DueDate),
		string(document),
		nullableTime(invoice.UpdatedAt),
		invoice.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update invoice", zap.String("id", invoice.ID), zap.Error(err))
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invoice not found: %s", invoice.ID)
	}
	return nil
}

// Delete removes an invoice by ID
func (r *InvoiceRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete invoice", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("invoice not found: %s", id)
	}
	return nil
}

func buildListFilter(filter ListFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if search := utils.SanitizeString(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		clauses = append(clauses,
			"(LOWER(invoice_number) LIKE ? OR LOWER(sender_name) LIKE ? OR LOWER(receiver_name) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// decodeDocument runs every stored document back through the normalizer
// so rows written by older schema versions come out canonical.
func decodeDocument(document string) (*models.Invoice, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(document), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode invoice document: %w", err)
	}
	return normalize.NormalizeInvoice(doc), nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
