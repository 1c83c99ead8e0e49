package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/export"
	"github.com/inkwell-apps/invoicer/internal/models"
	"github.com/inkwell-apps/invoicer/internal/repository"
	"github.com/inkwell-apps/invoicer/internal/service"
)

// InvoiceService is the service surface the handlers depend on.
type InvoiceService interface {
	Create(source any) (*models.Invoice, error)
	Get(id string) (*models.Invoice, error)
	List(filter repository.ListFilter) (*repository.ListResult, error)
	Update(id string, source any) (*models.Invoice, error)
	Delete(id string) error
	Duplicate(id string) (*models.Invoice, error)
	ParseText(ctx context.Context, text string) (*models.FormInvoice, error)
	ParseDocument(ctx context.Context, path string) (*models.FormInvoice, error)
	Export(source any, format export.Format) ([]byte, string, error)
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	invoices InvoiceService
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(invoices InvoiceService, logger *zap.Logger) *Handlers {
	return &Handlers{
		invoices: invoices,
		logger:   logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ListInvoicesRequest represents query parameters for listing invoices
type ListInvoicesRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
	Search string `form:"search"`
}

// ParseTextRequest represents the body of a text extraction request
type ParseTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   "1.0.0",
		},
	})
}

// ListInvoices handles GET /api/invoices
func (h *Handlers) ListInvoices(c *gin.Context) {
	var req ListInvoicesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid query parameters",
		})
		return
	}

	result, err := h.invoices.List(repository.ListFilter{
		Page:   req.Page,
		Limit:  req.Limit,
		Status: req.Status,
		Search: req.Search,
	})
	if err != nil {
		h.logger.Error("Failed to list invoices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to retrieve invoices",
		})
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    result,
	})
}

// CreateInvoice handles POST /api/invoices. The body is accepted as an
// arbitrary document; the service normalizes whatever shape arrives.
func (h *Handlers) CreateInvoice(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Error("Invalid invoice body", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid JSON body",
		})
		return
	}

	invoice, err := h.invoices.Create(body)
	if err != nil {
		h.logger.Error("Failed to create invoice", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to create invoice",
		})
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    invoice,
	})
}

// GetInvoice handles GET /api/invoices/:id
func (h *Handlers) GetInvoice(c *gin.Context) {
	invoice, err := h.invoices.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to retrieve invoice")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    invoice,
	})
}

// UpdateInvoice handles PUT /api/invoices/:id
func (h *Handlers) UpdateInvoice(c *gin.Context) {
	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		h.logger.Error("Invalid invoice body", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid JSON body",
		})
		return
	}

	invoice, err := h.invoices.Update(c.Param("id"), body)
	if err != nil {
		h.respondError(c, err, "failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    invoice,
	})
}

// DeleteInvoice handles DELETE /api/invoices/:id
func (h *Handlers) DeleteInvoice(c *gin.Context) {
	if err := h.invoices.Delete(c.Param("id")); err != nil {
		h.respondError(c, err, "failed to delete invoice")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
	})
}

// DuplicateInvoice handles POST /api/invoices/:id/duplicate
func (h *Handlers) DuplicateInvoice(c *gin.Context) {
	invoice, err := h.invoices.Duplicate(c.Param("id"))
	if err != nil {
		h.respondError(c, err, "failed to duplicate invoice")
		return
	}

	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    invoice,
	})
}

// ParseText handles POST /api/invoice/parse/text
func (h *Handlers) ParseText(c *gin.Context) {
	var req ParseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "text is required",
		})
		return
	}

	form, err := h.invoices.ParseText(c.Request.Context(), req.Text)
	if err != nil {
		h.respondError(c, err, "failed to parse invoice text")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    form,
	})
}

// ParseFile handles POST /api/invoice/parse/file. The uploaded document
// is staged in a temp file for the duration of the extraction.
func (h *Handlers) ParseFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "file is required",
		})
		return
	}

	dir, err := os.MkdirTemp("", "invoice-upload-*")
	if err != nil {
		h.logger.Error("Failed to create upload dir", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to store upload",
		})
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		h.logger.Error("Failed to store upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "failed to store upload",
		})
		return
	}

	form, err := h.invoices.ParseDocument(c.Request.Context(), path)
	if err != nil {
		h.respondError(c, err, "failed to parse invoice document")
		return
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    form,
	})
}

// ExportInvoice handles POST /api/invoice/export?format=
func (h *Handlers) ExportInvoice(c *gin.Context) {
	format := export.Format(c.DefaultQuery("format", string(export.FormatJSON)))

	var body any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "invalid JSON body",
		})
		return
	}

	data, contentType, err := h.invoices.Export(body, format)
	if err != nil {
		h.logger.Error("Failed to export invoice", zap.Error(err))
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("invoice.%s", format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// respondError maps service errors to HTTP statuses.
func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "invoice not found",
		})
	case errors.Is(err, service.ErrExtractionDisabled):
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   service.ErrExtractionDisabled.Error(),
		})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   fallback,
		})
	}
}
