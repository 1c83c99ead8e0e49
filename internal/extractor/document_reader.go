package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/models"
)

// maxVisionPages bounds how many document pages are sent to the Vision
// API per extraction.
const maxVisionPages = 2

// DocumentReader reads PDF and image files and extracts invoice data
// through the Vision API.
type DocumentReader struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewDocumentReader creates a new document reader
func NewDocumentReader(cfg Config, logger *zap.Logger) *DocumentReader {
	return &DocumentReader{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// ParseDocument reads a PDF or image file and extracts a ParsedInvoice.
func (r *DocumentReader) ParseDocument(ctx context.Context, path string) (*models.ParsedInvoice, error) {
	r.logger.Info("Reading document for invoice extraction", zap.String("path", path))

	pages, err := r.renderPages(path)
	if err != nil {
		r.logger.Error("Failed to render document pages", zap.Error(err))
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages rendered from document")
	}

	if len(pages) > maxVisionPages {
		pages = pages[:maxVisionPages]
	}
	return r.extractWithVision(ctx, pages)
}

// renderPages converts a document to JPEG page images. PDFs go through
// mupdf; JPEG and PNG files are re-encoded directly.
func (r *DocumentReader) renderPages(path string) ([][]byte, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("document not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
	case ".jpg", ".jpeg", ".png":
		return r.readImageFile(path, ext)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var pages [][]byte
	pageCount := doc.NumPage()
	r.logger.Debug("Rendering PDF", zap.Int("total_pages", pageCount))

	for pageNum := 0; pageNum < pageCount; pageNum++ {
		img, err := doc.Image(pageNum)
		if err != nil {
			r.logger.Warn("Failed to render page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}

		encoded, err := encodeJPEG(img)
		if err != nil {
			r.logger.Warn("Failed to encode page",
				zap.Int("page", pageNum),
				zap.Error(err))
			continue
		}
		pages = append(pages, encoded)
	}

	return pages, nil
}

func (r *DocumentReader) readImageFile(path, ext string) ([][]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	var img image.Image
	switch ext {
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(file)
	case ".png":
		img, err = png.Decode(file)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	encoded, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}
	return [][]byte{encoded}, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// extractWithVision sends the rendered pages to the Vision API and
// decodes the response into a ParsedInvoice.
func (r *DocumentReader) extractWithVision(ctx context.Context, pages [][]byte) (*models.ParsedInvoice, error) {
	r.logger.Info("Extracting invoice data with Vision API", zap.Int("page_count", len(pages)))

	ctx, cancel := r.cfg.withTimeout(ctx)
	defer cancel()

	contentParts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: visionExtractionPrompt,
		},
	}
	for i, page := range pages {
		contentParts = append(contentParts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(page)),
				Detail: openai.ImageURLDetailHigh,
			},
		})
		r.logger.Debug("Added page to request", zap.Int("page", i+1), zap.Int("size_bytes", len(page)))
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.cfg.VisionModel,
		MaxTokens:   r.cfg.MaxTokens,
		Temperature: r.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an expert at reading invoices in any language and layout. Always respond with valid JSON.",
			},
			{
				Role:         openai.ChatMessageRoleUser,
				MultiContent: contentParts,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		r.logger.Error("Vision API call failed", zap.Error(err))
		return nil, fmt.Errorf("vision API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from Vision API")
	}

	content := resp.Choices[0].Message.Content
	extractor := &Extractor{client: r.client, cfg: r.cfg, logger: r.logger}
	return extractor.decodeParsed(content)
}
