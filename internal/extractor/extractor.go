// Package extractor turns free text and scanned documents into loosely
// typed ParsedInvoice payloads using the OpenAI API. Its output is never
// trusted directly: everything it produces goes through the form
// transformer and the normalizer before any consumer sees it.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/inkwell-apps/invoicer/internal/models"
)

// Config holds extractor configuration
type Config struct {
	APIKey      string
	Model       string
	VisionModel string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// withTimeout caps the API call deadline when a timeout is configured.
func (c Config) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return context.WithCancel(ctx)
}

// Extractor extracts invoice data from natural language text
type Extractor struct {
	client *openai.Client
	cfg    Config
	logger *zap.Logger
}

// NewExtractor creates a new invoice extractor
func NewExtractor(cfg Config, logger *zap.Logger) *Extractor {
	return &Extractor{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// ParseText extracts invoice data from a natural language description.
// The model is asked for a JSON object shaped like the canonical
// invoice; whatever comes back is decoded into the loose ParsedInvoice
// shape and left for the normalization pipeline to make sense of.
func (e *Extractor) ParseText(ctx context.Context, text string) (*models.ParsedInvoice, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	e.logger.Info("Parsing invoice text", zap.Int("text_length", len(text)))

	ctx, cancel := e.cfg.withTimeout(ctx)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		Temperature: e.cfg.Temperature,
		MaxTokens:   e.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: textExtractionPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		e.logger.Error("Failed to call OpenAI API", zap.Error(err))
		return nil, fmt.Errorf("failed to parse invoice text: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return e.decodeParsed(resp.Choices[0].Message.Content)
}

// decodeParsed decodes a model response into a ParsedInvoice. A payload
// that is valid JSON but not object-shaped yields an empty parse rather
// than an error; the normalizer treats both the same way.
func (e *Extractor) decodeParsed(content string) (*models.ParsedInvoice, error) {
	var parsed models.ParsedInvoice
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		e.logger.Error("Failed to decode extraction result",
			zap.Error(err),
			zap.String("content", content))
		return nil, fmt.Errorf("failed to decode extraction result: %w", err)
	}

	e.logger.Info("Invoice parsed",
		zap.Bool("has_sender", parsed.Sender != nil),
		zap.Bool("has_receiver", parsed.Receiver != nil),
		zap.Int("item_count", len(parsedItems(parsed))))

	return &parsed, nil
}

func parsedItems(parsed models.ParsedInvoice) []any {
	if parsed.Details == nil {
		return nil
	}
	items, _ := parsed.Details["items"].([]any)
	return items
}
