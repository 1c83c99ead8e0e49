package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDecodeParsed(t *testing.T) {
	e := NewExtractor(Config{APIKey: "test-key", Model: "gpt-4o"}, zap.NewNop())

	content := `{
		"sender": {"name": "Acme GmbH", "city": "Berlin"},
		"details": {
			"invoiceNumber": "INV-42",
			"items": [{"name": "Design work", "quantity": 8, "unitPrice": 95}]
		}
	}`

	parsed, err := e.decodeParsed(content)
	require.NoError(t, err)
	require.NotNil(t, parsed)

	sender, ok := parsed.Sender.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme GmbH", sender["name"])
	assert.Equal(t, "INV-42", parsed.Details["invoiceNumber"])
	assert.Len(t, parsedItems(*parsed), 1)
}

func TestDecodeParsed_InvalidJSON(t *testing.T) {
	e := NewExtractor(Config{APIKey: "test-key"}, zap.NewNop())

	parsed, err := e.decodeParsed("this is not json")
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestParseText_EmptyInput(t *testing.T) {
	e := NewExtractor(Config{APIKey: "test-key"}, zap.NewNop())

	parsed, err := e.ParseText(context.Background(), "   ")
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestParseDocument_MissingFile(t *testing.T) {
	r := NewDocumentReader(Config{APIKey: "test-key"}, zap.NewNop())

	parsed, err := r.ParseDocument(context.Background(), "does/not/exist.pdf")
	assert.Error(t, err)
	assert.Nil(t, parsed)
}

func TestParseDocument_UnsupportedType(t *testing.T) {
	r := NewDocumentReader(Config{APIKey: "test-key"}, zap.NewNop())

	tmp := filepath.Join(t.TempDir(), "invoice.docx")
	require.NoError(t, os.WriteFile(tmp, []byte("not really a docx"), 0644))

	parsed, err := r.ParseDocument(context.Background(), tmp)
	assert.Error(t, err)
	assert.Nil(t, parsed)
}
