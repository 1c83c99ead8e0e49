package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/inkwell-apps/invoicer/internal/models"
)

// renderCSV writes the invoice as a single flattened row: one column per
// leaf field, nested paths joined with dots (details.items.0.name).
func (e *Exporter) renderCSV(invoice *models.Invoice) ([]byte, error) {
	flat, err := flattenInvoice(invoice)
	if err != nil {
		return nil, err
	}

	headers := make([]string, 0, len(flat))
	for key := range flat {
		headers = append(headers, key)
	}
	sort.Strings(headers)

	values := make([]string, len(headers))
	for i, key := range headers {
		values[i] = flat[key]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := w.Write(values); err != nil {
		return nil, fmt.Errorf("failed to write CSV row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func flattenInvoice(invoice *models.Invoice) (map[string]string, error) {
	data, err := json.Marshal(invoice)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize invoice: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode invoice: %w", err)
	}

	flat := make(map[string]string)
	flattenValue("", doc, flat)
	return flat, nil
}

func flattenValue(prefix string, v any, out map[string]string) {
	switch val := v.(type) {
	case map[string]any:
		for key, child := range val {
			flattenValue(joinPath(prefix, key), child, out)
		}
	case []any:
		for i, child := range val {
			flattenValue(joinPath(prefix, strconv.Itoa(i)), child, out)
		}
	case nil:
		out[prefix] = ""
	case string:
		out[prefix] = val
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(val)
	default:
		out[prefix] = fmt.Sprintf("%v", val)
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
