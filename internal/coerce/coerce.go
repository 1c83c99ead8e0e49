// Package coerce provides total value-level converters for untrusted
// invoice data. Every function accepts any input and returns a definite
// typed value; none of them can fail. Invoice payloads most often come
// from AI extraction or half-filled forms, so a missing or malformed
// field is the normal case and resolves to a safe default instead of an
// error.
package coerce

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/inkwell-apps/invoicer/internal/models"
)

// ToNumber converts v to a float64. Numeric strings are parsed with
// leading-prefix semantics (like parseFloat: "12.5 EUR" -> 12.5).
// Anything unparseable, nil, empty or non-finite resolves to 0.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		return parseLeadingFloat(n)
	default:
		return 0
	}
}

// ToInt converts v to an int via ToNumber, with def substituted when the
// value is absent or coerces to zero.
func ToInt(v any, def int) int {
	n := int(ToNumber(v))
	if n == 0 {
		return def
	}
	return n
}

// ToString converts v to its string representation; nil becomes "".
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// dateLayouts are tried in order when parsing date strings. RFC3339
// covers values that round-tripped through JSON; the rest cover what
// extractors and spreadsheets typically emit.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ToDate converts v to a *time.Time. Unparseable or empty input returns
// nil rather than an error so callers can render an empty date instead
// of failing.
func ToDate(v any) *time.Time {
	switch d := v.(type) {
	case nil:
		return nil
	case time.Time:
		if d.IsZero() {
			return nil
		}
		t := d
		return &t
	case *time.Time:
		if d == nil || d.IsZero() {
			return nil
		}
		t := *d
		return &t
	case float64:
		return fromUnix(int64(d))
	case int64:
		return fromUnix(d)
	case int:
		return fromUnix(int64(d))
	case json.Number:
		n, err := d.Int64()
		if err != nil {
			return nil
		}
		return fromUnix(n)
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return &t
			}
		}
		return nil
	default:
		return nil
	}
}

// ToAmountSpec resolves the historical discount/tax shapes to a single
// canonical AmountSpec:
//   - nil -> zero amount with defaultType
//   - bare number -> percentage (the legacy discount-as-number convention)
//   - map -> merged over defaults, amount coerced with ToNumber
func ToAmountSpec(v any, defaultType string) models.AmountSpec {
	switch spec := v.(type) {
	case nil:
		return models.AmountSpec{Amount: 0, AmountType: defaultType}
	case map[string]any:
		out := models.AmountSpec{Amount: 0, AmountType: defaultType}
		if raw, ok := spec["amount"]; ok {
			out.Amount = ToNumber(raw)
		}
		if at := ToString(spec["amountType"]); at != "" {
			out.AmountType = at
		}
		if out.Amount < 0 {
			out.Amount = 0
		}
		return out
	case models.AmountSpec:
		if spec.AmountType == "" {
			spec.AmountType = defaultType
		}
		if spec.Amount < 0 {
			spec.Amount = 0
		}
		return spec
	default:
		n := ToNumber(v)
		if n < 0 {
			n = 0
		}
		return models.AmountSpec{Amount: n, AmountType: models.AmountTypePercentage}
	}
}

// AsMap returns v as a map when it is one, otherwise an empty map. The
// result is safe to index but must not be mutated by callers that did
// not create the source value.
func AsMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

// AsSlice returns v as a []any when it is one, otherwise nil.
func AsSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

// parseLeadingFloat mimics JavaScript's parseFloat: it consumes the
// longest numeric prefix and ignores the rest.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return finite(f)
	}
	end := 0
	seenDigit := false
	seenDot := false
scan:
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
			end = i + 1
		case r == '.' && !seenDot:
			seenDot = true
			end = i + 1
		case (r == '+' || r == '-') && i == 0:
			end = i + 1
		default:
			break scan
		}
	}
	if !seenDigit {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// fromUnix interprets n as unix seconds or milliseconds depending on
// magnitude. Small numbers are not meaningful dates and return nil.
func fromUnix(n int64) *time.Time {
	if n <= 0 {
		return nil
	}
	var t time.Time
	if n > 1e12 {
		t = time.UnixMilli(n).UTC()
	} else if n > 1e8 {
		t = time.Unix(n, 0).UTC()
	} else {
		return nil
	}
	return &t
}
