// Package sources decodes raw supplier payloads into canonical offers.
//
// Every supplier answers in its own JSON shape. A source is described by an
// Adapter (field paths plus a few resolvers), so adding one is a single entry
// in the adapter table.
package sources

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidInput is returned when a payload is not a JSON array of items.
var ErrInvalidInput = errors.New("invalid input")

// RawItem is one supplier record as received. It is opaque outside this
// package and the normalizer.
type RawItem struct {
	res gjson.Result
}

// NewRawItem wraps a raw JSON document.
func NewRawItem(raw string) RawItem {
	return RawItem{res: gjson.Parse(raw)}
}

// IsObject reports whether the item is a JSON object.
func (r RawItem) IsObject() bool { return r.res.IsObject() }

// Raw returns the item's JSON text.
func (r RawItem) Raw() string { return r.res.Raw }

// Get returns the value at a gjson path.
func (r RawItem) Get(path string) gjson.Result { return r.res.Get(path) }

// ParseItems splits a JSON array payload into raw items. Elements are kept
// as-is; non-object elements are left for the caller to skip.
func ParseItems(data []byte) ([]RawItem, error) {
	if len(strings.TrimSpace(string(data))) == 0 || !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("payload is not valid JSON: %w", ErrInvalidInput)
	}
	res := gjson.ParseBytes(data)
	if !res.IsArray() {
		return nil, fmt.Errorf("payload is not a JSON array: %w", ErrInvalidInput)
	}

	arr := res.Array()
	items := make([]RawItem, 0, len(arr))
	for _, r := range arr {
		items = append(items, RawItem{res: r})
	}
	return items, nil
}

// Text returns the value at path as a trimmed string.
func (r RawItem) Text(path string) string {
	if path == "" {
		return ""
	}
	return strings.TrimSpace(r.Get(path).String())
}

// Number returns the value at path as a number. Numeric strings are accepted,
// including a decimal comma.
func (r RawItem) Number(path string) (float64, bool) {
	if path == "" {
		return 0, false
	}
	v := r.Get(path)
	switch v.Type {
	case gjson.Number:
		return v.Num, true
	case gjson.String:
		s := strings.ReplaceAll(strings.TrimSpace(v.Str), ",", ".")
		s = strings.ReplaceAll(s, " ", "")
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case gjson.True:
		return 1, true
	case gjson.False:
		return 0, true
	}
	return 0, false
}

// Flag returns the value at path as a boolean; "1", "true", "yes" and
// non-zero numbers are true.
func (r RawItem) Flag(path string) bool {
	if path == "" {
		return false
	}
	v := r.Get(path)
	if v.Type == gjson.String {
		switch strings.ToLower(strings.TrimSpace(v.Str)) {
		case "1", "true", "yes", "y", "да":
			return true
		}
		return false
	}
	return v.Bool()
}
