// Package storefront turns scraped storefront result pages into raw items.
package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/partscope/partscope/pkg/sources"
)

// Field locates one value inside a result row.
type Field struct {
	Selector string
	// Attr reads an attribute instead of the element text.
	Attr string
	// Number strips currency signs and thousands separators and emits a JSON number.
	Number bool
}

// Layout describes a storefront's result table.
type Layout struct {
	Row    string
	Fields map[string]Field
}

// DefaultLayout matches the offers table used by the bundled storefront captures.
var DefaultLayout = Layout{
	Row: "table.offers tbody tr",
	Fields: map[string]Field{
		"article":       {Selector: "td.article"},
		"brand":         {Selector: "td.brand"},
		"description":   {Selector: "td.name"},
		"availability":  {Selector: "td.stock"},
		"price":         {Selector: "td.price", Number: true},
		"warehouseName": {Selector: "td.warehouse"},
		"delivery":      {Selector: "td.delivery"},
		"imageUrl":      {Selector: "img", Attr: "src"},
	},
}

// Decode extracts one raw item per result row. Rows without any field are skipped.
func Decode(body []byte, layout Layout) ([]sources.RawItem, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	items := []sources.RawItem{}
	var encodeErr error
	doc.Find(layout.Row).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		obj := extractRow(row, layout.Fields)
		if len(obj) == 0 {
			return true
		}
		raw, err := json.Marshal(obj)
		if err != nil {
			encodeErr = fmt.Errorf("encode row: %w", err)
			return false
		}
		items = append(items, sources.NewRawItem(string(raw)))
		return true
	})
	if encodeErr != nil {
		return nil, encodeErr
	}
	return items, nil
}

func extractRow(row *goquery.Selection, fields map[string]Field) map[string]any {
	obj := make(map[string]any, len(fields))
	for name, f := range fields {
		sel := row.Find(f.Selector).First()
		if sel.Length() == 0 {
			continue
		}

		var val string
		if f.Attr != "" {
			v, ok := sel.Attr(f.Attr)
			if !ok {
				continue
			}
			val = v
		} else {
			val = sel.Text()
		}
		val = strings.Join(strings.Fields(val), " ")
		if val == "" {
			continue
		}

		if f.Number {
			if n, ok := parseAmount(val); ok {
				obj[name] = n
			}
			continue
		}
		obj[name] = val
	}
	return obj
}

// parseAmount reads "1 234,50 ₽" or "$1,234.50" as a number.
func parseAmount(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	num := b.String()
	if num == "" {
		return 0, false
	}

	// A comma followed by exactly two digits at the end is a decimal comma;
	// any other comma groups thousands.
	if i := strings.LastIndex(num, ","); i >= 0 && len(num)-i == 3 && !strings.Contains(num, ".") {
		num = num[:i] + "." + num[i+1:]
	}
	num = strings.ReplaceAll(num, ",", "")

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
