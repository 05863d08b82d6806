package sources

import (
	"errors"
	"testing"
	"time"
)

type recordingLogger struct {
	NopLogger
	warnings int
}

func (l *recordingLogger) Warnf(string, ...interface{}) { l.warnings++ }

func TestParseItems(t *testing.T) {
	items, err := ParseItems([]byte(`[{"a":1}, 2, {"b":"x"}]`))
	if err != nil {
		t.Fatalf("ParseItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3", len(items))
	}
	if !items[0].IsObject() || items[1].IsObject() {
		t.Fatalf("object detection is wrong")
	}

	empty, err := ParseItems([]byte(`[]`))
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("ParseItems([]) = %v, %v; want empty non-nil slice", empty, err)
	}

	for _, bad := range []string{``, `{"a":1}`, `[{"a":`, `"text"`} {
		if _, err := ParseItems([]byte(bad)); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("ParseItems(%q) error = %v, want ErrInvalidInput", bad, err)
		}
	}
}

func TestRawItemAccessors(t *testing.T) {
	item := NewRawItem(`{"p":"1 234,50","n":12,"s":" text ","f":"yes","z":0,"t":true}`)

	if v, ok := item.Number("p"); !ok || v != 1234.5 {
		t.Fatalf("Number(p) = %v, %v", v, ok)
	}
	if v, ok := item.Number("n"); !ok || v != 12 {
		t.Fatalf("Number(n) = %v, %v", v, ok)
	}
	if _, ok := item.Number("missing"); ok {
		t.Fatalf("Number(missing) should not be ok")
	}
	if item.Text("s") != "text" {
		t.Fatalf("Text(s) = %q", item.Text("s"))
	}
	if !item.Flag("f") || item.Flag("z") || !item.Flag("t") || item.Flag("") {
		t.Fatalf("Flag results are wrong")
	}
}

func TestAdapterDecode(t *testing.T) {
	item := NewRawItem(`{
		"code": "0986452041", "producer": "Bosch", "name": "Oil filter",
		"stock": ">10", "price": {"value": 512.4},
		"images": ["https://img/1.jpg"], "store": {"id": "W1", "name": "Central", "supplier": "S-9"},
		"sku": "A-1", "minOrder": 2, "flags": {"noReturn": false, "returnable": true},
		"delivery": {"date": "2025-03-14T10:00:00Z", "probability": 93, "minHours": 24, "maxHours": 48}
	}`)

	rec := Builtin()["apex"].Decode(item, Env{SourceID: "apex"})

	if rec.Article != "0986452041" || rec.Brand != "Bosch" || rec.Description != "Oil filter" {
		t.Fatalf("identity fields = %q %q %q", rec.Article, rec.Brand, rec.Description)
	}
	if rec.Availability.Label != ">10" || rec.Price != 512.4 {
		t.Fatalf("availability/price = %v %v", rec.Availability, rec.Price)
	}
	if rec.WarehouseName != "Central" || rec.WarehouseID != "W1" || rec.ImageURL != "https://img/1.jpg" {
		t.Fatalf("warehouse/image = %q %q %q", rec.WarehouseName, rec.WarehouseID, rec.ImageURL)
	}
	if rec.DeliveryProbability != 93 || rec.DeadlineHours != 24 || rec.DeadlineMaxHours != 48 {
		t.Fatalf("delivery = %v %v %v", rec.DeliveryProbability, rec.DeadlineHours, rec.DeadlineMaxHours)
	}
	if rec.Packing != 2 || rec.NoReturn || !rec.AllowReturn {
		t.Fatalf("packing/return = %v %v %v", rec.Packing, rec.NoReturn, rec.AllowReturn)
	}
	if rec.SourceExtra["apiDate"] != "2025-03-14T10:00:00Z" || rec.SourceExtra["supplier"] != "S-9" {
		t.Fatalf("sourceExtra = %v", rec.SourceExtra)
	}
	if rec.SourceID != "apex" {
		t.Fatalf("sourceId = %q", rec.SourceID)
	}
}

func TestAdapterDecodeMissingFields(t *testing.T) {
	rec := Builtin()["apex"].Decode(NewRawItem(`{}`), Env{SourceID: "apex"})
	if rec.Price != 0 || rec.Packing != 0 || rec.SourceExtra != nil {
		t.Fatalf("expected zero values, got %+v", rec)
	}
	if rec.WarehouseName != "Apex" {
		t.Fatalf("fallback warehouse = %q", rec.WarehouseName)
	}
}

func TestDeadlineFromRule(t *testing.T) {
	now := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	resolver := DeadlineFromRule("rule", DeadlineFromFields("min", "max"))

	tests := []struct {
		name     string
		raw      string
		min, max float64
		warnings int
	}{
		{"parsed rule", `{"rule":"через 3 дня","min":1,"max":2}`, 72, 72, 0},
		{"unrecognised rule", `{"rule":"звоните","min":10,"max":20}`, 10, 20, 1},
		{"no rule", `{"min":5}`, 5, 5, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log := &recordingLogger{}
			lo, hi := resolver(NewRawItem(tc.raw), Env{SourceID: "x", Now: now, Log: log})
			if lo != tc.min || hi != tc.max {
				t.Fatalf("got %v/%v, want %v/%v", lo, hi, tc.min, tc.max)
			}
			if log.warnings != tc.warnings {
				t.Fatalf("warnings = %d, want %d", log.warnings, tc.warnings)
			}
		})
	}

	lo, hi := DeadlineFromRule("rule", nil)(NewRawItem(`{"rule":"?"}`), Env{Now: now})
	if lo != 0 || hi != 0 {
		t.Fatalf("nil fallback = %v/%v", lo, hi)
	}
}

func TestResolverCombinators(t *testing.T) {
	item := NewRawItem(`{"wh":"North","prob":"77"}`)

	if got := WarehouseFromField("wh", "x")(item); got != "North" {
		t.Fatalf("WarehouseFromField = %q", got)
	}
	if got := WarehouseFromField("none", "Fallback")(item); got != "Fallback" {
		t.Fatalf("WarehouseFromField fallback = %q", got)
	}
	if got := WarehouseConst("Main")(item); got != "Main" {
		t.Fatalf("WarehouseConst = %q", got)
	}
	if got := ProbabilityFromField("prob", 0)(item); got != 77 {
		t.Fatalf("ProbabilityFromField = %v", got)
	}
	if got := ProbabilityFromField("none", 50)(item); got != 50 {
		t.Fatalf("ProbabilityFromField fallback = %v", got)
	}
	if got := ProbabilityConst(99)(item); got != 99 {
		t.Fatalf("ProbabilityConst = %v", got)
	}
}

func TestTableLookup(t *testing.T) {
	table := Builtin()
	if _, ok := table.Lookup("apex"); !ok {
		t.Fatalf("apex should be registered")
	}
	a, ok := table.Lookup("nobody")
	if ok || a.Paths.Article != "article" {
		t.Fatalf("unknown source should fall back to Generic")
	}

	names := table.Names()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("Names() not sorted: %v", names)
		}
	}

	delete(table, "apex")
	if _, ok := Builtin()["apex"]; !ok {
		t.Fatalf("Builtin must return a fresh table")
	}
}
