package offer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SentinelDate marks an offer whose delivery date could not be resolved.
// It sorts after every real date and keeps ordering total without dropping the offer.
const SentinelDate = "2999-12-31"

// DateLayout is the wire format of Result.DeliveryDate.
const DateLayout = "2006-01-02"

// Result is one canonical, cross-source offer. JSON names are consumed by
// downstream clients and must not change.
type Result struct {
	ID                  string         `json:"id"`
	Article             string         `json:"article"`
	Brand               string         `json:"brand"`
	Description         string         `json:"description"`
	Availability        Availability   `json:"availability"`
	Price               float64        `json:"price"`
	WarehouseName       string         `json:"warehouseName"`
	ImageURL            string         `json:"imageUrl"`
	DeadlineHours       float64        `json:"deadlineHours"`
	DeadlineMaxHours    float64        `json:"deadlineMaxHours"`
	SourceID            string         `json:"sourceId"`
	DeliveryProbability float64        `json:"deliveryProbability"`
	BrandNeedsReview    bool           `json:"brandNeedsReview"`
	DeliveryDate        string         `json:"deliveryDate"`
	Returnable          bool           `json:"returnable"`
	Multiplicity        int            `json:"multiplicity"`
	AllowReturn         bool           `json:"allowReturn"`
	WarehouseID         string         `json:"warehouseId"`
	InnerProductCode    string         `json:"innerProductCode"`
	SourceExtra         map[string]any `json:"sourceExtra,omitempty"`
}

// Availability is either a stock count or a descriptive label such as "on request".
type Availability struct {
	Qty   float64
	Label string
}

// ParseAvailability interprets a raw stock value. Plain numbers become counts,
// anything else is kept verbatim as a label.
func ParseAvailability(s string) Availability {
	s = strings.TrimSpace(s)
	if s == "" {
		return Availability{}
	}
	if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil {
		return Availability{Qty: n}
	}
	return Availability{Label: s}
}

func (a Availability) IsLabel() bool { return a.Label != "" }

func (a Availability) String() string {
	if a.IsLabel() {
		return a.Label
	}
	return strconv.FormatFloat(a.Qty, 'f', -1, 64)
}

func (a Availability) MarshalJSON() ([]byte, error) {
	if a.IsLabel() {
		return json.Marshal(a.Label)
	}
	return json.Marshal(a.Qty)
}

func (a *Availability) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*a = Availability{Qty: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("availability must be a number or a string: %w", err)
	}
	*a = ParseAvailability(s)
	return nil
}

// Number exposes numeric fields by their wire name, falling back to SourceExtra.
func (r *Result) Number(name string) (float64, bool) {
	if r == nil {
		return 0, false
	}
	switch name {
	case "price":
		return r.Price, true
	case "deadlineHours":
		return r.DeadlineHours, true
	case "deadlineMaxHours":
		return r.DeadlineMaxHours, true
	case "deliveryProbability":
		return r.DeliveryProbability, true
	case "multiplicity":
		return float64(r.Multiplicity), true
	case "availability":
		if r.Availability.IsLabel() {
			return 0, false
		}
		return r.Availability.Qty, true
	}

	v, ok := r.SourceExtra[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// Text exposes string fields by their wire name, falling back to SourceExtra.
func (r *Result) Text(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	switch name {
	case "article":
		return r.Article, r.Article != ""
	case "brand":
		return r.Brand, r.Brand != ""
	case "description":
		return r.Description, r.Description != ""
	case "warehouseName":
		return r.WarehouseName, r.WarehouseName != ""
	case "warehouseId":
		return r.WarehouseID, r.WarehouseID != ""
	case "deliveryDate":
		return r.DeliveryDate, r.DeliveryDate != ""
	}

	v, ok := r.SourceExtra[name]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, s != ""
	}
	return fmt.Sprint(v), true
}

// UnknownEpoch is the delivery epoch of an offer with neither a date nor a deadline.
const UnknownEpoch int64 = 1<<63 - 1

const msPerHour = int64(time.Hour / time.Millisecond)

// DeliveryEpoch returns the start of the delivery day in Unix milliseconds.
// Without a parsable date it falls back to DeadlineMaxHours expressed in
// milliseconds, and to UnknownEpoch when that is missing or out of range.
func (r *Result) DeliveryEpoch() int64 {
	if r.DeliveryDate != "" {
		if t, err := time.Parse(DateLayout, r.DeliveryDate); err == nil {
			return t.UnixMilli()
		}
	}
	ms := r.DeadlineMaxHours * float64(msPerHour)
	if r.DeadlineMaxHours > 0 && ms < float64(UnknownEpoch) {
		return int64(ms)
	}
	return UnknownEpoch
}

// HasKnownDelivery is false for sentinel dates and offers without any timing data.
func (r *Result) HasKnownDelivery() bool {
	return r.DeliveryDate != SentinelDate && r.DeliveryEpoch() != UnknownEpoch
}
