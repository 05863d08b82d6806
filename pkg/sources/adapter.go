package sources

import (
	"time"

	"github.com/tidwall/gjson"

	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/offer"
)

// Logger abstracts logging so callers can use logrus or anything with the
// same printf-style methods.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// NopLogger silently discards all messages.
type NopLogger struct{}

func (NopLogger) Infof(string, ...interface{})  {}
func (NopLogger) Warnf(string, ...interface{})  {}
func (NopLogger) Errorf(string, ...interface{}) {}
func (NopLogger) Debugf(string, ...interface{}) {}

// Env is what resolvers may consult besides the item itself.
type Env struct {
	SourceID string
	Now      time.Time
	Log      Logger
}

func (e Env) log() Logger {
	if e.Log == nil {
		return NopLogger{}
	}
	return e.Log
}

// WarehouseResolver derives the display warehouse name of an item.
type WarehouseResolver func(item RawItem) string

// ProbabilityResolver derives the delivery probability (percent) of an item.
type ProbabilityResolver func(item RawItem) float64

// DeadlineResolver derives the min and max delivery hours of an item.
type DeadlineResolver func(item RawItem, env Env) (minHours, maxHours float64)

// Paths are gjson paths to the canonical fields in a source's item. Empty
// paths are not read.
type Paths struct {
	Article          string
	Brand            string
	Description      string
	Availability     string
	Price            string
	ImageURL         string
	WarehouseID      string
	InnerProductCode string
	Packing          string
	NoReturn         string
	AllowReturn      string
}

// Adapter describes one source's response shape.
type Adapter struct {
	Paths Paths
	// Extra copies source-specific values into sourceExtra, keyed by name.
	Extra map[string]string

	WarehouseName       WarehouseResolver
	DeliveryProbability ProbabilityResolver
	Deadline            DeadlineResolver
}

// Record is an item decoded by an Adapter, before derived fields are filled in.
type Record struct {
	offer.Result
	NoReturn bool
	Packing  int
}

// Decode reads one item. It never fails: missing fields stay at their zero value.
func (a Adapter) Decode(item RawItem, env Env) Record {
	p := a.Paths
	rec := Record{
		Result: offer.Result{
			SourceID:         env.SourceID,
			Article:          item.Text(p.Article),
			Brand:            item.Text(p.Brand),
			Description:      item.Text(p.Description),
			Availability:     availabilityAt(item, p.Availability),
			ImageURL:         item.Text(p.ImageURL),
			WarehouseID:      item.Text(p.WarehouseID),
			InnerProductCode: item.Text(p.InnerProductCode),
			AllowReturn:      item.Flag(p.AllowReturn),
		},
		NoReturn: item.Flag(p.NoReturn),
	}
	rec.Price, _ = item.Number(p.Price)
	if n, ok := item.Number(p.Packing); ok && n >= 1 {
		rec.Packing = int(n)
	}

	if a.WarehouseName != nil {
		rec.WarehouseName = a.WarehouseName(item)
	}
	if a.DeliveryProbability != nil {
		rec.DeliveryProbability = a.DeliveryProbability(item)
	}
	if a.Deadline != nil {
		rec.DeadlineHours, rec.DeadlineMaxHours = a.Deadline(item, env)
	}

	for name, path := range a.Extra {
		v := item.Get(path)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if rec.SourceExtra == nil {
			rec.SourceExtra = make(map[string]any, len(a.Extra))
		}
		rec.SourceExtra[name] = v.Value()
	}
	return rec
}

func availabilityAt(item RawItem, path string) offer.Availability {
	if path == "" {
		return offer.Availability{}
	}
	v := item.Get(path)
	if v.Type == gjson.Number {
		return offer.Availability{Qty: v.Num}
	}
	return offer.ParseAvailability(v.String())
}

// WarehouseFromField reads the warehouse name from path, or uses fallback.
func WarehouseFromField(path, fallback string) WarehouseResolver {
	return func(item RawItem) string {
		if s := item.Text(path); s != "" {
			return s
		}
		return fallback
	}
}

// WarehouseConst names every item's warehouse the same.
func WarehouseConst(name string) WarehouseResolver {
	return func(RawItem) string { return name }
}

// ProbabilityFromField reads a percentage from path, or uses fallback.
func ProbabilityFromField(path string, fallback float64) ProbabilityResolver {
	return func(item RawItem) float64 {
		if v, ok := item.Number(path); ok {
			return v
		}
		return fallback
	}
}

// ProbabilityConst assigns a fixed probability to every item.
func ProbabilityConst(p float64) ProbabilityResolver {
	return func(RawItem) float64 { return p }
}

// DeadlineFromFields reads min/max hours; a missing max falls back to min.
func DeadlineFromFields(minPath, maxPath string) DeadlineResolver {
	return func(item RawItem, _ Env) (float64, float64) {
		lo, _ := item.Number(minPath)
		hi, ok := item.Number(maxPath)
		if !ok || hi < lo {
			hi = lo
		}
		return lo, hi
	}
}

// DeadlineFromRule parses a free-text delivery rule at rulePath. When the
// rule is missing or unrecognised it defers to fallback.
func DeadlineFromRule(rulePath string, fallback DeadlineResolver) DeadlineResolver {
	return func(item RawItem, env Env) (float64, float64) {
		rule := item.Text(rulePath)
		if rule != "" {
			if h, ok := delivery.ParseRuleHours(rule, env.Now); ok {
				return float64(h), float64(h)
			}
			env.log().Warnf("[sources] %s: unrecognised delivery rule %q, using structured deadline", env.SourceID, rule)
		}
		if fallback == nil {
			return 0, 0
		}
		return fallback(item, env)
	}
}
