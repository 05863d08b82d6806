package delivery

import (
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/partscope/partscope/pkg/offer"
)

// shipmentScanDays bounds the search for a shipment day.
const shipmentScanDays = 8

// MaxHours is the largest lead time accepted from a source, ten years.
// Larger counts leave the date unresolved.
const MaxHours = 10 * 365 * 24

// Estimator evaluates strategies in a fixed business timezone. It never reads
// the wall clock: every call gets its "now" from the caller.
type Estimator struct {
	loc *time.Location
}

// NewEstimator returns an estimator for the given business location (UTC when nil).
func NewEstimator(loc *time.Location) *Estimator {
	if loc == nil {
		loc = time.UTC
	}
	return &Estimator{loc: loc}
}

func (e *Estimator) Location() *time.Location { return e.loc }

// Estimate returns the delivery day (midnight, business location) for one offer.
// ok is false when the strategy cannot resolve a date.
func (e *Estimator) Estimate(cfg Config, item Fields, now time.Time) (day time.Time, ok bool) {
	if cfg.Strategy == nil {
		return time.Time{}, false
	}
	now = now.In(e.loc)

	day, ok = e.resolve(cfg.Strategy, item, now)
	if !ok {
		return time.Time{}, false
	}
	return skipWeekdays(day, cfg.AvoidWeekdays)
}

// EstimateDate is Estimate formatted for the wire, with the sentinel for unresolved dates.
func (e *Estimator) EstimateDate(cfg Config, item Fields, now time.Time) string {
	return FormatDate(e.Estimate(cfg, item, now))
}

// FormatDate renders a resolved day as YYYY-MM-DD, or offer.SentinelDate.
func FormatDate(day time.Time, ok bool) string {
	if !ok {
		return offer.SentinelDate
	}
	return day.Format(offer.DateLayout)
}

func (e *Estimator) resolve(s Strategy, item Fields, now time.Time) (time.Time, bool) {
	switch s := s.(type) {
	case DirectFromAPI:
		return e.direct(s, item)
	case RuleBased:
		return byRules(s, now)
	case ScheduleBased:
		return bySchedule(s, item, now)
	case ShipmentScheduleBased:
		return byShipment(s, item, now)
	default:
		return time.Time{}, false
	}
}

func (e *Estimator) direct(s DirectFromAPI, item Fields) (time.Time, bool) {
	if item == nil {
		return time.Time{}, false
	}
	raw, ok := item.Text(s.Field)
	if !ok {
		return time.Time{}, false
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, ok := parseAPIDate(raw, e.loc)
	if !ok {
		return time.Time{}, false
	}
	return startOfDay(t.In(e.loc)), true
}

// parseAPIDate accepts ISO-8601 dates and timestamps only, and never
// panics, whatever a source sends.
func parseAPIDate(raw string, loc *time.Location) (t time.Time, ok bool) {
	if !hasISODate(raw) {
		return time.Time{}, false
	}
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// hasISODate reports whether s starts with YYYY-MM-DD. dateparse alone would
// also read "03/04/2025" month first and bare digits as unix seconds.
func hasISODate(s string) bool {
	if len(s) < len("2006-01-02") || (len(s) > 10 && s[10] != 'T' && s[10] != 't' && s[10] != ' ') {
		return false
	}
	for i := 0; i < 10; i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

func byRules(s RuleBased, now time.Time) (time.Time, bool) {
	for _, r := range s.Rules {
		if !r.Window.Contains(now) {
			continue
		}
		switch a := r.Action.(type) {
		case NextWeekday:
			ahead := (int(a.Weekday) - int(now.Weekday()) + 7) % 7
			if ahead == 0 {
				ahead = 7
			}
			return startOfDay(now).AddDate(0, 0, ahead), true
		case AfterDays:
			return startOfDay(now.AddDate(0, 0, a.Days)), true
		default:
			return time.Time{}, false
		}
	}
	return time.Time{}, false
}

func bySchedule(s ScheduleBased, item Fields, now time.Time) (time.Time, bool) {
	ready, ok := readinessAt(s.Readiness, item, now)
	if !ok || len(s.DeliveryWeekdays) == 0 {
		return time.Time{}, false
	}

	day := startOfDay(ready)
	for i := 0; i <= 7; i++ {
		if i == 0 && !s.AllowSameDay {
			continue
		}
		d := day.AddDate(0, 0, i)
		if hasWeekday(s.DeliveryWeekdays, d.Weekday()) {
			return d, true
		}
	}
	return time.Time{}, false
}

func byShipment(s ShipmentScheduleBased, item Fields, now time.Time) (time.Time, bool) {
	ready, ok := readinessAt(s.Readiness, item, now)
	if !ok {
		return time.Time{}, false
	}

	day := startOfDay(ready)
	for i := 0; i < shipmentScanDays; i++ {
		d := day.AddDate(0, 0, i)
		if !hasWeekday(s.ShipmentWeekdays, d.Weekday()) {
			continue
		}
		cutoff := s.ShipmentCutoff.On(d)
		if cutoff.Before(ready) {
			continue
		}
		return startOfDay(cutoff.Add(s.DeliveryDelay)), true
	}
	return time.Time{}, false
}

func readinessAt(r Readiness, item Fields, now time.Time) (time.Time, bool) {
	switch r := r.(type) {
	case FromCutoff:
		if now.Hour()*60+now.Minute() < r.Cutoff.minutes() {
			return now.Add(r.Before), true
		}
		return now.Add(r.After), true
	case PlusHoursFromResult:
		d, ok := hoursOf(item, r.Field)
		if !ok {
			return time.Time{}, false
		}
		return now.Add(d), true
	case ConditionalCutoff:
		if item != nil {
			if v, ok := item.Number(r.ConditionField); ok && v > 0 {
				return readinessAt(r.Positive, item, now)
			}
		}
		return readinessAt(r.Negative, item, now)
	default:
		return time.Time{}, false
	}
}

// hoursOf reads a non-negative hour count; missing, NaN and negative values
// count as zero. ok is false above MaxHours.
func hoursOf(item Fields, field string) (time.Duration, bool) {
	if item == nil {
		return 0, true
	}
	h, found := item.Number(field)
	if !found || math.IsNaN(h) || h <= 0 || math.IsInf(h, -1) {
		return 0, true
	}
	if h > MaxHours {
		return 0, false
	}
	return time.Duration(h * float64(time.Hour)), true
}

func skipWeekdays(day time.Time, avoid []time.Weekday) (time.Time, bool) {
	if len(avoid) == 0 {
		return day, true
	}
	if coversWholeWeek(avoid) {
		return time.Time{}, false
	}
	for hasWeekday(avoid, day.Weekday()) {
		day = day.AddDate(0, 0, 1)
	}
	return day, true
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
