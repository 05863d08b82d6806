// Package registry loads per-source delivery and ranking configuration.
// Built-in entries cover the bundled adapters; a YAML file can add sources or
// replace entries.
package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/partscope/partscope/pkg/delivery"
	"github.com/partscope/partscope/pkg/ranking"
)

// ErrInvalidConfig wraps every load and validation failure.
var ErrInvalidConfig = errors.New("invalid registry")

// Registry is the process-wide, read-only source configuration.
type Registry struct {
	Delivery     delivery.Registry
	Ranking      ranking.Registry
	BrandAliases [][]string
}

// Sources lists every configured source id in sorted order.
func (r *Registry) Sources() []string {
	seen := make(map[string]bool)
	for id := range r.Delivery {
		seen[id] = true
	}
	for id := range r.Ranking {
		seen[id] = true
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Load reads a registry file on top of the built-ins. An empty path returns
// the built-ins alone.
func Load(path string) (*Registry, error) {
	reg := Builtin()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrInvalidConfig, path, err)
	}
	if err := reg.apply(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse applies YAML registry data on top of the built-ins.
func Parse(data []byte) (*Registry, error) {
	reg := Builtin()
	if err := reg.apply(data); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Registry) apply(data []byte) error {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}

	ids := make([]string, 0, len(f.Sources))
	for id := range f.Sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		spec := f.Sources[id]
		if strings.TrimSpace(id) == "" {
			return invalid("source id must not be empty")
		}
		if spec.Delivery != nil {
			setDeliveryDefaults(spec.Delivery)
			cfg, err := buildDelivery(spec.Delivery)
			if err != nil {
				return fmt.Errorf("source %s: %w", id, err)
			}
			r.Delivery[id] = cfg
		}
		if spec.Ranking != nil {
			p, err := buildPolicy(spec.Ranking)
			if err != nil {
				return fmt.Errorf("source %s: %w", id, err)
			}
			r.Ranking[id] = p
		}
	}

	for i, group := range f.BrandAliases {
		if len(group) < 2 {
			return invalid("brand alias group %d needs at least two names", i)
		}
		r.BrandAliases = append(r.BrandAliases, group)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// setDeliveryDefaults fills in per-strategy defaults
func setDeliveryDefaults(d *DeliverySpec) {
	d.Strategy = strings.ToLower(strings.TrimSpace(d.Strategy))
	if d.Strategy == "direct" && d.Field == "" {
		d.Field = "apiDate"
	}
	if d.Strategy == "shipment" && d.ReadinessField == "" {
		d.ReadinessField = "deadlineMaxHours"
	}
}

func buildDelivery(d *DeliverySpec) (delivery.Config, error) {
	avoid, err := delivery.ParseWeekdays(d.AvoidWeekdays)
	if err != nil {
		return delivery.Config{}, invalid("avoid_weekdays: %v", err)
	}
	cfg := delivery.Config{AvoidWeekdays: avoid}

	switch d.Strategy {
	case "direct":
		cfg.Strategy = delivery.DirectFromAPI{Field: d.Field}

	case "rules":
		if len(d.Rules) == 0 {
			return cfg, invalid("rules strategy needs at least one rule")
		}
		rules := make([]delivery.Rule, 0, len(d.Rules))
		for i, rs := range d.Rules {
			r, err := buildRule(rs)
			if err != nil {
				return cfg, fmt.Errorf("rule %d: %w", i, err)
			}
			rules = append(rules, r)
		}
		cfg.Strategy = delivery.RuleBased{Rules: rules}

	case "schedule":
		days, err := delivery.ParseWeekdays(d.DeliveryWeekdays)
		if err != nil {
			return cfg, invalid("delivery_weekdays: %v", err)
		}
		if len(days) == 0 {
			return cfg, invalid("schedule strategy needs delivery_weekdays")
		}
		if d.Readiness == nil {
			return cfg, invalid("schedule strategy needs a readiness block")
		}
		ready, err := buildReadiness(d.Readiness)
		if err != nil {
			return cfg, err
		}
		cfg.Strategy = delivery.ScheduleBased{DeliveryWeekdays: days, Readiness: ready, AllowSameDay: d.AllowSameDay}

	case "shipment":
		days, err := delivery.ParseWeekdays(d.ShipmentWeekdays)
		if err != nil {
			return cfg, invalid("shipment_weekdays: %v", err)
		}
		if len(days) == 0 {
			return cfg, invalid("shipment strategy needs shipment_weekdays")
		}
		cutoff, err := delivery.ParseClock(d.ShipmentCutoff)
		if err != nil {
			return cfg, invalid("shipment_cutoff: %v", err)
		}
		if d.DeliveryDelayHours < 0 {
			return cfg, invalid("delivery_delay_hours must be non-negative")
		}
		cfg.Strategy = delivery.ShipmentScheduleBased{
			Readiness:        delivery.PlusHoursFromResult{Field: d.ReadinessField},
			ShipmentWeekdays: days,
			ShipmentCutoff:   cutoff,
			DeliveryDelay:    hours(d.DeliveryDelayHours),
		}

	case "":
		return cfg, invalid("strategy is required")
	default:
		return cfg, invalid("unknown strategy %q", d.Strategy)
	}
	return cfg, nil
}

func buildRule(rs RuleSpec) (delivery.Rule, error) {
	from, err := parseWeekTime(rs.From)
	if err != nil {
		return delivery.Rule{}, err
	}
	to, err := parseWeekTime(rs.To)
	if err != nil {
		return delivery.Rule{}, err
	}
	r := delivery.Rule{Window: delivery.Window{From: from, To: to}}

	switch {
	case rs.NextWeekday != "" && rs.AfterDays != nil:
		return r, invalid("next_weekday and after_days are exclusive")
	case rs.NextWeekday != "":
		d, err := delivery.ParseWeekday(rs.NextWeekday)
		if err != nil {
			return r, invalid("next_weekday: %v", err)
		}
		r.Action = delivery.NextWeekday{Weekday: d}
	case rs.AfterDays != nil:
		if *rs.AfterDays < 0 {
			return r, invalid("after_days must be non-negative")
		}
		r.Action = delivery.AfterDays{Days: *rs.AfterDays}
	default:
		return r, invalid("rule needs next_weekday or after_days")
	}
	return r, nil
}

// parseWeekTime reads "wed 14:00"; the time defaults to 00:00.
func parseWeekTime(s string) (delivery.WeekTime, error) {
	parts := strings.Fields(s)
	if len(parts) == 0 || len(parts) > 2 {
		return delivery.WeekTime{}, invalid("window bound %q must look like \"mon 09:00\"", s)
	}
	d, err := delivery.ParseWeekday(parts[0])
	if err != nil {
		return delivery.WeekTime{}, invalid("%v", err)
	}
	wt := delivery.WeekTime{Weekday: d}
	if len(parts) == 2 {
		c, err := delivery.ParseClock(parts[1])
		if err != nil {
			return delivery.WeekTime{}, invalid("%v", err)
		}
		wt.Clock = c
	}
	return wt, nil
}

func buildReadiness(rs *ReadinessSpec) (delivery.Readiness, error) {
	var cutoff *delivery.FromCutoff
	if rs.Cutoff != "" {
		c, err := delivery.ParseClock(rs.Cutoff)
		if err != nil {
			return nil, invalid("readiness cutoff: %v", err)
		}
		if rs.BeforeHours < 0 || rs.AfterHours < 0 {
			return nil, invalid("readiness hours must be non-negative")
		}
		cutoff = &delivery.FromCutoff{Cutoff: c, Before: hours(rs.BeforeHours), After: hours(rs.AfterHours)}
	}

	switch {
	case rs.Condition != "":
		if cutoff == nil || rs.PlusHours == "" {
			return nil, invalid("conditional readiness needs cutoff and plus_hours")
		}
		return delivery.ConditionalCutoff{
			ConditionField: rs.Condition,
			Positive:       delivery.PlusHoursFromResult{Field: rs.PlusHours},
			Negative:       *cutoff,
		}, nil
	case rs.PlusHours != "" && cutoff != nil:
		return nil, invalid("readiness has both cutoff and plus_hours without a condition")
	case rs.PlusHours != "":
		return delivery.PlusHoursFromResult{Field: rs.PlusHours}, nil
	case cutoff != nil:
		return *cutoff, nil
	}
	return nil, invalid("readiness needs cutoff or plus_hours")
}

func buildPolicy(rs *RankingSpec) (ranking.Policy, error) {
	p := ranking.DefaultPolicy()
	if rs.MinProbability != nil {
		p.MinProbability = *rs.MinProbability
	}
	if rs.TopPercent != nil {
		p.TopPercent = *rs.TopPercent
	}
	if rs.MinResultsBeforeFiltering != nil {
		p.MinResultsBeforeFiltering = *rs.MinResultsBeforeFiltering
	}
	p.MaxItems = rs.MaxItems

	if p.MinProbability < 0 || p.MinProbability > 100 {
		return p, invalid("min_probability must be within 0..100")
	}
	if p.TopPercent <= 0 || p.TopPercent > 1 {
		return p, invalid("top_percent must be within (0, 1]")
	}
	if p.MaxItems < 0 {
		return p, invalid("max_items must be non-negative")
	}
	if p.MinResultsBeforeFiltering < 0 {
		return p, invalid("min_results_before_filtering must be non-negative")
	}
	return p, nil
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
