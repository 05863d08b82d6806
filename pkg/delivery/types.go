// Package delivery estimates concrete delivery dates for offers from
// declarative per-source strategies.
package delivery

import (
	"fmt"
	"time"
)

// Fields is the read-only view of an in-progress offer that strategies read from.
type Fields interface {
	Number(name string) (float64, bool)
	Text(name string) (string, bool)
}

// Config describes how one source's delivery dates are computed.
type Config struct {
	Strategy Strategy
	// AvoidWeekdays are days a computed date is rolled forward past.
	AvoidWeekdays []time.Weekday
}

// Registry maps source ids to their delivery configuration.
type Registry map[string]Config

// Strategy is one of DirectFromAPI, RuleBased, ScheduleBased or ShipmentScheduleBased.
type Strategy interface {
	strategy()
	Name() string
}

// DirectFromAPI reads an ISO-8601 date the source already computed.
type DirectFromAPI struct {
	Field string
}

// RuleBased picks the first rule whose placement window contains the order time.
type RuleBased struct {
	Rules []Rule
}

// ScheduleBased delivers on the first allowed weekday at or after readiness.
type ScheduleBased struct {
	DeliveryWeekdays []time.Weekday
	Readiness        Readiness
	AllowSameDay     bool
}

// ShipmentScheduleBased delivers a fixed delay after the first shipment cutoff
// the order is ready for.
type ShipmentScheduleBased struct {
	Readiness        PlusHoursFromResult
	ShipmentWeekdays []time.Weekday
	ShipmentCutoff   Clock
	DeliveryDelay    time.Duration
}

func (DirectFromAPI) strategy()         {}
func (RuleBased) strategy()             {}
func (ScheduleBased) strategy()         {}
func (ShipmentScheduleBased) strategy() {}

func (DirectFromAPI) Name() string         { return "direct" }
func (RuleBased) Name() string             { return "rules" }
func (ScheduleBased) Name() string         { return "schedule" }
func (ShipmentScheduleBased) Name() string { return "shipment" }

// Readiness computes when an order enters the source's delivery process.
// It is one of FromCutoff, PlusHoursFromResult or ConditionalCutoff.
type Readiness interface {
	readiness()
}

// FromCutoff adds Before when the order is placed before Cutoff, After otherwise.
type FromCutoff struct {
	Cutoff Clock
	Before time.Duration
	After  time.Duration
}

// PlusHoursFromResult adds the offer's own hour count, e.g. deadlineMaxHours.
type PlusHoursFromResult struct {
	Field string
}

// ConditionalCutoff uses Positive when ConditionField is > 0 and Negative otherwise.
type ConditionalCutoff struct {
	ConditionField string
	Positive       PlusHoursFromResult
	Negative       FromCutoff
}

func (FromCutoff) readiness()          {}
func (PlusHoursFromResult) readiness() {}
func (ConditionalCutoff) readiness()   {}

// Rule maps a weekly placement window to a delivery action.
type Rule struct {
	Window Window
	Action Action
}

// Window is a weekly interval; both ends are inclusive at minute resolution
// and it may wrap past Sunday.
type Window struct {
	From WeekTime
	To   WeekTime
}

// WeekTime is a time of day on a given weekday.
type WeekTime struct {
	Weekday time.Weekday
	Clock   Clock
}

// Action is one of NextWeekday or AfterDays.
type Action interface {
	action()
}

// NextWeekday delivers on the next Weekday, never on the order day itself.
type NextWeekday struct {
	Weekday time.Weekday
}

// AfterDays delivers Days calendar days after the order.
type AfterDays struct {
	Days int
}

func (NextWeekday) action() {}
func (AfterDays) action()   {}

// Clock is a time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

func (c Clock) minutes() int { return c.Hour*60 + c.Minute }

// On returns the instant at c on t's calendar day.
func (c Clock) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

func (w WeekTime) minuteOfWeek() int {
	return mondayIndex(w.Weekday)*24*60 + w.Clock.minutes()
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	m := mondayIndex(t.Weekday())*24*60 + t.Hour()*60 + t.Minute()
	from, to := w.From.minuteOfWeek(), w.To.minuteOfWeek()
	if from <= to {
		return m >= from && m <= to
	}
	return m >= from || m <= to
}

func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
