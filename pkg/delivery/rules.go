package delivery

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Units that follow a number in "N days" / "N hours" rules.
var (
	dayWords  = []string{"дн", "день", "дня", "дней", "сут", "суток", "сутки", "day", "days", "d"}
	hourWords = []string{"ч", "час", "часа", "часов", "h", "hr", "hrs", "hour", "hours"}
)

// ParseRuleHours converts a free-text delivery rule into hours from now.
// Recognised forms, in priority order:
//
//	"пт 14:00 - пн 10:00"   weekly cutoff/delivery pairs
//	"через 3 дня"           N days
//	"48 часов"              N hours
//	"до 14:00"              daily cutoff on business days
//
// ok is false when nothing is recognised or the count exceeds MaxHours.
func ParseRuleHours(rule string, now time.Time) (hours int, ok bool) {
	toks := tokenize(strings.ToLower(rule))
	if len(toks) == 0 {
		return 0, false
	}

	if pairs := weeklyPairs(toks); len(pairs) > 0 {
		var best time.Time
		for _, p := range pairs {
			if d := p.nextDelivery(now); best.IsZero() || d.Before(best) {
				best = d
			}
		}
		return ceilHours(best.Sub(now)), true
	}
	if n, found := numberBefore(toks, dayWords); found {
		if n > MaxHours/24 {
			return 0, false
		}
		return n * 24, true
	}
	if n, found := numberBefore(toks, hourWords); found {
		if n > MaxHours {
			return 0, false
		}
		return n, true
	}
	for _, t := range toks {
		if t.kind == clockToken {
			return ceilHours(nextBusinessCutoff(t.clock, now).Sub(now)), true
		}
	}
	return 0, false
}

type tokenKind int

const (
	wordToken tokenKind = iota
	numberToken
	clockToken
)

type token struct {
	kind  tokenKind
	text  string
	num   int
	clock Clock
}

// tokenize splits a rule into words, integers and HH:MM times; everything else separates.
func tokenize(s string) []token {
	rs := []rune(s)
	var toks []token

	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsLetter(r):
			j := i
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			toks = append(toks, token{kind: wordToken, text: string(rs[i:j])})
			i = j
		case unicode.IsDigit(r):
			j := i
			for j < len(rs) && unicode.IsDigit(rs[j]) {
				j++
			}
			if j+2 < len(rs) && rs[j] == ':' && unicode.IsDigit(rs[j+1]) && unicode.IsDigit(rs[j+2]) {
				h, errH := strconv.Atoi(string(rs[i:j]))
				m, errM := strconv.Atoi(string(rs[j+1 : j+3]))
				if errH == nil && errM == nil && h < 24 && m < 60 {
					toks = append(toks, token{kind: clockToken, text: string(rs[i : j+3]), clock: Clock{Hour: h, Minute: m}})
					i = j + 3
					continue
				}
			}
			if n, err := strconv.Atoi(string(rs[i:j])); err == nil {
				toks = append(toks, token{kind: numberToken, text: string(rs[i:j]), num: n})
			}
			i = j
		default:
			i++
		}
	}
	return toks
}

func (t token) weekday() (time.Weekday, bool) {
	if t.kind != wordToken {
		return 0, false
	}
	d, ok := weekdayNames[t.text]
	return d, ok
}

type weeklyPair struct {
	cutoffDay   time.Weekday
	cutoff      Clock
	deliveryDay time.Weekday
	deliveryAt  Clock
}

// weeklyPairs finds "weekday time ... weekday [time]" sequences.
func weeklyPairs(toks []token) []weeklyPair {
	var pairs []weeklyPair
	for i := 0; i < len(toks); i++ {
		from, ok := toks[i].weekday()
		if !ok {
			continue
		}

		j := -1
		for k := i + 1; k < len(toks); k++ {
			if _, isDay := toks[k].weekday(); isDay {
				break
			}
			if toks[k].kind == clockToken {
				j = k
				break
			}
		}
		if j < 0 {
			continue
		}

		k := -1
		var to time.Weekday
		for n := j + 1; n < len(toks); n++ {
			if d, isDay := toks[n].weekday(); isDay {
				k, to = n, d
				break
			}
		}
		if k < 0 {
			break
		}

		p := weeklyPair{cutoffDay: from, cutoff: toks[j].clock, deliveryDay: to}
		next := k
		if k+1 < len(toks) && toks[k+1].kind == clockToken {
			p.deliveryAt = toks[k+1].clock
			next = k + 1
		}
		pairs = append(pairs, p)
		i = next
	}
	return pairs
}

// nextDelivery is the delivery instant for the first cutoff at or after now.
func (p weeklyPair) nextDelivery(now time.Time) time.Time {
	ahead := (int(p.cutoffDay) - int(now.Weekday()) + 7) % 7
	cutoff := p.cutoff.On(startOfDay(now).AddDate(0, 0, ahead))
	if cutoff.Before(now) {
		cutoff = cutoff.AddDate(0, 0, 7)
	}

	ahead = (int(p.deliveryDay) - int(cutoff.Weekday()) + 7) % 7
	delivery := p.deliveryAt.On(startOfDay(cutoff).AddDate(0, 0, ahead))
	if !delivery.After(cutoff) {
		delivery = delivery.AddDate(0, 0, 7)
	}
	return delivery
}

func numberBefore(toks []token, units []string) (int, bool) {
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].kind != numberToken || toks[i+1].kind != wordToken {
			continue
		}
		for _, u := range units {
			if toks[i+1].text == u {
				return toks[i].num, true
			}
		}
	}
	return 0, false
}

func nextBusinessCutoff(c Clock, now time.Time) time.Time {
	at := c.On(now)
	for !at.After(now) || at.Weekday() == time.Saturday || at.Weekday() == time.Sunday {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

func ceilHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours()))
}
