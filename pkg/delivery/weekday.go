package delivery

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,

	"пн": time.Monday, "пон": time.Monday, "понедельник": time.Monday, "понедельника": time.Monday,
	"вт": time.Tuesday, "вторник": time.Tuesday, "вторника": time.Tuesday,
	"ср": time.Wednesday, "среда": time.Wednesday, "среду": time.Wednesday, "среды": time.Wednesday,
	"чт": time.Thursday, "четверг": time.Thursday, "четверга": time.Thursday,
	"пт": time.Friday, "пятница": time.Friday, "пятницу": time.Friday, "пятницы": time.Friday,
	"сб": time.Saturday, "суббота": time.Saturday, "субботу": time.Saturday, "субботы": time.Saturday,
	"вс": time.Sunday, "воскресенье": time.Sunday, "воскресенья": time.Sunday,
}

// ParseWeekday accepts English and Russian weekday names and abbreviations.
func ParseWeekday(s string) (time.Weekday, error) {
	if d, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// ParseWeekdays parses a list of weekday names.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func hasWeekday(set []time.Weekday, d time.Weekday) bool {
	for _, w := range set {
		if w == d {
			return true
		}
	}
	return false
}

func coversWholeWeek(set []time.Weekday) bool {
	var seen [7]bool
	n := 0
	for _, w := range set {
		if w < time.Sunday || w > time.Saturday || seen[w] {
			continue
		}
		seen[w] = true
		n++
	}
	return n == 7
}
