package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

func SetLogLevel(level string) {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "info":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		log.Fatal("Bad error level string")
	}
}

// ParseBusinessZone turns "+03:00", "-0500", "UTC" or an IANA name into a location.
// Offsets become fixed zones so date math never depends on DST tables.
func ParseBusinessZone(s string) (*time.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "utc") || s == "Z" {
		return time.UTC, nil
	}

	if s[0] == '+' || s[0] == '-' {
		layout := "-07:00"
		if !strings.Contains(s, ":") {
			layout = "-0700"
		}
		t, err := time.Parse(layout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone offset %q: %w", s, err)
		}
		_, offset := t.Zone()
		return time.FixedZone("UTC"+s, offset), nil
	}

	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", s, err)
	}
	return loc, nil
}
