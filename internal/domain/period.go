package domain

import (
	"fmt"
	"strings"
	"time"
)

// Period is a time-of-day bucket.
type Period string

const (
	PeriodAM    Period = "AM"
	PeriodPM    Period = "PM"
	PeriodNight Period = "NIGHT"
)

// Periods lists every bucket in document order.
var Periods = []Period{PeriodAM, PeriodPM, PeriodNight}

// Bucket boundaries as seconds since midnight.
const (
	amStart = 5 * 60 * 60
	pmStart = 9 * 60 * 60
	pmEnd   = 18 * 60 * 60
)

// validityLayouts are tried in order when reading a validity timestamp.
var validityLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// PeriodOf classifies a wall-clock time. The ranges are half-open and cover the
// whole day: [05:00, 09:00) is AM, [09:00, 18:00) is PM, everything else NIGHT.
func PeriodOf(t time.Time) Period {
	secs := t.Hour()*3600 + t.Minute()*60 + t.Second()
	switch {
	case secs >= amStart && secs < pmStart:
		return PeriodAM
	case secs >= pmStart && secs < pmEnd:
		return PeriodPM
	default:
		return PeriodNight
	}
}

// ClassifyValidity parses a vendor validity timestamp and returns its period.
func ClassifyValidity(validity string) (Period, error) {
	t, err := parseValidity(validity)
	if err != nil {
		return "", err
	}
	return PeriodOf(t), nil
}

// parseValidity reads an ISO-8601 timestamp, keeping the wall clock exactly as
// written (an offset, if present, is not applied).
func parseValidity(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty validity timestamp")
	}
	for _, layout := range validityLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized validity timestamp %q", s)
}
