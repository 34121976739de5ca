package clocktime

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTime is returned when a time-of-day string cannot be parsed.
var ErrInvalidTime = errors.New("invalid time of day")

// Layout is the canonical 24-hour time-of-day layout.
const Layout = "15:04"

// Standardize converts a time-of-day string into canonical 24-hour "HH:MM" form.
// Accepted inputs: "9:05", "09:05", "09:05:00", "09:05 AM", "9:05pm".
func Standardize(s string) (string, error) {
	h, m, err := parse(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// Minutes returns minutes since midnight for a time-of-day string in either form.
func Minutes(s string) (int, error) {
	h, m, err := parse(s)
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}

// Format12h renders a time-of-day string as "hh:MM AM" / "hh:MM PM".
func Format12h(s string) (string, error) {
	h, m, err := parse(s)
	if err != nil {
		return "", err
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h12, m, suffix), nil
}

// FromTime returns the canonical time of day of t in its own location.
func FromTime(t time.Time) string {
	return t.Format(Layout)
}

// On returns the instant at time of day s on the calendar day of day, in day's location.
func On(day time.Time, s string) (time.Time, error) {
	h, m, err := parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location()), nil
}

// FormatMinutes renders a minute count as "2h 5m".
func FormatMinutes(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%dh %dm", sign, minutes/60, minutes%60)
}

// layouts are tried in order; 12-hour forms expect an upper-cased meridiem.
var layouts = []struct {
	layout   string
	twelveHr bool
}{
	{"15:04", false},
	{"15:04:05", false},
	{"3:04 PM", true},
	{"3:04PM", true},
	{"3:04:05 PM", true},
	{"3:04:05PM", true},
}

func parse(s string) (hour, minute int, err error) {
	raw := strings.ToUpper(strings.TrimSpace(s))
	if raw == "" {
		return 0, 0, fmt.Errorf("%w: empty value", ErrInvalidTime)
	}

	for _, l := range layouts {
		t, err := time.Parse(l.layout, raw)
		if err != nil {
			continue
		}
		// time.Parse takes hour 0 on a 12-hour clock; only 12 AM means midnight
		if l.twelveHr && (strings.HasPrefix(raw, "0:") || strings.HasPrefix(raw, "00:")) {
			break
		}
		return t.Hour(), t.Minute(), nil
	}
	return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
}
