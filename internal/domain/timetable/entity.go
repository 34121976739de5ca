package timetable

import (
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/clocktime"
)

// TimeSlot is one scheduled interval on a weekday. Start and End are canonical "HH:MM".
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Type  string `json:"type"`
}

// Bounds returns the slot's start and end instants on the calendar day of day.
func (s TimeSlot) Bounds(day time.Time) (start, end time.Time, err error) {
	start, err = clocktime.On(day, s.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = clocktime.On(day, s.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Same reports whether both slots cover the same (start, end) pair, ignoring display format.
func (s TimeSlot) Same(start, end string) bool {
	a, errA := clocktime.Standardize(s.Start)
	b, errB := clocktime.Standardize(start)
	if errA != nil || errB != nil || a != b {
		return false
	}
	a, errA = clocktime.Standardize(s.End)
	b, errB = clocktime.Standardize(end)
	return errA == nil && errB == nil && a == b
}

// Week maps a weekday name ("Monday".."Sunday") to its slots.
// Slot order is not guaranteed in storage; use SlotsFor.
type Week map[string][]TimeSlot

const DefaultSlotType = "Office Hours"

var Weekdays = []string{
	time.Monday.String(),
	time.Tuesday.String(),
	time.Wednesday.String(),
	time.Thursday.String(),
	time.Friday.String(),
	time.Saturday.String(),
	time.Sunday.String(),
}

// DefaultWeek is the Monday to Friday 09:00-17:00 fallback timetable.
func DefaultWeek() Week {
	week := make(Week, 5)
	for _, day := range Weekdays[:5] {
		week[day] = []TimeSlot{{Start: "09:00", End: "17:00", Type: DefaultSlotType}}
	}
	return week
}

// NormalizeWeekday maps "monday", "MON" or "Monday" to "Monday".
func NormalizeWeekday(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) < 3 {
		return "", false
	}
	for _, day := range Weekdays {
		lower := strings.ToLower(day)
		if name == lower || name == lower[:3] {
			return day, true
		}
	}
	return "", false
}

// SlotsFor returns a copy of the weekday's slots sorted by start time.
// Slots with unparseable times sort last.
func (w Week) SlotsFor(day time.Weekday) []TimeSlot {
	return SortSlots(w[day.String()])
}

// SortSlots returns a start-ordered copy of slots.
func SortSlots(slots []TimeSlot) []TimeSlot {
	out := make([]TimeSlot, len(slots))
	copy(out, slots)
	sort.SliceStable(out, func(i, j int) bool {
		return startKey(out[i]) < startKey(out[j])
	})
	return out
}

func startKey(s TimeSlot) int {
	m, err := clocktime.Minutes(s.Start)
	if err != nil {
		return 24 * 60
	}
	return m
}

// Sorted returns a copy of the week with every day's slots ordered by start.
func (w Week) Sorted() Week {
	out := make(Week, len(w))
	for day, slots := range w {
		out[day] = SortSlots(slots)
	}
	return out
}
