package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/timetable"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/clocktime"
)

// EvaluateWindow classifies now against the slot's start on now's calendar day.
func EvaluateWindow(slot timetable.TimeSlot, now time.Time, cfg attendance.WindowConfig) (attendance.WindowResult, error) {
	start, err := clocktime.On(now, slot.Start)
	if err != nil {
		return attendance.WindowResult{}, fmt.Errorf("slot start: %w", err)
	}
	return evaluateAt(start, now, cfg), nil
}

func evaluateAt(start, now time.Time, cfg attendance.WindowConfig) attendance.WindowResult {
	opens := start.Add(-cfg.Early)
	graceEnd := start.Add(cfg.Grace)
	lateEnd := start.Add(cfg.Late)

	switch {
	case now.Before(opens):
		return attendance.WindowResult{
			State:    attendance.StateTooEarly,
			Message:  fmt.Sprintf("Too early to check in. Check-in opens at %s.", clocktime.FromTime(opens)),
			Boundary: opens,
		}
	case !now.After(start):
		return attendance.WindowResult{
			State:    attendance.StateEarlyOrOnTime,
			IsValid:  true,
			Message:  fmt.Sprintf("On time. The slot starts at %s.", clocktime.FromTime(start)),
			Boundary: start,
		}
	case !now.After(graceEnd):
		return attendance.WindowResult{
			State:    attendance.StateSlightlyLate,
			IsValid:  true,
			Message:  fmt.Sprintf("Within the grace period, which ends at %s.", clocktime.FromTime(graceEnd)),
			Boundary: graceEnd,
		}
	case !now.After(lateEnd):
		return attendance.WindowResult{
			State:               attendance.StateLateRequired,
			RequiresLateCheckIn: true,
			Message:             fmt.Sprintf("The grace period has passed. Submit a late check-in with a reason before %s.", clocktime.FromTime(lateEnd)),
			Boundary:            lateEnd,
		}
	default:
		return attendance.WindowResult{
			State:    attendance.StateTooLate,
			Message:  fmt.Sprintf("Too late to check in. The late window closed at %s.", clocktime.FromTime(lateEnd)),
			Boundary: lateEnd,
		}
	}
}

// inLateWindow reports whether now is in (start, start+Late], where a late check-in is accepted.
func inLateWindow(result attendance.WindowResult) bool {
	return result.State == attendance.StateSlightlyLate || result.State == attendance.StateLateRequired
}

// NextAvailableSlot returns the earliest slot that has not ended and has no open check-in bound to it.
func NextAvailableSlot(slots []timetable.TimeSlot, now time.Time, events []attendance.CheckEvent) (timetable.TimeSlot, bool) {
	for _, slot := range timetable.SortSlots(slots) {
		_, end, err := slot.Bounds(now)
		if err != nil || !end.After(now) {
			continue
		}
		if slotClaimed(slot, events) {
			continue
		}
		return slot, true
	}
	return timetable.TimeSlot{}, false
}

func slotClaimed(slot timetable.TimeSlot, events []attendance.CheckEvent) bool {
	for _, e := range events {
		if !e.IsOpen() {
			continue
		}
		if start, end, ok := e.BoundTo(); ok && slot.Same(start, end) {
			return true
		}
	}
	return false
}

// LastElapsedSlot returns the latest-ending slot that has already ended and has no open check-in bound to it.
func LastElapsedSlot(slots []timetable.TimeSlot, now time.Time, events []attendance.CheckEvent) (timetable.TimeSlot, bool) {
	var (
		last    timetable.TimeSlot
		lastEnd time.Time
		found   bool
	)
	for _, slot := range slots {
		_, end, err := slot.Bounds(now)
		if err != nil || end.After(now) || slotClaimed(slot, events) {
			continue
		}
		if !found || end.After(lastEnd) {
			last, lastEnd, found = slot, end, true
		}
	}
	return last, found
}

func hasRemainingSlots(slots []timetable.TimeSlot, now time.Time) bool {
	for _, slot := range slots {
		if _, end, err := slot.Bounds(now); err == nil && end.After(now) {
			return true
		}
	}
	return false
}

func hasOpenDefaultCheckIn(events []attendance.CheckEvent) bool {
	for _, e := range events {
		if e.IsDefaultCheckIn && e.IsOpen() {
			return true
		}
	}
	return false
}

// latestOpenIndex finds the most recent open check-in by timestamp, falling back to
// position when either side has no timestamp. Returns -1 when nothing is open.
func latestOpenIndex(events []attendance.CheckEvent) int {
	best := -1
	for i, e := range events {
		if !e.IsOpen() {
			continue
		}
		if best == -1 || later(e, i, events[best], best) {
			best = i
		}
	}
	return best
}

func later(a attendance.CheckEvent, ai int, b attendance.CheckEvent, bi int) bool {
	if !a.Timestamp.IsZero() && !b.Timestamp.IsZero() && !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return ai > bi
}

// latestLateCheckIn returns the timestamp of the most recent late check-in, or zero.
func latestLateCheckIn(events []attendance.CheckEvent) time.Time {
	var latest time.Time
	for _, e := range events {
		if e.IsLate && !e.IsCheckOut && e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
	}
	return latest
}

// checkLateRetry enforces the minimum spacing between late check-ins on one day.
func checkLateRetry(events []attendance.CheckEvent, now time.Time, interval time.Duration) error {
	last := latestLateCheckIn(events)
	if last.IsZero() {
		return nil
	}
	next := last.Add(interval)
	if now.Before(next) {
		return &attendance.RetryError{Wait: next.Sub(now), NextAllowed: next}
	}
	return nil
}
