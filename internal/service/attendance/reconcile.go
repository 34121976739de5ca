package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/clocktime"
)

type indexedEvent struct {
	index int
	event attendance.CheckEvent
}

// Reconcile pairs a day's check-ins with check-outs and totals the working time.
// It does no I/O and never mutates events.
//
// A check-out attached to a check-in always belongs to that check-in. Standalone
// check-out entries are matched greedily: each check-in, in timestamp order,
// claims the earliest unclaimed check-out strictly after it.
func Reconcile(events []attendance.CheckEvent) attendance.WorkSummary {
	var regular, late, checkOuts []indexedEvent
	embedded := 0
	for i, e := range events {
		entry := indexedEvent{index: i, event: e}
		switch {
		case e.IsCheckOut:
			checkOuts = append(checkOuts, entry)
		case e.IsLate:
			late = append(late, entry)
		default:
			regular = append(regular, entry)
		}
		if !e.IsCheckOut && e.HasCheckOut() {
			embedded++
		}
	}

	sortByTime(regular, checkInInstant)
	sortByTime(late, checkInInstant)
	sortByTime(checkOuts, checkOutInstant)

	var summary attendance.WorkSummary
	summary.CheckIns = len(regular) + len(late)
	summary.CheckOuts = len(checkOuts) + embedded

	claimed := make([]bool, len(checkOuts))
	summary.RegularMinutes = pairGroup(regular, checkOuts, claimed, &summary.Faults)
	summary.LateMinutes = pairGroup(late, checkOuts, claimed, &summary.Faults)
	summary.TotalMinutes = summary.RegularMinutes + summary.LateMinutes

	summary.Regular = clocktime.FormatMinutes(summary.RegularMinutes)
	summary.Late = clocktime.FormatMinutes(summary.LateMinutes)
	summary.Total = clocktime.FormatMinutes(summary.TotalMinutes)
	summary.IsComplete = summary.CheckIns == summary.CheckOuts

	if len(summary.Faults) > 0 {
		msgs := make([]string, 0, len(summary.Faults))
		for _, f := range summary.Faults {
			msgs = append(msgs, f.Message)
		}
		summary.Error = strings.Join(msgs, "; ")
	}
	summary.Display = display(summary)
	return summary
}

func display(s attendance.WorkSummary) string {
	switch {
	case s.HasFaults():
		return attendance.DisplayError
	case !s.IsComplete:
		return attendance.DisplayIncomplete
	case s.RegularMinutes != 0 && s.LateMinutes != 0:
		return fmt.Sprintf("%s + %s = %s", s.Regular, s.Late, s.Total)
	case s.LateMinutes != 0:
		return s.Late
	default:
		return s.Regular
	}
}

func pairGroup(checkIns, checkOuts []indexedEvent, claimed []bool, faults *[]attendance.PairingFault) int {
	total := 0
	for _, in := range checkIns {
		var outTime string
		switch {
		case in.event.HasCheckOut():
			if ts := in.event.CheckOutTimestamp; ts != nil && !in.event.Timestamp.IsZero() && !ts.After(in.event.Timestamp) {
				*faults = append(*faults, fault(in, attendance.FaultInvalidOrder,
					fmt.Sprintf("check-out at %s is not after check-in at %s", ts.Format(time.RFC3339), in.event.Timestamp.Format(time.RFC3339))))
				continue
			}
			outTime = firstNonEmpty(in.event.CheckOutTime24h, in.event.CheckOutTime)
		default:
			j := matchCheckOut(in, checkOuts, claimed)
			if j < 0 {
				continue
			}
			claimed[j] = true
			out := checkOuts[j].event
			outTime = firstNonEmpty(out.CheckOutTime24h, out.CheckOutTime, out.Time24h, out.Time)
		}

		minutes, f := elapsed(in, outTime)
		if f != nil {
			*faults = append(*faults, *f)
			continue
		}
		total += minutes
	}
	return total
}

// matchCheckOut returns the earliest unclaimed check-out after in, or -1.
func matchCheckOut(in indexedEvent, checkOuts []indexedEvent, claimed []bool) int {
	inAt := checkInInstant(in.event)
	for j, out := range checkOuts {
		if claimed[j] {
			continue
		}
		outAt := checkOutInstant(out.event)
		if !inAt.IsZero() && !outAt.IsZero() {
			if outAt.After(inAt) {
				return j
			}
			continue
		}
		if out.index > in.index {
			return j
		}
	}
	return -1
}

func elapsed(in indexedEvent, outTime string) (int, *attendance.PairingFault) {
	inTime := firstNonEmpty(in.event.Time24h, in.event.Time)
	inMinutes, err := clocktime.Minutes(inTime)
	if err != nil {
		f := fault(in, attendance.FaultInvalidTime, fmt.Sprintf("invalid check-in time %q", inTime))
		return 0, &f
	}
	outMinutes, err := clocktime.Minutes(outTime)
	if err != nil {
		f := fault(in, attendance.FaultInvalidTime, fmt.Sprintf("invalid check-out time %q", outTime))
		return 0, &f
	}
	if outMinutes < inMinutes {
		f := fault(in, attendance.FaultInvalidOrder, fmt.Sprintf("check-out %s is before check-in %s", outTime, inTime))
		return 0, &f
	}
	return outMinutes - inMinutes, nil
}

func fault(in indexedEvent, kind attendance.FaultKind, msg string) attendance.PairingFault {
	return attendance.PairingFault{EventID: in.event.ID, Index: in.index, Kind: kind, Message: msg}
}

func checkInInstant(e attendance.CheckEvent) time.Time {
	return e.Timestamp
}

func checkOutInstant(e attendance.CheckEvent) time.Time {
	if e.CheckOutTimestamp != nil {
		return *e.CheckOutTimestamp
	}
	return e.Timestamp
}

// sortByTime orders by instant when both sides have one, else by position.
func sortByTime(entries []indexedEvent, at func(attendance.CheckEvent) time.Time) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := at(entries[i].event), at(entries[j].event)
		if !a.IsZero() && !b.IsZero() && !a.Equal(b) {
			return a.Before(b)
		}
		return entries[i].index < entries[j].index
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
