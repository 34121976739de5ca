package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedAt(t time.Time) *time.Time {
	return &t
}

func TestReconcile_Empty(t *testing.T) {
	got := Reconcile(nil)
	assert.Equal(t, 0, got.TotalMinutes)
	assert.True(t, got.IsComplete)
	assert.Empty(t, got.Faults)
	assert.Empty(t, got.Error)
	assert.Equal(t, "0h 0m", got.Display)
}

func TestReconcile_SingleSession(t *testing.T) {
	events := []attendance.CheckEvent{{
		Time24h:           "08:05",
		Timestamp:         at(8, 5),
		CheckOutTime24h:   "17:30",
		CheckOutTimestamp: closedAt(at(17, 30)),
	}}

	got := Reconcile(events)
	assert.Equal(t, 565, got.RegularMinutes)
	assert.Equal(t, "9h 25m", got.Regular)
	assert.Equal(t, "9h 25m", got.Display)
	assert.True(t, got.IsComplete)
	assert.Equal(t, 1, got.CheckIns)
	assert.Equal(t, 1, got.CheckOuts)
}

func TestReconcile_OpenCheckInIsIncomplete(t *testing.T) {
	events := []attendance.CheckEvent{{Time24h: "09:00", Timestamp: at(9, 0)}}

	got := Reconcile(events)
	assert.False(t, got.IsComplete)
	assert.Equal(t, 0, got.TotalMinutes)
	assert.Equal(t, attendance.DisplayIncomplete, got.Display)
	assert.Empty(t, got.Faults)
}

func TestReconcile_RegularAndLate(t *testing.T) {
	events := []attendance.CheckEvent{
		{Time24h: "08:00", Timestamp: at(8, 0), CheckOutTime24h: "10:05", CheckOutTimestamp: closedAt(at(10, 5))},
		{Time24h: "13:40", Timestamp: at(13, 40), IsLate: true, Reason: "bus", CheckOutTime24h: "15:00", CheckOutTimestamp: closedAt(at(15, 0))},
	}

	got := Reconcile(events)
	assert.Equal(t, 125, got.RegularMinutes)
	assert.Equal(t, 80, got.LateMinutes)
	assert.Equal(t, 205, got.TotalMinutes)
	assert.Equal(t, "2h 5m + 1h 20m = 3h 25m", got.Display)
}

func TestReconcile_OnlyLate(t *testing.T) {
	events := []attendance.CheckEvent{
		{Time: "01:40 PM", IsLate: true, Reason: "bus", CheckOutTime: "03:00 PM"},
	}

	got := Reconcile(events)
	assert.Equal(t, 0, got.RegularMinutes)
	assert.Equal(t, 80, got.LateMinutes)
	assert.Equal(t, "1h 20m", got.Display)
}

func TestReconcile_StandaloneCheckOutsMatchedGreedily(t *testing.T) {
	events := []attendance.CheckEvent{
		{ID: "in-2", Time24h: "13:00", Timestamp: at(13, 0)},
		{ID: "out-2", IsCheckOut: true, CheckOutTime24h: "15:00", Timestamp: at(15, 0)},
		{ID: "in-1", Time24h: "08:00", Timestamp: at(8, 0)},
		{ID: "out-1", IsCheckOut: true, CheckOutTime24h: "12:00", Timestamp: at(12, 0)},
	}

	got := Reconcile(events)
	assert.Equal(t, 240+120, got.RegularMinutes)
	assert.True(t, got.IsComplete)
	assert.Equal(t, "6h 0m", got.Display)
}

func TestReconcile_CheckOutClaimedOnce(t *testing.T) {
	events := []attendance.CheckEvent{
		{Time24h: "08:00", Timestamp: at(8, 0)},
		{Time24h: "09:00", Timestamp: at(9, 0), IsLate: true, Reason: "x"},
		{IsCheckOut: true, CheckOutTime24h: "10:00", Timestamp: at(10, 0)},
	}

	got := Reconcile(events)
	assert.Equal(t, 120, got.RegularMinutes)
	assert.Equal(t, 0, got.LateMinutes)
	assert.False(t, got.IsComplete)
	assert.Equal(t, attendance.DisplayIncomplete, got.Display)
}

func TestReconcile_CheckOutBeforeCheckIn(t *testing.T) {
	events := []attendance.CheckEvent{
		{IsLate: false, Time24h: "09:00"},
		{IsCheckOut: true, CheckOutTime24h: "08:30"},
	}

	got := Reconcile(events)
	require.Len(t, got.Faults, 1)
	assert.Equal(t, attendance.FaultInvalidOrder, got.Faults[0].Kind)
	assert.Equal(t, 0, got.Faults[0].Index)
	assert.NotEmpty(t, got.Error)
	assert.Equal(t, attendance.DisplayError, got.Display)
}

func TestReconcile_EmbeddedCheckOutTimestampNotAfter(t *testing.T) {
	events := []attendance.CheckEvent{{
		Time24h:           "09:00",
		Timestamp:         at(9, 0),
		CheckOutTime24h:   "09:00",
		CheckOutTimestamp: closedAt(at(8, 59)),
	}}

	got := Reconcile(events)
	require.Len(t, got.Faults, 1)
	assert.Equal(t, attendance.FaultInvalidOrder, got.Faults[0].Kind)
	assert.Equal(t, attendance.DisplayError, got.Display)
}

func TestReconcile_MalformedTimeDegrades(t *testing.T) {
	events := []attendance.CheckEvent{
		{ID: "bad", Time24h: "25:99", CheckOutTime24h: "17:00"},
		{ID: "good", Time24h: "08:00", CheckOutTime24h: "09:00"},
	}

	got := Reconcile(events)
	require.Len(t, got.Faults, 1)
	assert.Equal(t, "bad", got.Faults[0].EventID)
	assert.Equal(t, attendance.FaultInvalidTime, got.Faults[0].Kind)
	assert.Equal(t, 60, got.RegularMinutes)
	assert.Equal(t, attendance.DisplayError, got.Display)
}

func TestReconcile_FaultWinsOverIncomplete(t *testing.T) {
	events := []attendance.CheckEvent{
		{Time24h: "09:00"},
		{IsCheckOut: true, CheckOutTime24h: "08:00"},
		{Time24h: "13:00"},
	}

	got := Reconcile(events)
	assert.False(t, got.IsComplete)
	assert.Equal(t, attendance.DisplayError, got.Display)
}

func TestReconcile_Idempotent(t *testing.T) {
	events := []attendance.CheckEvent{
		{Time24h: "13:00", Timestamp: at(13, 0), IsLate: true, Reason: "x"},
		{IsCheckOut: true, CheckOutTime24h: "15:00", Timestamp: at(15, 0)},
		{Time24h: "08:00", Timestamp: at(8, 0), CheckOutTime24h: "12:00", CheckOutTimestamp: closedAt(at(12, 0))},
	}
	snapshot := append([]attendance.CheckEvent(nil), events...)

	first := Reconcile(events)
	second := Reconcile(events)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, events)
	assert.Equal(t, "4h 0m + 2h 0m = 6h 0m", first.Display)
}
