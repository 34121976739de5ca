package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/timetable"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/clocktime"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/sse"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// SSE event names
const (
	EventCheckIn             = "check_in"
	EventLateCheckIn         = "late_check_in"
	EventCheckOut            = "check_out"
	EventLateCheckInReviewed = "late_check_in_reviewed"
)

type AttendanceServiceImpl struct {
	attendance.DayRecordRepository
	timetableService timetable.TimetableService
	hub              *sse.Hub
	window           attendance.WindowConfig
	loc              *time.Location
	now              func() time.Time
}

// NewAttendanceService wires the service. A nil hub disables realtime events;
// a nil now uses time.Now; a nil loc uses time.Local.
func NewAttendanceService(
	dayRepo attendance.DayRecordRepository,
	timetableService timetable.TimetableService,
	hub *sse.Hub,
	window attendance.WindowConfig,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceServiceImpl{
		DayRecordRepository: dayRepo,
		timetableService:    timetableService,
		hub:                 hub,
		window:              window,
		loc:                 loc,
		now:                 now,
	}
}

// snapshot is the single "now" an operation uses for both its date key and times.
func (s *AttendanceServiceImpl) snapshot() time.Time {
	return s.now().In(s.loc)
}

type checkInPlan struct {
	slot     timetable.TimeSlot
	window   attendance.WindowResult
	fallback bool
}

func (s *AttendanceServiceImpl) planCheckIn(slots []timetable.TimeSlot, now time.Time, events []attendance.CheckEvent) (checkInPlan, error) {
	if len(slots) == 0 {
		if hasOpenDefaultCheckIn(events) {
			return checkInPlan{}, attendance.ErrSlotAlreadyClaimed
		}
		return checkInPlan{fallback: true}, nil
	}

	slot, ok := NextAvailableSlot(slots, now, events)
	if !ok {
		// Every remaining slot already has an open check-in.
		if hasRemainingSlots(slots, now) {
			return checkInPlan{}, attendance.ErrSlotAlreadyClaimed
		}
		// The day is over; judge the arrival against the last slot that ended.
		if slot, ok = LastElapsedSlot(slots, now, events); !ok {
			return checkInPlan{}, attendance.ErrSlotAlreadyClaimed
		}
	}

	result, err := EvaluateWindow(slot, now, s.window)
	if err != nil {
		return checkInPlan{}, err
	}
	return checkInPlan{slot: slot, window: result}, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckInResponse{}, err
	}
	reason := strings.TrimSpace(req.Reason)
	if req.IsLate && reason == "" {
		return attendance.CheckInResponse{}, attendance.ErrMissingLateReason
	}

	now := s.snapshot()
	date := now.Format(dateLayout)

	week, created, err := s.timetableService.EnsureTimetable(ctx, req.UserID)
	if err != nil {
		return attendance.CheckInResponse{}, backendError("load timetable", err)
	}

	events, err := s.DayRecordRepository.GetDay(ctx, req.UserID, date)
	if err != nil {
		return attendance.CheckInResponse{}, backendError("load day record", err)
	}

	var slots []timetable.TimeSlot
	if !created {
		slots = week.SlotsFor(now.Weekday())
	}

	plan, err := s.planCheckIn(slots, now, events)
	if err != nil {
		slog.Warn("check-in rejected", "user_id", req.UserID, "date", date, "error", err)
		return attendance.CheckInResponse{}, err
	}

	event := attendance.CheckEvent{
		ID:        newEventID(),
		Time:      display12h(now),
		Time24h:   clocktime.FromTime(now),
		IsLate:    req.IsLate,
		Reason:    reason,
		Timestamp: now.UTC(),
	}
	resp := attendance.CheckInResponse{Date: date, IsDefault: created}

	if plan.fallback {
		event.IsDefaultCheckIn = true
	} else {
		if err := s.checkSlotWindow(req, plan, events, now); err != nil {
			slog.Warn("check-in rejected", "user_id", req.UserID, "date", date, "slot", plan.slot.Start+"-"+plan.slot.End, "error", err)
			return attendance.CheckInResponse{}, err
		}
		event.SlotStart = plan.slot.Start
		event.SlotEnd = plan.slot.End
		event.SlotType = plan.slot.Type
		slot, window := plan.slot, plan.window
		resp.Slot = &slot
		resp.Window = &window
	}

	events = append(events, event)
	if err := s.DayRecordRepository.SaveDay(ctx, req.UserID, date, events); err != nil {
		slog.Error("failed to save check-in", "user_id", req.UserID, "date", date, "error", err)
		return attendance.CheckInResponse{}, backendError("save day record", err)
	}

	name := EventCheckIn
	if event.IsLate {
		name = EventLateCheckIn
	}
	s.publish(req.UserID, name, date, event)

	slog.Info("check-in recorded",
		"user_id", req.UserID,
		"date", date,
		"time", event.Time24h,
		"late", event.IsLate,
		"default", event.IsDefaultCheckIn,
	)

	resp.Event = event
	return resp, nil
}

func (s *AttendanceServiceImpl) checkSlotWindow(req attendance.CheckInRequest, plan checkInPlan, events []attendance.CheckEvent, now time.Time) error {
	if !req.IsLate {
		if !plan.window.IsValid {
			return attendance.NewWindowError(plan.window, "")
		}
		return nil
	}

	if err := checkLateRetry(events, now, s.window.LateRetryInterval); err != nil {
		return err
	}
	if !inLateWindow(plan.window) {
		msg := plan.window.Message
		if plan.window.State == attendance.StateEarlyOrOnTime {
			msg = "You are not late for this slot. Check in without the late flag."
		}
		return attendance.NewWindowError(plan.window, msg)
	}
	return nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckOutResponse{}, err
	}

	now := s.snapshot()
	date := now.Format(dateLayout)

	events, err := s.DayRecordRepository.GetDay(ctx, req.UserID, date)
	if err != nil {
		return attendance.CheckOutResponse{}, backendError("load day record", err)
	}

	idx := latestOpenIndex(events)
	if idx < 0 {
		slog.Warn("check-out rejected", "user_id", req.UserID, "date", date, "error", attendance.ErrNoActiveSession)
		return attendance.CheckOutResponse{}, attendance.ErrNoActiveSession
	}

	nowUTC := now.UTC()
	event := &events[idx]
	if !event.Timestamp.IsZero() && !nowUTC.After(event.Timestamp) {
		return attendance.CheckOutResponse{}, attendance.ErrCheckOutBeforeStart
	}

	event.CheckOutTime = display12h(now)
	event.CheckOutTime24h = clocktime.FromTime(now)
	event.CheckOutTimestamp = &nowUTC

	if err := s.DayRecordRepository.SaveDay(ctx, req.UserID, date, events); err != nil {
		slog.Error("failed to save check-out", "user_id", req.UserID, "date", date, "error", err)
		return attendance.CheckOutResponse{}, backendError("save day record", err)
	}

	s.publish(req.UserID, EventCheckOut, date, *event)
	summary := Reconcile(events)

	slog.Info("check-out recorded", "user_id", req.UserID, "date", date, "time", event.CheckOutTime24h, "worked", summary.Display)

	return attendance.CheckOutResponse{Date: date, Event: *event, Summary: summary}, nil
}

// GetCheckInStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetCheckInStatus(ctx context.Context, userID string) (attendance.CheckInStatusResponse, error) {
	now := s.snapshot()
	date := now.Format(dateLayout)

	tt, err := s.timetableService.GetTimetable(ctx, userID)
	if err != nil {
		return attendance.CheckInStatusResponse{}, backendError("load timetable", err)
	}
	events, err := s.DayRecordRepository.GetDay(ctx, userID, date)
	if err != nil {
		return attendance.CheckInStatusResponse{}, backendError("load day record", err)
	}

	resp := attendance.CheckInStatusResponse{
		Date:               date,
		Now:                clocktime.FromTime(now),
		IsDefaultTimetable: tt.IsDefault,
	}

	if idx := latestOpenIndex(events); idx >= 0 {
		open := events[idx]
		resp.OpenSession = &open
		resp.CanCheckOut = true
	}

	retryErr := checkLateRetry(events, now, s.window.LateRetryInterval)
	var re *attendance.RetryError
	if errors.As(retryErr, &re) {
		next := re.NextAllowed
		resp.LateRetryAvailableAt = &next
	}

	// An unsaved timetable means the next check-in is a fallback one.
	var slots []timetable.TimeSlot
	if !tt.IsDefault {
		slots = tt.Days.SlotsFor(now.Weekday())
	}

	plan, err := s.planCheckIn(slots, now, events)
	if err != nil {
		return resp, nil
	}
	if plan.fallback {
		resp.CanCheckIn = true
		return resp, nil
	}

	slot, window := plan.slot, plan.window
	resp.Slot = &slot
	resp.Window = &window
	resp.CanCheckIn = window.IsValid
	resp.CanCheckInLate = inLateWindow(window) && retryErr == nil
	return resp, nil
}

// GetDayRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDayRecord(ctx context.Context, userID string, date string) (attendance.DayRecordResponse, error) {
	if date == "" {
		date = s.snapshot().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return attendance.DayRecordResponse{}, attendance.ErrInvalidDate
	}

	events, err := s.DayRecordRepository.GetDay(ctx, userID, date)
	if err != nil {
		return attendance.DayRecordResponse{}, backendError("load day record", err)
	}

	return attendance.DayRecordResponse{
		UserID:  userID,
		Date:    date,
		Events:  events,
		Summary: Reconcile(events),
	}, nil
}

// ReviewLateCheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ReviewLateCheckIn(ctx context.Context, req attendance.ReviewLateCheckInRequest) (attendance.CheckEvent, error) {
	if err := req.Validate(); err != nil {
		return attendance.CheckEvent{}, err
	}

	events, err := s.DayRecordRepository.GetDay(ctx, req.UserID, req.Date)
	if err != nil {
		return attendance.CheckEvent{}, backendError("load day record", err)
	}

	idx := -1
	for i := range events {
		if events[i].ID == req.EventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return attendance.CheckEvent{}, attendance.ErrEventNotFound
	}

	event := &events[idx]
	if !event.IsLate || event.IsCheckOut {
		return attendance.CheckEvent{}, attendance.ErrNotLateCheckIn
	}

	approved := *req.Approved
	reviewedAt := s.now().UTC()
	event.Approved = &approved
	event.ReviewedBy = req.ReviewerID
	event.ReviewedAt = &reviewedAt

	if err := s.DayRecordRepository.SaveDay(ctx, req.UserID, req.Date, events); err != nil {
		slog.Error("failed to save review", "user_id", req.UserID, "date", req.Date, "error", err)
		return attendance.CheckEvent{}, backendError("save day record", err)
	}

	s.publish(req.UserID, EventLateCheckInReviewed, req.Date, *event)
	slog.Info("late check-in reviewed", "user_id", req.UserID, "date", req.Date, "event_id", req.EventID, "approved", approved, "reviewer", req.ReviewerID)

	return *event, nil
}

func (s *AttendanceServiceImpl) publish(userID, name, date string, event attendance.CheckEvent) {
	if s.hub == nil {
		return
	}
	s.hub.PublishAttendance(userID, name, map[string]interface{}{
		"user_id": userID,
		"date":    date,
		"event":   event,
	})
}

func backendError(op string, err error) error {
	return &attendance.BackendError{Op: fmt.Sprintf("failed to %s", op), Err: err}
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func display12h(t time.Time) string {
	s, err := clocktime.Format12h(clocktime.FromTime(t))
	if err != nil {
		return clocktime.FromTime(t)
	}
	return s
}
