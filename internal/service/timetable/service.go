package timetable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/timetable"
)

type TimetableServiceImpl struct {
	timetable.TimetableRepository
}

func NewTimetableService(repo timetable.TimetableRepository) timetable.TimetableService {
	return &TimetableServiceImpl{TimetableRepository: repo}
}

// GetTimetable implements timetable.TimetableService.
func (s *TimetableServiceImpl) GetTimetable(ctx context.Context, userID string) (timetable.TimetableResponse, error) {
	week, err := s.TimetableRepository.Get(ctx, userID)
	if errors.Is(err, timetable.ErrTimetableNotFound) {
		return timetable.TimetableResponse{UserID: userID, IsDefault: true, Days: timetable.DefaultWeek()}, nil
	} else if err != nil {
		return timetable.TimetableResponse{}, fmt.Errorf("failed to load timetable: %w", err)
	}
	return timetable.TimetableResponse{UserID: userID, Days: week.Sorted()}, nil
}

// SaveTimetable implements timetable.TimetableService.
func (s *TimetableServiceImpl) SaveTimetable(ctx context.Context, req timetable.SaveTimetableRequest) (timetable.TimetableResponse, error) {
	if err := req.Validate(); err != nil {
		return timetable.TimetableResponse{}, err
	}

	week := req.Week()
	if err := s.TimetableRepository.Save(ctx, req.UserID, week); err != nil {
		return timetable.TimetableResponse{}, fmt.Errorf("failed to save timetable: %w", err)
	}

	slog.Info("timetable saved", "user_id", req.UserID, "days", len(week))
	return timetable.TimetableResponse{UserID: req.UserID, Days: week}, nil
}

// UpdateDay implements timetable.TimetableService.
func (s *TimetableServiceImpl) UpdateDay(ctx context.Context, req timetable.UpdateDayRequest) (timetable.TimetableResponse, error) {
	if err := req.Validate(); err != nil {
		return timetable.TimetableResponse{}, err
	}
	day, _ := timetable.NormalizeWeekday(req.Weekday)

	if err := s.TimetableRepository.UpdateDay(ctx, req.UserID, day, req.CanonicalSlots()); err != nil {
		return timetable.TimetableResponse{}, fmt.Errorf("failed to update %s: %w", day, err)
	}

	slog.Info("timetable day updated", "user_id", req.UserID, "weekday", day, "slots", len(req.Slots))
	return s.GetTimetable(ctx, req.UserID)
}

// EnsureTimetable implements timetable.TimetableService.
func (s *TimetableServiceImpl) EnsureTimetable(ctx context.Context, userID string) (timetable.Week, bool, error) {
	week, err := s.TimetableRepository.Get(ctx, userID)
	if err == nil {
		return week, false, nil
	}
	if !errors.Is(err, timetable.ErrTimetableNotFound) {
		return nil, false, fmt.Errorf("failed to load timetable: %w", err)
	}

	week = timetable.DefaultWeek()
	if err := s.TimetableRepository.Save(ctx, userID, week); err != nil {
		return nil, false, fmt.Errorf("failed to save default timetable: %w", err)
	}
	slog.Info("default timetable created", "user_id", userID)
	return week, true, nil
}
