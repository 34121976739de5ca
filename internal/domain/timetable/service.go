package timetable

import "context"

type TimetableService interface {
	// GetTimetable returns the saved week, or the default week flagged IsDefault
	GetTimetable(ctx context.Context, userID string) (TimetableResponse, error)

	SaveTimetable(ctx context.Context, req SaveTimetableRequest) (TimetableResponse, error)

	UpdateDay(ctx context.Context, req UpdateDayRequest) (TimetableResponse, error)

	// EnsureTimetable loads the week, persisting the default when none exists.
	// created reports whether the default was just written.
	EnsureTimetable(ctx context.Context, userID string) (week Week, created bool, err error)
}
