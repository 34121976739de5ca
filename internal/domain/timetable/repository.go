package timetable

import "context"

// TimetableRepository stores one Week document per user.
type TimetableRepository interface {
	// Get returns ErrTimetableNotFound when the user has no saved timetable
	Get(ctx context.Context, userID string) (Week, error)

	// Save replaces the whole week
	Save(ctx context.Context, userID string, week Week) error

	// UpdateDay replaces a single weekday, leaving the other days untouched
	UpdateDay(ctx context.Context, userID string, weekday string, slots []TimeSlot) error
}
