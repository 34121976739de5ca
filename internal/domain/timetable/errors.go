package timetable

import "errors"

var (
	ErrTimetableNotFound = errors.New("timetable not found")
	ErrInvalidWeekday    = errors.New("invalid weekday")
)
