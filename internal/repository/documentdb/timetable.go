package documentdb

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/timetable"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/docstore"
)

type timetableRepositoryImpl struct {
	store docstore.Store
}

func NewTimetableRepository(store docstore.Store) timetable.TimetableRepository {
	return &timetableRepositoryImpl{store: store}
}

func timetablePath(userID string) string {
	return "timetables/" + userID
}

// Get implements timetable.TimetableRepository.
func (r *timetableRepositoryImpl) Get(ctx context.Context, userID string) (timetable.Week, error) {
	var week timetable.Week
	err := r.store.Get(ctx, timetablePath(userID), &week)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, timetable.ErrTimetableNotFound
	} else if err != nil {
		return nil, err
	}
	if week == nil {
		week = timetable.Week{}
	}
	return week, nil
}

// Save implements timetable.TimetableRepository.
func (r *timetableRepositoryImpl) Save(ctx context.Context, userID string, week timetable.Week) error {
	return r.store.Set(ctx, timetablePath(userID), week)
}

// UpdateDay implements timetable.TimetableRepository.
func (r *timetableRepositoryImpl) UpdateDay(ctx context.Context, userID string, weekday string, slots []timetable.TimeSlot) error {
	if slots == nil {
		slots = []timetable.TimeSlot{}
	}
	return r.store.Update(ctx, timetablePath(userID), map[string]interface{}{weekday: slots})
}
