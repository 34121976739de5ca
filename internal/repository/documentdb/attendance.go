package documentdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/docstore"
)

type dayRecordRepositoryImpl struct {
	store docstore.Store
}

func NewDayRecordRepository(store docstore.Store) attendance.DayRecordRepository {
	return &dayRecordRepositoryImpl{store: store}
}

// DayRecordPath is the document path of a user's attendance on an ISO date.
func DayRecordPath(userID, date string) string {
	return fmt.Sprintf("attendance/%s/%s", userID, date)
}

// GetDay implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) GetDay(ctx context.Context, userID string, date string) ([]attendance.CheckEvent, error) {
	var events []attendance.CheckEvent
	err := r.store.Get(ctx, DayRecordPath(userID, date), &events)
	if errors.Is(err, docstore.ErrNotFound) {
		return []attendance.CheckEvent{}, nil
	} else if err != nil {
		return nil, err
	}
	if events == nil {
		events = []attendance.CheckEvent{}
	}
	return events, nil
}

// SaveDay implements attendance.DayRecordRepository.
func (r *dayRecordRepositoryImpl) SaveDay(ctx context.Context, userID string, date string, events []attendance.CheckEvent) error {
	return r.store.Set(ctx, DayRecordPath(userID, date), events)
}
