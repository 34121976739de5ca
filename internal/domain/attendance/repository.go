package attendance

import "context"

// DayRecordRepository stores the ordered event list of one user on one local calendar day.
type DayRecordRepository interface {
	// GetDay returns an empty slice when nothing was recorded that day
	GetDay(ctx context.Context, userID string, date string) ([]CheckEvent, error)

	// SaveDay replaces the day's event list (last write wins)
	SaveDay(ctx context.Context, userID string, date string, events []CheckEvent) error
}
