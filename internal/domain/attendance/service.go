package attendance

import (
	"context"
)

// AttendanceService records check-ins and check-outs. All user IDs are canonical.
type AttendanceService interface {
	// CheckIn binds a check-in to the next available slot, or records a fallback check-in when none applies
	CheckIn(ctx context.Context, req CheckInRequest) (CheckInResponse, error)

	// CheckOut closes the most recent open check-in of the day
	CheckOut(ctx context.Context, req CheckOutRequest) (CheckOutResponse, error)

	// GetCheckInStatus reports what the user may do right now
	GetCheckInStatus(ctx context.Context, userID string) (CheckInStatusResponse, error)

	// GetDayRecord returns a day's events with the reconciled working hours. An empty date means today.
	GetDayRecord(ctx context.Context, userID string, date string) (DayRecordResponse, error)

	// ReviewLateCheckIn approves or rejects a late check-in (admin)
	ReviewLateCheckIn(ctx context.Context, req ReviewLateCheckInRequest) (CheckEvent, error)
}
