package attendance

import (
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/timetable"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT DTOs
// ========================================

type CheckInRequest struct {
	UserID string `json:"-"`
	IsLate bool   `json:"is_late"`
	Reason string `json:"reason" validate:"max=500"`
}

func (r *CheckInRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckInResponse struct {
	Date      string              `json:"date"`
	Event     CheckEvent          `json:"event"`
	Slot      *timetable.TimeSlot `json:"slot,omitempty"`
	Window    *WindowResult       `json:"window,omitempty"`
	IsDefault bool                `json:"is_default_timetable"`
}

type CheckOutRequest struct {
	UserID string `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	if validator.IsEmpty(r.UserID) {
		return validator.ValidationErrors{{Field: "user_id", Message: "user_id is required"}}
	}
	return nil
}

type CheckOutResponse struct {
	Date    string      `json:"date"`
	Event   CheckEvent  `json:"event"`
	Summary WorkSummary `json:"summary"`
}

type CheckInStatusResponse struct {
	Date                 string              `json:"date"`
	Now                  string              `json:"now"`
	Slot                 *timetable.TimeSlot `json:"slot,omitempty"`
	Window               *WindowResult       `json:"window,omitempty"`
	OpenSession          *CheckEvent         `json:"open_session,omitempty"`
	CanCheckIn           bool                `json:"can_check_in"`
	CanCheckInLate       bool                `json:"can_check_in_late"`
	CanCheckOut          bool                `json:"can_check_out"`
	LateRetryAvailableAt *time.Time          `json:"late_retry_available_at,omitempty"`
	IsDefaultTimetable   bool                `json:"is_default_timetable"`
}

// ========================================
// DAY RECORD DTOs
// ========================================

type DayRecordResponse struct {
	UserID  string       `json:"user_id"`
	Date    string       `json:"date"`
	Events  []CheckEvent `json:"events"`
	Summary WorkSummary  `json:"summary"`
}

type ReviewLateCheckInRequest struct {
	UserID     string `json:"-"`
	Date       string `json:"-"`
	EventID    string `json:"-"`
	ReviewerID string `json:"-"`
	Approved   *bool  `json:"approved" validate:"required"`
}

func (r *ReviewLateCheckInRequest) Validate() error {
	errs := validator.ValidateStruct(r)

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if validator.IsEmpty(r.EventID) {
		errs = append(errs, validator.ValidationError{Field: "event_id", Message: "event_id is required"})
	}
	if validator.IsEmpty(r.ReviewerID) {
		errs = append(errs, validator.ValidationError{Field: "reviewer_id", Message: "reviewer_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
