package report

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
)

// MaxRangeDays bounds a single report request.
const MaxRangeDays = 93

const dateLayout = "2006-01-02"

// ========================================
// SUMMARY
// ========================================

type SummaryRequest struct {
	UserID string `json:"-"`
	From   string `json:"from" validate:"required,isodate"`
	To     string `json:"to" validate:"required,isodate"`
}

func (r *SummaryRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	_, _, err := ParseRange(r.From, r.To)
	return err
}

// DaySummary is one reconciled day.
type DaySummary struct {
	Date         string                 `json:"date"`
	Events       int                    `json:"events"`
	LateCheckIns int                    `json:"late_check_ins"`
	Summary      attendance.WorkSummary `json:"summary"`

	// Records are the stored events the summary was reconciled from.
	Records []attendance.CheckEvent `json:"-"`
}

type SummaryResponse struct {
	UserID string       `json:"user_id"`
	From   string       `json:"from"`
	To     string       `json:"to"`
	Days   []DaySummary `json:"days"`

	// Totals only include days whose pairings could all be measured
	RegularMinutes int    `json:"regular_minutes"`
	LateMinutes    int    `json:"late_minutes"`
	TotalMinutes   int    `json:"total_minutes"`
	Regular        string `json:"regular"`
	Late           string `json:"late"`
	Total          string `json:"total"`

	CompleteDays   int `json:"complete_days"`
	IncompleteDays int `json:"incomplete_days"`
	ErrorDays      int `json:"error_days"`
	LateCheckIns   int `json:"late_check_ins"`
}

// ========================================
// EXPORT
// ========================================

type ExportRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,max=100"`
	From    string   `json:"from" validate:"required,isodate"`
	To      string   `json:"to" validate:"required,isodate"`
}

func (r *ExportRequest) Validate() error {
	errs := validator.ValidateStruct(r)
	for i, id := range r.UserIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("user_ids[%d]", i),
				Message: "user id must not be empty",
			})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	_, _, err := ParseRange(r.From, r.To)
	return err
}

// ParseRange parses an inclusive ISO date range and enforces MaxRangeDays.
func ParseRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, attendance.ErrInvalidDate
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, attendance.ErrInvalidDate
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxRangeDays {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %d days requested, at most %d allowed", ErrRangeTooLong, days, MaxRangeDays)
	}
	return start, end, nil
}

// Dates lists every ISO date from start to end inclusive.
func Dates(start, end time.Time) []string {
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}
