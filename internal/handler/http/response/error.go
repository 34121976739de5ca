package response

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/identity"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/report"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/timetable"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var windowErr *attendance.WindowError
	if errors.As(err, &windowErr) {
		details := map[string]string{
			"state":                  string(windowErr.Result.State),
			"requires_late_check_in": strconv.FormatBool(windowErr.RequiresLateCheckIn()),
		}
		if !windowErr.Result.Boundary.IsZero() {
			details["boundary"] = windowErr.Result.Boundary.Format(time.RFC3339)
		}
		WindowClosed(w, windowErr.Error(), details)
		return
	}

	var retryErr *attendance.RetryError
	if errors.As(err, &retryErr) {
		seconds := int(math.Ceil(retryErr.Wait.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		details := map[string]string{"retry_after_seconds": strconv.Itoa(seconds)}
		if !retryErr.NextAllowed.IsZero() {
			details["next_allowed_at"] = retryErr.NextAllowed.Format(time.RFC3339)
		}
		TooManyRequests(w, retryErr.Error(), details)
		return
	}

	switch {
	// Auth
	case errors.Is(err, jwt.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, jwt.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Attendance validation
	case errors.Is(err, attendance.ErrMissingLateReason):
		UnprocessableEntity(w, err.Error(), map[string]string{"reason": err.Error()})
	case errors.Is(err, attendance.ErrInvalidTime):
		UnprocessableEntity(w, err.Error(), map[string]string{"time": err.Error()})
	case errors.Is(err, attendance.ErrInvalidDate):
		UnprocessableEntity(w, err.Error(), map[string]string{"date": err.Error()})
	case errors.Is(err, attendance.ErrCheckOutBeforeStart):
		UnprocessableEntity(w, err.Error(), map[string]string{"check_out": err.Error()})
	case errors.Is(err, attendance.ErrEventNotFound):
		NotFound(w, "Attendance event not found")

	// Attendance conflicts
	case errors.Is(err, attendance.ErrSlotAlreadyClaimed),
		errors.Is(err, attendance.ErrNoActiveSession),
		errors.Is(err, attendance.ErrNotLateCheckIn):
		Conflict(w, err.Error())

	// Timetable
	case errors.Is(err, timetable.ErrTimetableNotFound):
		NotFound(w, "Timetable not found")
	case errors.Is(err, timetable.ErrInvalidWeekday):
		UnprocessableEntity(w, err.Error(), map[string]string{"weekday": err.Error()})

	// Identity
	case errors.Is(err, identity.ErrUnknownIdentity):
		NotFound(w, "User not found")
	case errors.Is(err, identity.ErrAliasTaken):
		Conflict(w, err.Error())

	// Report
	case errors.Is(err, report.ErrInvalidDateRange),
		errors.Is(err, report.ErrRangeTooLong):
		UnprocessableEntity(w, err.Error(), map[string]string{"to": err.Error()})
	case errors.Is(err, report.ErrReportGenerationFailed):
		slog.Error("report generation failed", "error", err)
		InternalServerError(w, "Failed to generate report")

	// Store
	case errors.Is(err, attendance.ErrBackend):
		slog.Error("attendance store failure", "error", err)
		BadGateway(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
