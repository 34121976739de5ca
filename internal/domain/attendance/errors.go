package attendance

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/clocktime"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
)

// Attendance domain errors
var (
	// Validation
	ErrMissingLateReason   = errors.New("a reason is required for a late check-in")
	ErrInvalidTime         = clocktime.ErrInvalidTime
	ErrInvalidDate         = errors.New("date must be in YYYY-MM-DD format")
	ErrCheckOutBeforeStart = errors.New("check-out must be after check-in")
	ErrEventNotFound       = errors.New("attendance event not found")

	// Window
	ErrWindowClosed = errors.New("check-in window is closed")

	// Conflict
	ErrSlotAlreadyClaimed = errors.New("this slot already has an open check-in")
	ErrNoActiveSession    = errors.New("no active check-in to check out from")
	ErrNotLateCheckIn     = errors.New("only late check-ins can be reviewed")

	// Retry
	ErrLateRetryTooSoon = errors.New("late check-in attempted too soon after the previous one")

	// Backend
	ErrBackend = errors.New("attendance store unavailable")
)

// WindowError rejects a check-in outside the slot's valid window.
type WindowError struct {
	Result  WindowResult
	message string
}

func NewWindowError(result WindowResult, message string) *WindowError {
	return &WindowError{Result: result, message: message}
}

func (e *WindowError) Error() string {
	if e.message != "" {
		return e.message
	}
	return e.Result.Message
}

func (e *WindowError) Is(target error) bool {
	return target == ErrWindowClosed
}

// RequiresLateCheckIn reports whether retrying as a late check-in with a reason would succeed.
func (e *WindowError) RequiresLateCheckIn() bool {
	return e.Result.RequiresLateCheckIn
}

// RetryError rejects a late check-in made before the retry interval elapsed.
type RetryError struct {
	Wait        time.Duration
	NextAllowed time.Time
}

func (e *RetryError) Error() string {
	minutes := int(math.Ceil(e.Wait.Minutes()))
	return fmt.Sprintf("please wait %d minute(s) before another late check-in", minutes)
}

func (e *RetryError) Is(target error) bool {
	return target == ErrLateRetryTooSoon
}

// BackendError wraps a document store failure.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackend
}

// Kind is the caller-facing error category.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindWindow     Kind = "WindowError"
	KindConflict   Kind = "ConflictError"
	KindRetry      Kind = "RetryThrottled"
	KindBackend    Kind = "BackendError"
)

// KindOf classifies err. Unrecognized errors are treated as backend failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs),
		errors.Is(err, ErrMissingLateReason),
		errors.Is(err, ErrInvalidTime),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrCheckOutBeforeStart),
		errors.Is(err, ErrEventNotFound):
		return KindValidation
	case errors.Is(err, ErrWindowClosed):
		return KindWindow
	case errors.Is(err, ErrSlotAlreadyClaimed),
		errors.Is(err, ErrNoActiveSession),
		errors.Is(err, ErrNotLateCheckIn):
		return KindConflict
	case errors.Is(err, ErrLateRetryTooSoon):
		return KindRetry
	default:
		return KindBackend
	}
}
