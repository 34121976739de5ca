package attendance

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"validation errors", validator.ValidationErrors{{Field: "reason", Message: "too long"}}, KindValidation},
		{"missing reason", ErrMissingLateReason, KindValidation},
		{"wrapped invalid time", fmt.Errorf("slot start: %w", ErrInvalidTime), KindValidation},
		{"window", NewWindowError(WindowResult{State: StateTooEarly}, ""), KindWindow},
		{"slot claimed", ErrSlotAlreadyClaimed, KindConflict},
		{"no session", ErrNoActiveSession, KindConflict},
		{"retry", &RetryError{Wait: time.Minute}, KindRetry},
		{"backend", &BackendError{Op: "load", Err: errors.New("boom")}, KindBackend},
		{"unknown", errors.New("boom"), KindBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestWindowError(t *testing.T) {
	err := NewWindowError(WindowResult{State: StateLateRequired, RequiresLateCheckIn: true, Message: "late"}, "")
	assert.Equal(t, "late", err.Error())
	assert.True(t, err.RequiresLateCheckIn())
	assert.ErrorIs(t, err, ErrWindowClosed)

	custom := NewWindowError(WindowResult{Message: "late"}, "custom")
	assert.Equal(t, "custom", custom.Error())
}

func TestBackendError_Unwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("check-in: %w", &BackendError{Op: "failed to save", Err: cause})
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrBackend)
}

func TestRetryError_RoundsUp(t *testing.T) {
	err := &RetryError{Wait: 90 * time.Second}
	assert.Equal(t, "please wait 2 minute(s) before another late check-in", err.Error())
}

func TestCheckEvent_IsOpen(t *testing.T) {
	now := time.Now()
	assert.True(t, CheckEvent{Time24h: "09:00"}.IsOpen())
	assert.False(t, CheckEvent{CheckOutTime24h: "10:00"}.IsOpen())
	assert.False(t, CheckEvent{CheckOutTimestamp: &now}.IsOpen())
	assert.False(t, CheckEvent{IsCheckOut: true}.IsOpen())
}

func TestWindowConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultWindowConfig().Validate())
	assert.Error(t, WindowConfig{Grace: time.Hour, Late: time.Minute}.Validate())
	assert.Error(t, WindowConfig{Early: -time.Minute}.Validate())
}

func TestCheckInRequest_Validate(t *testing.T) {
	req := CheckInRequest{UserID: "u-1", Reason: "bus"}
	assert.NoError(t, req.Validate())

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	bad := CheckInRequest{Reason: string(long)}
	err := bad.Validate()
	var errs validator.ValidationErrors
	if assert.ErrorAs(t, err, &errs) {
		m := errs.ToMap()
		assert.Contains(t, m, "reason")
		assert.Contains(t, m, "user_id")
	}
}
