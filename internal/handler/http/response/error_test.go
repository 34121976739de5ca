package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/identity"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/report"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "reason", Message: "too long"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"missing reason", attendance.ErrMissingLateReason, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"window", attendance.NewWindowError(attendance.WindowResult{State: attendance.StateTooEarly}, "too early"), http.StatusBadRequest, "WINDOW_CLOSED"},
		{"slot claimed", attendance.ErrSlotAlreadyClaimed, http.StatusConflict, "CONFLICT"},
		{"no session", attendance.ErrNoActiveSession, http.StatusConflict, "CONFLICT"},
		{"retry", &attendance.RetryError{Wait: 10 * time.Minute}, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"backend", &attendance.BackendError{Op: "failed to save", Err: errors.New("dial tcp")}, http.StatusBadGateway, "BACKEND_ERROR"},
		{"event not found", attendance.ErrEventNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"alias taken", fmt.Errorf("%q: %w", "emp-1", identity.ErrAliasTaken), http.StatusConflict, "CONFLICT"},
		{"range too long", fmt.Errorf("%w: 400 days", report.ErrRangeTooLong), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"token", jwt.ErrInvalidToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"admin", jwt.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHandleError_RetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &attendance.RetryError{Wait: 90 * time.Second})

	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "please wait 2 minute(s)")
}

func TestHandleError_WindowDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	boundary := time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
	HandleError(rec, attendance.NewWindowError(attendance.WindowResult{
		State:               attendance.StateLateRequired,
		RequiresLateCheckIn: true,
		Message:             "late",
		Boundary:            boundary,
	}, ""))

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "late", resp.Error.Message)
	assert.Equal(t, "true", resp.Error.Details["requires_late_check_in"])
	assert.Equal(t, "2024-03-04T11:00:00Z", resp.Error.Details["boundary"])
}
