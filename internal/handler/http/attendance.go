package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/faculty-attendance/internal/domain/report"
	"github.com/cmlabs-hris/faculty-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/faculty-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type AttendanceHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	GetRecord(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)

	// Admin
	GetUserRecord(w http.ResponseWriter, r *http.Request)
	ReviewLateCheckIn(w http.ResponseWriter, r *http.Request)
	GetUserSummary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	reportService     report.ReportService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, reportService report.ReportService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		reportService:     reportService,
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves dst untouched.
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetCheckInStatus(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if err := decodeBody(r, &req); err != nil {
		slog.Warn("failed to decode check-in request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = middleware.UserID(r.Context())

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Check in successful"
	if result.Event.IsLate {
		message = "Late check in recorded, pending review"
	}
	response.Created(w, message, result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	req := attendance.CheckOutRequest{UserID: middleware.UserID(r.Context())}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetDayRecord(r.Context(), middleware.UserID(r.Context()), "")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetRecord(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	result, err := h.attendanceService.GetDayRecord(r.Context(), middleware.UserID(r.Context()), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	h.summarize(w, r, middleware.UserID(r.Context()))
}

// GetUserRecord implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetUserRecord(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	date := chi.URLParam(r, "date")

	result, err := h.attendanceService.GetDayRecord(r.Context(), userID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ReviewLateCheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ReviewLateCheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReviewLateCheckInRequest
	if err := decodeBody(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = chi.URLParam(r, "userID")
	req.Date = chi.URLParam(r, "date")
	req.EventID = chi.URLParam(r, "eventID")
	req.ReviewerID = middleware.UserID(r.Context())

	result, err := h.attendanceService.ReviewLateCheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Late check in rejected"
	if result.Approved != nil && *result.Approved {
		message = "Late check in approved"
	}
	response.SuccessWithMessage(w, message, result)
}

// GetUserSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetUserSummary(w http.ResponseWriter, r *http.Request) {
	h.summarize(w, r, chi.URLParam(r, "userID"))
}

func (h *attendanceHandlerImpl) summarize(w http.ResponseWriter, r *http.Request, userID string) {
	req := report.SummaryRequest{
		UserID: userID,
		From:   r.URL.Query().Get("from"),
		To:     r.URL.Query().Get("to"),
	}

	result, err := h.reportService.Summarize(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// total_items counts days that have at least one event
	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: int64(len(result.Days))})
}

// Export implements AttendanceHandler.
func (h *attendanceHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req := report.ExportRequest{
		UserIDs: splitList(r.URL.Query().Get("user_ids")),
		From:    r.URL.Query().Get("from"),
		To:      r.URL.Query().Get("to"),
	}

	// Buffer so failures can still be reported as JSON
	var buf bytes.Buffer
	if err := h.reportService.ExportXLSX(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance_%s_%s.xlsx", req.From, req.To)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write export", "error", err)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
