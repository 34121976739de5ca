package http

import (
	"net/http"

	"github.com/cmlabs-hris/faculty-attendance/internal/domain/timetable"
	"github.com/cmlabs-hris/faculty-attendance/internal/handler/http/middleware"
	"github.com/cmlabs-hris/faculty-attendance/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
)

type TimetableHandler interface {
	GetMine(w http.ResponseWriter, r *http.Request)

	// Admin
	Get(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	UpdateDay(w http.ResponseWriter, r *http.Request)
}

type timetableHandlerImpl struct {
	timetableService timetable.TimetableService
}

func NewTimetableHandler(timetableService timetable.TimetableService) TimetableHandler {
	return &timetableHandlerImpl{
		timetableService: timetableService,
	}
}

// GetMine implements TimetableHandler.
func (h *timetableHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.timetableService.GetTimetable(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements TimetableHandler.
func (h *timetableHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.timetableService.GetTimetable(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Save implements TimetableHandler.
func (h *timetableHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req timetable.SaveTimetableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = chi.URLParam(r, "userID")

	result, err := h.timetableService.SaveTimetable(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timetable saved successfully", result)
}

// UpdateDay implements TimetableHandler.
func (h *timetableHandlerImpl) UpdateDay(w http.ResponseWriter, r *http.Request) {
	var req timetable.UpdateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = chi.URLParam(r, "userID")
	req.Weekday = chi.URLParam(r, "weekday")

	result, err := h.timetableService.UpdateDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Timetable day updated successfully", result)
}
