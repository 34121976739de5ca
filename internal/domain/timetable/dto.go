package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/clocktime"
	"github.com/cmlabs-hris/faculty-attendance/internal/pkg/validator"
)

type SlotInput struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end" validate:"required,clock"`
	Type  string `json:"type" validate:"max=64"`
}

type SaveTimetableRequest struct {
	UserID string                 `json:"-"`
	Days   map[string][]SlotInput `json:"days"`
}

func (r *SaveTimetableRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}

	seen := make(map[string]bool)
	for name, slots := range r.Days {
		day, ok := NormalizeWeekday(name)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "days." + name,
				Message: fmt.Sprintf("%q is not a weekday", name),
			})
			continue
		}
		if seen[day] {
			errs = append(errs, validator.ValidationError{
				Field:   "days." + name,
				Message: day + " is listed more than once",
			})
			continue
		}
		seen[day] = true
		errs = append(errs, validateSlots("days."+day, slots)...)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Week converts a validated request into canonical form.
func (r *SaveTimetableRequest) Week() Week {
	week := make(Week, len(r.Days))
	for name, slots := range r.Days {
		day, ok := NormalizeWeekday(name)
		if !ok {
			continue
		}
		week[day] = canonicalSlots(slots)
	}
	return week
}

type UpdateDayRequest struct {
	UserID  string      `json:"-"`
	Weekday string      `json:"-"`
	Slots   []SlotInput `json:"slots"`
}

func (r *UpdateDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id is required"})
	}
	if _, ok := NormalizeWeekday(r.Weekday); !ok {
		errs = append(errs, validator.ValidationError{Field: "weekday", Message: fmt.Sprintf("%q is not a weekday", r.Weekday)})
	}
	errs = append(errs, validateSlots("slots", r.Slots)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CanonicalSlots returns the request's slots in canonical, start-sorted form.
func (r *UpdateDayRequest) CanonicalSlots() []TimeSlot {
	return canonicalSlots(r.Slots)
}

type TimetableResponse struct {
	UserID    string `json:"user_id"`
	IsDefault bool   `json:"is_default"`
	Days      Week   `json:"days"`
}

func validateSlots(prefix string, slots []SlotInput) validator.ValidationErrors {
	var errs validator.ValidationErrors

	type span struct {
		index      int
		start, end int
	}
	var spans []span

	for i, slot := range slots {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if fieldErrs := validator.ValidateStruct(slot); len(fieldErrs) > 0 {
			for _, fe := range fieldErrs {
				errs = append(errs, validator.ValidationError{Field: field + "." + fe.Field, Message: fe.Message})
			}
			continue
		}

		start, _ := clocktime.Minutes(slot.Start)
		end, _ := clocktime.Minutes(slot.End)
		if end <= start {
			errs = append(errs, validator.ValidationError{Field: field + ".end", Message: "end must be after start"})
			continue
		}
		spans = append(spans, span{index: i, start: start, end: end})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("%s[%d]", prefix, spans[i].index),
				Message: fmt.Sprintf("overlaps slot %d", spans[i-1].index),
			})
		}
	}

	return errs
}

func canonicalSlots(in []SlotInput) []TimeSlot {
	out := make([]TimeSlot, 0, len(in))
	for _, s := range in {
		start, _ := clocktime.Standardize(s.Start)
		end, _ := clocktime.Standardize(s.End)
		slotType := strings.TrimSpace(s.Type)
		if slotType == "" {
			slotType = DefaultSlotType
		}
		out = append(out, TimeSlot{Start: start, End: end, Type: slotType})
	}
	return SortSlots(out)
}
