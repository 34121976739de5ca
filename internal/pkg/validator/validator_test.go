package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"09:00", "9:00", "23:59", "09:00 AM", "12:15 PM"}
	invalid := []string{"", "24:00", "9", "13:00 PM", "noon"}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"a", "b", "c"}
	if !IsInSlice("a", slice) {
		t.Errorf("IsInSlice('a') = false, want true")
	}
	if IsInSlice("d", slice) {
		t.Errorf("IsInSlice('d') = true, want false")
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "reason", Message: "invalid"},
		{Field: "start", Message: "required"},
	}
	got := errs.Error()
	want := "reason: invalid; start: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "reason", Message: "invalid"},
		{Field: "start", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"reason": "invalid", "start": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

type slotFixture struct {
	Start string `json:"start" validate:"required,clock"`
	Date  string `json:"date" validate:"omitempty,isodate"`
	Type  string `json:"type" validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	if errs := ValidateStruct(slotFixture{Start: "09:00", Date: "2024-01-02", Type: "Lab"}); errs != nil {
		t.Fatalf("ValidateStruct(valid) = %v, want nil", errs)
	}

	errs := ValidateStruct(slotFixture{Start: "9am", Date: "02-01-2024", Type: "Office Hours"})
	got := errs.ToMap()
	for _, field := range []string{"start", "date", "type"} {
		if _, ok := got[field]; !ok {
			t.Errorf("expected validation error for %q, got %v", field, got)
		}
	}

	errs = ValidateStruct(slotFixture{})
	if msg := errs.ToMap()["start"]; msg != "start is required" {
		t.Errorf("missing start message = %q", msg)
	}
}
