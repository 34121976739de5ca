package attendance

import (
	"fmt"
	"time"
)

// CheckEvent is one check-in on a day record. A check-out is attached to the
// check-in it closes; IsCheckOut is only set on legacy standalone check-out entries.
type CheckEvent struct {
	ID               string    `json:"id,omitempty"`
	Time             string    `json:"time"`
	Time24h          string    `json:"time24h"`
	IsCheckOut       bool      `json:"isCheckOut"`
	IsLate           bool      `json:"isLate"`
	IsDefaultCheckIn bool      `json:"isDefaultCheckIn,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	SlotStart        string    `json:"slotStart,omitempty"`
	SlotEnd          string    `json:"slotEnd,omitempty"`
	SlotType         string    `json:"slotType,omitempty"`
	Timestamp        time.Time `json:"timestamp"`

	CheckOutTime      string     `json:"checkOutTime,omitempty"`
	CheckOutTime24h   string     `json:"checkOutTime24h,omitempty"`
	CheckOutTimestamp *time.Time `json:"checkOutTimestamp,omitempty"`

	// Approved is nil while a late check-in awaits review.
	Approved   *bool      `json:"approved,omitempty"`
	ReviewedBy string     `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
}

// HasCheckOut reports whether check-out fields have been attached.
func (e CheckEvent) HasCheckOut() bool {
	return e.CheckOutTimestamp != nil || e.CheckOutTime24h != "" || e.CheckOutTime != ""
}

// IsOpen reports whether the event is a check-in still waiting for its check-out.
func (e CheckEvent) IsOpen() bool {
	return !e.IsCheckOut && !e.HasCheckOut()
}

// BoundTo reports whether the event was assigned to a slot.
func (e CheckEvent) BoundTo() (start, end string, ok bool) {
	if e.SlotStart == "" || e.SlotEnd == "" {
		return "", "", false
	}
	return e.SlotStart, e.SlotEnd, true
}

// WindowState is the outcome of evaluating "now" against a slot.
type WindowState string

const (
	StateEarlyOrOnTime WindowState = "EARLY_OR_ON_TIME"
	StateSlightlyLate  WindowState = "SLIGHTLY_LATE"
	StateLateRequired  WindowState = "LATE_REQUIRED"
	StateTooEarly      WindowState = "TOO_EARLY"
	StateTooLate       WindowState = "TOO_LATE"
)

type WindowResult struct {
	State               WindowState `json:"state"`
	IsValid             bool        `json:"isValid"`
	RequiresLateCheckIn bool        `json:"requiresLateCheckIn"`
	Message             string      `json:"message"`
	Boundary            time.Time   `json:"boundary"`
}

// WindowConfig holds the check-in window durations, all measured from slot start.
type WindowConfig struct {
	Early             time.Duration
	Grace             time.Duration
	Late              time.Duration
	LateRetryInterval time.Duration
}

func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Early:             time.Hour,
		Grace:             30 * time.Minute,
		Late:              2 * time.Hour,
		LateRetryInterval: 30 * time.Minute,
	}
}

func (c WindowConfig) Validate() error {
	if c.Early < 0 || c.Grace < 0 || c.Late < 0 || c.LateRetryInterval < 0 {
		return fmt.Errorf("window durations must not be negative")
	}
	if c.Late < c.Grace {
		return fmt.Errorf("late window (%s) must be at least the grace window (%s)", c.Late, c.Grace)
	}
	return nil
}

// FaultKind classifies a check-in/check-out pairing that could not be measured.
type FaultKind string

const (
	FaultInvalidOrder FaultKind = "InvalidOrder"
	FaultInvalidTime  FaultKind = "InvalidTime"
)

type PairingFault struct {
	EventID string    `json:"eventId,omitempty"`
	Index   int       `json:"index"`
	Kind    FaultKind `json:"kind"`
	Message string    `json:"message"`
}

// WorkSummary is the reconciled view of one day's events.
type WorkSummary struct {
	RegularMinutes int `json:"regularMinutes"`
	LateMinutes    int `json:"lateMinutes"`
	TotalMinutes   int `json:"totalMinutes"`

	Regular string `json:"regular"`
	Late    string `json:"late"`
	Total   string `json:"total"`

	CheckIns   int  `json:"checkIns"`
	CheckOuts  int  `json:"checkOuts"`
	IsComplete bool `json:"isComplete"`

	Faults []PairingFault `json:"faults,omitempty"`
	Error  string         `json:"error,omitempty"`

	Display string `json:"display"`
}

const (
	DisplayError      = "Error"
	DisplayIncomplete = "Incomplete"
)

// HasFaults reports whether any pairing could not be measured.
func (s WorkSummary) HasFaults() bool {
	return len(s.Faults) > 0
}
