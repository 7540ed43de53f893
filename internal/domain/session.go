package domain

import "time"

// WorkflowState represents the kiosk's current screen
type WorkflowState string

const (
	StateLoading          WorkflowState = "loading"
	StateAuthGate         WorkflowState = "auth_gate"
	StateIdentifyEmployee WorkflowState = "identify_employee"
	StateOutOfWindow      WorkflowState = "out_of_window"
	StateChoosingOrder    WorkflowState = "choosing_order"
	StateAlreadySubmitted WorkflowState = "already_submitted"
	StateSubmitted        WorkflowState = "submitted"
)

// IsPostIdentification reports whether s is reached only with an active identity
func (s WorkflowState) IsPostIdentification() bool {
	switch s {
	case StateOutOfWindow, StateChoosingOrder, StateAlreadySubmitted, StateSubmitted:
		return true
	}
	return false
}

// Notice is a transient message for the UI
type Notice string

const (
	NoticeNone             Notice = ""
	NoticeInvalidPIN       Notice = "invalid_pin"
	NoticeInvalidFormat    Notice = "invalid_format"
	NoticeEmployeeNotFound Notice = "employee_not_found"
	NoticeSubmitFailed     Notice = "submit_failed"
)

// Session is a snapshot of one kiosk session
type Session struct {
	ID         string
	DeviceID   int64
	State      WorkflowState
	EmployeeID string
	Input      string
	Locale     string
	Window     Window
	Draft      Draft
	Choice     Choice
	Notice     Notice
	Submitting bool
	StartedAt  time.Time
	LastSeen   time.Time
}
