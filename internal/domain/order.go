package domain

import "time"

// Choice is the employee's decision for a target date
type Choice string

const (
	ChoiceOrder   Choice = "order"
	ChoiceNoOrder Choice = "no_order"
)

// IsValid reports whether c is a known choice
func (c Choice) IsValid() bool {
	return c == ChoiceOrder || c == ChoiceNoOrder
}

// Draft holds the modifiers captured while choosing
type Draft struct {
	Vegetarian   bool
	SetAsDefault bool
}

// Submission is one ledger entry, unique per (EmployeeID, TargetDate)
type Submission struct {
	EmployeeID   string
	TargetDate   Date
	Choice       Choice
	Vegetarian   bool
	SetAsDefault bool
	CreatedAt    time.Time
}

// NewSubmission builds a ledger entry; vegetarian only applies to orders
func NewSubmission(employeeID string, target Date, choice Choice, draft Draft) Submission {
	return Submission{
		EmployeeID:   employeeID,
		TargetDate:   target,
		Choice:       choice,
		Vegetarian:   draft.Vegetarian && choice == ChoiceOrder,
		SetAsDefault: draft.SetAsDefault,
	}
}
