package domain

import "errors"

var (
	// ErrInvalidFormat means the identifier failed normalization
	ErrInvalidFormat = errors.New("invalid employee id format")
	// ErrUnknownDepartment means the department letter is not in the table
	ErrUnknownDepartment = errors.New("unknown department")
	// ErrNumberOutOfRange means the number is not allowed for its department
	ErrNumberOutOfRange = errors.New("employee number out of range")
	// ErrEmployeeNotFound means the backend existence check did not confirm the employee
	ErrEmployeeNotFound = errors.New("employee not found")

	ErrWindowClosed         = errors.New("ordering window is closed")
	ErrAlreadyExists        = errors.New("submission already exists")
	ErrTransportFailure     = errors.New("order backend unreachable")
	ErrOrderRejected        = errors.New("order rejected by backend")
	ErrUnconfirmed          = errors.New("order not acknowledged by backend")
	ErrSubmissionInProgress = errors.New("submission already in progress")

	ErrInvalidPIN        = errors.New("invalid pin")
	ErrInvalidTransition = errors.New("event not allowed in current state")
	ErrNoSession         = errors.New("no active session")
)
