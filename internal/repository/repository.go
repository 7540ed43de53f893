package repository

import (
	"mealkiosk/internal/domain"
)

// DeviceRepository defines kiosk device data operations
type DeviceRepository interface {
	GetDevice(deviceID int64) (*domain.Device, error)
	EnsureDeviceExists(deviceID int64) error
	MarkVerified(deviceID int64) error
	SetEmployeeID(deviceID int64, employeeID string) error
	SetLanguage(deviceID int64, language string) error
}

// SubmissionRepository defines ledger data operations
type SubmissionRepository interface {
	GetSubmission(employeeID string, date domain.Date) (*domain.Submission, error)
	// InsertSubmission returns false without writing when the key already exists
	InsertSubmission(sub domain.Submission) (bool, error)
	ListSubmissionsByDate(date domain.Date) ([]domain.Submission, error)
	Ping() error
}
