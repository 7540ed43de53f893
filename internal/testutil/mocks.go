package testutil

import (
	"context"

	"mealkiosk/internal/backend"
	"mealkiosk/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockDeviceRepository is a mock for DeviceRepository
type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) GetDevice(deviceID int64) (*domain.Device, error) {
	args := m.Called(deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Device), args.Error(1)
}

func (m *MockDeviceRepository) EnsureDeviceExists(deviceID int64) error {
	args := m.Called(deviceID)
	return args.Error(0)
}

func (m *MockDeviceRepository) MarkVerified(deviceID int64) error {
	args := m.Called(deviceID)
	return args.Error(0)
}

func (m *MockDeviceRepository) SetEmployeeID(deviceID int64, employeeID string) error {
	args := m.Called(deviceID, employeeID)
	return args.Error(0)
}

func (m *MockDeviceRepository) SetLanguage(deviceID int64, language string) error {
	args := m.Called(deviceID, language)
	return args.Error(0)
}

// MockSubmissionRepository is a mock for SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) GetSubmission(employeeID string, date domain.Date) (*domain.Submission, error) {
	args := m.Called(employeeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) InsertSubmission(sub domain.Submission) (bool, error) {
	args := m.Called(sub)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubmissionRepository) ListSubmissionsByDate(date domain.Date) ([]domain.Submission, error) {
	args := m.Called(date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// MockOrderBackend is a mock for backend.OrderBackend
type MockOrderBackend struct {
	mock.Mock
}

func (m *MockOrderBackend) CheckEmployee(ctx context.Context, employeeID string) (backend.Outcome, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(backend.Outcome), args.Error(1)
}

func (m *MockOrderBackend) SubmitOrder(ctx context.Context, req backend.OrderRequest) (backend.Outcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(backend.Outcome), args.Error(1)
}
