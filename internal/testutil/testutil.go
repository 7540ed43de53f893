package testutil

import (
	"sync"
	"time"

	"mealkiosk/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestDepartments returns a small synthetic department table.
// D uses the English locale.
func NewTestDepartments() *domain.DepartmentTable {
	return domain.NewDepartmentTable(
		map[byte][]int{
			'A': {1, 2, 5},
			'C': {7, 12},
			'D': {0, 3},
		},
		map[byte]string{'D': "en"},
		"zh",
	)
}

// NewTestDevice creates a test device
func NewTestDevice(deviceID int64, verified bool, employeeID string) *domain.Device {
	return &domain.Device{
		DeviceID:   deviceID,
		Verified:   verified,
		EmployeeID: employeeID,
		CreatedAt:  time.Now(),
	}
}

// NewTestSubmission creates a test ledger entry
func NewTestSubmission(employeeID string, date domain.Date, choice domain.Choice) *domain.Submission {
	return &domain.Submission{
		EmployeeID: employeeID,
		TargetDate: date,
		Choice:     choice,
		CreatedAt:  time.Now(),
	}
}

// Clock is a settable time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock fixed at now
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
