package domain

import "time"

// Device is the persisted state of one kiosk (one chat)
type Device struct {
	DeviceID   int64
	Verified   bool
	EmployeeID string
	Language   string
	CreatedAt  time.Time
}
