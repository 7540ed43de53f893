package service

import (
	"time"

	"mealkiosk/internal/domain"
)

// WindowService evaluates the ordering window against the kiosk clock
type WindowService struct {
	location *time.Location
	makeup   domain.MakeupCalendar
	clock    func() time.Time
}

// NewWindowService creates a window service; a nil clock uses time.Now
func NewWindowService(location *time.Location, makeup domain.MakeupCalendar, clock func() time.Time) *WindowService {
	if clock == nil {
		clock = time.Now
	}
	return &WindowService{
		location: location,
		makeup:   makeup,
		clock:    clock,
	}
}

// Now returns the current time in the kiosk's zone
func (s *WindowService) Now() time.Time {
	return s.clock().In(s.location)
}

// Current evaluates the window at the current time
func (s *WindowService) Current() domain.Window {
	return domain.EvaluateWindow(s.Now(), s.makeup)
}
