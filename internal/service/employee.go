package service

import (
	"context"
	"fmt"

	"mealkiosk/internal/backend"
	"mealkiosk/internal/domain"
	"mealkiosk/internal/repository"

	"go.uber.org/zap"
)

// EmployeeService validates identifiers and caches the active identity
type EmployeeService struct {
	departments *domain.DepartmentTable
	backend     backend.OrderBackend
	deviceRepo  repository.DeviceRepository
	logger      *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	departments *domain.DepartmentTable,
	orderBackend backend.OrderBackend,
	deviceRepo repository.DeviceRepository,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		departments: departments,
		backend:     orderBackend,
		deviceRepo:  deviceRepo,
		logger:      logger,
	}
}

// Validate normalizes raw input and checks it against the department table.
// No backend call is made.
func (s *EmployeeService) Validate(raw string) (domain.EmployeeID, error) {
	id, err := domain.NormalizeEmployeeID(raw)
	if err != nil {
		return domain.EmployeeID{}, err
	}
	if err := s.departments.Validate(id).Err(); err != nil {
		return domain.EmployeeID{}, fmt.Errorf("%w: %s", err, id)
	}
	return id, nil
}

// Identify validates raw input and confirms the employee with the backend
func (s *EmployeeService) Identify(ctx context.Context, raw string) (domain.EmployeeID, error) {
	id, err := s.Validate(raw)
	if err != nil {
		return domain.EmployeeID{}, err
	}

	outcome, err := s.backend.CheckEmployee(ctx, id.String())
	if err != nil {
		s.logger.Warn("Employee check failed",
			zap.String("employee_id", id.String()),
			zap.Error(err),
		)
		return domain.EmployeeID{}, fmt.Errorf("%w: %s: %v", domain.ErrEmployeeNotFound, id, err)
	}
	if outcome == backend.Rejected {
		return domain.EmployeeID{}, fmt.Errorf("%w: %s", domain.ErrEmployeeNotFound, id)
	}

	return id, nil
}

// Restore parses a cached identity; stale entries that no longer validate are rejected
func (s *EmployeeService) Restore(cached string) (domain.EmployeeID, error) {
	id, err := domain.ParseCanonicalEmployeeID(cached)
	if err != nil {
		return domain.EmployeeID{}, err
	}
	if err := s.departments.Validate(id).Err(); err != nil {
		return domain.EmployeeID{}, err
	}
	return id, nil
}

// Remember caches the identity and its locale on the device
func (s *EmployeeService) Remember(deviceID int64, id domain.EmployeeID) (string, error) {
	locale := s.departments.LocaleFor(id.Department)
	if err := s.deviceRepo.SetEmployeeID(deviceID, id.String()); err != nil {
		return "", fmt.Errorf("failed to cache employee id: %w", err)
	}
	if err := s.deviceRepo.SetLanguage(deviceID, locale); err != nil {
		return "", fmt.Errorf("failed to store language: %w", err)
	}
	return locale, nil
}

// Forget clears the active identity and resets the locale
func (s *EmployeeService) Forget(deviceID int64) (string, error) {
	locale := s.departments.DefaultLocale()
	if err := s.deviceRepo.SetEmployeeID(deviceID, ""); err != nil {
		return "", fmt.Errorf("failed to clear employee id: %w", err)
	}
	if err := s.deviceRepo.SetLanguage(deviceID, locale); err != nil {
		return "", fmt.Errorf("failed to store language: %w", err)
	}
	return locale, nil
}

// LocaleFor returns the display locale for an identity
func (s *EmployeeService) LocaleFor(id domain.EmployeeID) string {
	return s.departments.LocaleFor(id.Department)
}

// DefaultLocale returns the locale shown before identification
func (s *EmployeeService) DefaultLocale() string {
	return s.departments.DefaultLocale()
}
