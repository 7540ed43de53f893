package service

import (
	"fmt"

	"mealkiosk/internal/domain"
	"mealkiosk/internal/repository"

	"go.uber.org/zap"
)

// LedgerService enforces one submission per employee per target date
type LedgerService struct {
	repo   repository.SubmissionRepository
	logger *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(repo repository.SubmissionRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		repo:   repo,
		logger: logger,
	}
}

// Has returns the recorded submission for the key, or nil
func (s *LedgerService) Has(employeeID string, date domain.Date) (*domain.Submission, error) {
	sub, err := s.repo.GetSubmission(employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger: %w", err)
	}
	return sub, nil
}

// Record stores sub; it never overwrites an existing entry
func (s *LedgerService) Record(sub domain.Submission) error {
	if sub.EmployeeID == "" || sub.TargetDate.IsZero() || !sub.Choice.IsValid() {
		return fmt.Errorf("invalid submission for %q on %s", sub.EmployeeID, sub.TargetDate)
	}

	inserted, err := s.repo.InsertSubmission(sub)
	if err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	if !inserted {
		return fmt.Errorf("%w: %s on %s", domain.ErrAlreadyExists, sub.EmployeeID, sub.TargetDate)
	}

	s.logger.Info("Submission recorded",
		zap.String("employee_id", sub.EmployeeID),
		zap.String("target_date", sub.TargetDate.String()),
		zap.String("choice", string(sub.Choice)),
	)
	return nil
}

// ForDate returns all submissions for a target date
func (s *LedgerService) ForDate(date domain.Date) ([]domain.Submission, error) {
	return s.repo.ListSubmissionsByDate(date)
}

// Ping checks that the ledger store is reachable
func (s *LedgerService) Ping() error {
	return s.repo.Ping()
}
