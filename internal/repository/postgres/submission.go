package postgres

import (
	"database/sql"
	"time"

	"mealkiosk/internal/domain"
)

// SubmissionRepo implements repository.SubmissionRepository
type SubmissionRepo struct {
	db *sql.DB
}

// NewSubmissionRepo creates a new submission repository
func NewSubmissionRepo(db *sql.DB) *SubmissionRepo {
	return &SubmissionRepo{db: db}
}

// GetSubmission returns the ledger entry for the key or nil
func (r *SubmissionRepo) GetSubmission(employeeID string, date domain.Date) (*domain.Submission, error) {
	var s domain.Submission
	var target time.Time
	var choice string
	query := `
		SELECT employee_id, target_date, choice, vegetarian, set_as_default, created_at
		FROM submissions
		WHERE employee_id = $1 AND target_date = $2
	`
	err := r.db.QueryRow(query, employeeID, date.String()).Scan(
		&s.EmployeeID, &target, &choice, &s.Vegetarian, &s.SetAsDefault, &s.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.TargetDate = domain.DateOf(target)
	s.Choice = domain.Choice(choice)
	return &s, nil
}

// InsertSubmission writes the entry unless the key is already taken
func (r *SubmissionRepo) InsertSubmission(sub domain.Submission) (bool, error) {
	query := `
		INSERT INTO submissions (employee_id, target_date, choice, vegetarian, set_as_default)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, target_date) DO NOTHING
	`
	res, err := r.db.Exec(query, sub.EmployeeID, sub.TargetDate.String(), string(sub.Choice), sub.Vegetarian, sub.SetAsDefault)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListSubmissionsByDate returns all entries for a target date
func (r *SubmissionRepo) ListSubmissionsByDate(date domain.Date) ([]domain.Submission, error) {
	query := `
		SELECT employee_id, target_date, choice, vegetarian, set_as_default, created_at
		FROM submissions
		WHERE target_date = $1
		ORDER BY employee_id
	`

	rows, err := r.db.Query(query, date.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		var s domain.Submission
		var target time.Time
		var choice string
		if err := rows.Scan(&s.EmployeeID, &target, &choice, &s.Vegetarian, &s.SetAsDefault, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.TargetDate = domain.DateOf(target)
		s.Choice = domain.Choice(choice)
		subs = append(subs, s)
	}

	return subs, rows.Err()
}

// Ping checks the database connection
func (r *SubmissionRepo) Ping() error {
	return r.db.Ping()
}
