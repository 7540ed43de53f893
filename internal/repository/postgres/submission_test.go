package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"mealkiosk/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var submissionColumns = []string{"employee_id", "target_date", "choice", "vegetarian", "set_as_default", "created_at"}

func monday() domain.Date {
	return domain.Date{Year: 2024, Month: time.March, Day: 4}
}

func TestSubmissionRepo_GetSubmission(t *testing.T) {
	targetTime := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expectedNil   bool
		expectedError bool
	}{
		{
			name: "submission found",
			mockRows: sqlmock.NewRows(submissionColumns).
				AddRow("C7", targetTime, "order", true, false, time.Now()),
		},
		{
			name:        "no submission",
			mockError:   sql.ErrNoRows,
			expectedNil: true,
		},
		{
			name: "scan error",
			mockRows: sqlmock.NewRows(submissionColumns).
				AddRow("C7", "not a date", "order", true, false, time.Now()),
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewSubmissionRepo(db)

			query := "SELECT employee_id, target_date, choice, vegetarian, set_as_default, created_at FROM submissions WHERE employee_id = \\$1 AND target_date = \\$2"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs("C7", "2024-03-04").WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs("C7", "2024-03-04").WillReturnRows(tt.mockRows)
			}

			sub, err := repo.GetSubmission("C7", monday())

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, sub)
			} else {
				assert.Equal(t, "C7", sub.EmployeeID)
				assert.Equal(t, monday(), sub.TargetDate)
				assert.Equal(t, domain.ChoiceOrder, sub.Choice)
				assert.True(t, sub.Vegetarian)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSubmissionRepo_InsertSubmission(t *testing.T) {
	tests := []struct {
		name          string
		rowsAffected  int64
		mockError     error
		expected      bool
		expectedError bool
	}{
		{name: "new key", rowsAffected: 1, expected: true},
		{name: "key already exists", rowsAffected: 0, expected: false},
		{name: "database error", mockError: fmt.Errorf("db error"), expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewSubmissionRepo(db)

			sub := domain.NewSubmission("C7", monday(), domain.ChoiceOrder, domain.Draft{Vegetarian: true})

			exp := mock.ExpectExec("INSERT INTO submissions .* ON CONFLICT \\(employee_id, target_date\\) DO NOTHING").
				WithArgs("C7", "2024-03-04", "order", true, false)
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, tt.rowsAffected))
			}

			inserted, err := repo.InsertSubmission(sub)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, inserted)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSubmissionRepo_ListSubmissionsByDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionRepo(db)

	targetTime := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(submissionColumns).
		AddRow("A5", targetTime, "no_order", false, false, time.Now()).
		AddRow("C7", targetTime, "order", true, true, time.Now())

	mock.ExpectQuery("SELECT employee_id, target_date, choice, vegetarian, set_as_default, created_at FROM submissions WHERE target_date = \\$1").
		WithArgs("2024-03-04").
		WillReturnRows(rows)

	subs, err := repo.ListSubmissionsByDate(monday())

	assert.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.Equal(t, domain.ChoiceNoOrder, subs[0].Choice)
	assert.Equal(t, "C7", subs[1].EmployeeID)
	assert.True(t, subs[1].SetAsDefault)
	assert.Equal(t, monday(), subs[1].TargetDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepo_ListSubmissionsByDate_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionRepo(db)

	mock.ExpectQuery("SELECT employee_id").
		WithArgs("2024-03-04").
		WillReturnError(fmt.Errorf("query error"))

	subs, err := repo.ListSubmissionsByDate(monday())

	assert.Error(t, err)
	assert.Nil(t, subs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepo_ListSubmissionsByDate_ScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionRepo(db)

	// Create rows with wrong column type to cause scan error
	rows := sqlmock.NewRows(submissionColumns).
		AddRow("C7", "invalid", "order", true, false, time.Now())

	mock.ExpectQuery("SELECT employee_id").
		WithArgs("2024-03-04").
		WillReturnRows(rows)

	subs, err := repo.ListSubmissionsByDate(monday())

	assert.Error(t, err)
	assert.Nil(t, subs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepo_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	assert.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionRepo(db)

	mock.ExpectPing()

	assert.NoError(t, repo.Ping())
	assert.NoError(t, mock.ExpectationsWereMet())
}
