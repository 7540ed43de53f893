package postgres

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestDeviceRepo_GetDevice(t *testing.T) {
	createdAt := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		deviceID      int64
		mockRows      *sqlmock.Rows
		mockError     error
		expectedNil   bool
		expectedError bool
	}{
		{
			name:     "verified device with cached employee",
			deviceID: 123,
			mockRows: sqlmock.NewRows([]string{"device_id", "verified", "employee_id", "language", "created_at"}).
				AddRow(123, true, "C7", "zh", createdAt),
		},
		{
			name:        "device not exists",
			deviceID:    456,
			mockError:   sql.ErrNoRows,
			expectedNil: true,
		},
		{
			name:          "database error",
			deviceID:      789,
			mockError:     fmt.Errorf("connection reset"),
			expectedNil:   true,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewDeviceRepo(db)

			query := "SELECT device_id, verified, employee_id, language, created_at FROM devices WHERE device_id = \\$1"

			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(tt.deviceID).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(tt.deviceID).WillReturnRows(tt.mockRows)
			}

			device, err := repo.GetDevice(tt.deviceID)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.expectedNil {
				assert.Nil(t, device)
			} else {
				assert.Equal(t, tt.deviceID, device.DeviceID)
				assert.True(t, device.Verified)
				assert.Equal(t, "C7", device.EmployeeID)
				assert.Equal(t, "zh", device.Language)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeviceRepo_EnsureDeviceExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewDeviceRepo(db)

	// Only deviceID is a parameter, FALSE is a SQL constant
	mock.ExpectExec("INSERT INTO devices").
		WithArgs(int64(123)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.EnsureDeviceExists(123)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepo_MarkVerified(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewDeviceRepo(db)

	mock.ExpectExec("INSERT INTO devices .* DO UPDATE SET verified = TRUE").
		WithArgs(int64(123)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.MarkVerified(123)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepo_SetEmployeeID(t *testing.T) {
	tests := []struct {
		name       string
		employeeID string
		mockError  error
	}{
		{name: "cache identity", employeeID: "C7"},
		{name: "clear identity", employeeID: ""},
		{name: "database error", employeeID: "A5", mockError: fmt.Errorf("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			assert.NoError(t, err)
			defer db.Close()

			repo := NewDeviceRepo(db)

			exp := mock.ExpectExec("UPDATE devices SET employee_id = \\$2 WHERE device_id = \\$1").
				WithArgs(int64(123), tt.employeeID)
			if tt.mockError != nil {
				exp.WillReturnError(tt.mockError)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(0, 1))
			}

			err = repo.SetEmployeeID(123, tt.employeeID)

			if tt.mockError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeviceRepo_SetLanguage(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewDeviceRepo(db)

	mock.ExpectExec("UPDATE devices SET language = \\$2 WHERE device_id = \\$1").
		WithArgs(int64(123), "en").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetLanguage(123, "en")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
