package postgres

import (
	"database/sql"

	"mealkiosk/internal/domain"
)

// DeviceRepo implements repository.DeviceRepository
type DeviceRepo struct {
	db *sql.DB
}

// NewDeviceRepo creates a new device repository
func NewDeviceRepo(db *sql.DB) *DeviceRepo {
	return &DeviceRepo{db: db}
}

// GetDevice returns the device or nil if it was never seen
func (r *DeviceRepo) GetDevice(deviceID int64) (*domain.Device, error) {
	var d domain.Device
	query := `SELECT device_id, verified, employee_id, language, created_at FROM devices WHERE device_id = $1`
	err := r.db.QueryRow(query, deviceID).Scan(&d.DeviceID, &d.Verified, &d.EmployeeID, &d.Language, &d.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// EnsureDeviceExists creates device if not exists
func (r *DeviceRepo) EnsureDeviceExists(deviceID int64) error {
	query := `
		INSERT INTO devices (device_id, verified)
		VALUES ($1, FALSE)
		ON CONFLICT (device_id) DO NOTHING
	`
	_, err := r.db.Exec(query, deviceID)
	return err
}

// MarkVerified records that the device passed the PIN gate
func (r *DeviceRepo) MarkVerified(deviceID int64) error {
	query := `
		INSERT INTO devices (device_id, verified)
		VALUES ($1, TRUE)
		ON CONFLICT (device_id)
		DO UPDATE SET verified = TRUE
	`
	_, err := r.db.Exec(query, deviceID)
	return err
}

// SetEmployeeID caches the active identity; empty string clears it
func (r *DeviceRepo) SetEmployeeID(deviceID int64, employeeID string) error {
	query := `UPDATE devices SET employee_id = $2 WHERE device_id = $1`
	_, err := r.db.Exec(query, deviceID, employeeID)
	return err
}

// SetLanguage stores the display locale
func (r *DeviceRepo) SetLanguage(deviceID int64, language string) error {
	query := `UPDATE devices SET language = $2 WHERE device_id = $1`
	_, err := r.db.Exec(query, deviceID, language)
	return err
}
