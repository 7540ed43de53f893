package testutil

import (
	"sort"
	"sync"

	"mealkiosk/internal/domain"
)

// MemoryDeviceRepository is an in-memory DeviceRepository
type MemoryDeviceRepository struct {
	mu      sync.Mutex
	devices map[int64]domain.Device
}

// NewMemoryDeviceRepository creates an empty repository
func NewMemoryDeviceRepository() *MemoryDeviceRepository {
	return &MemoryDeviceRepository{devices: make(map[int64]domain.Device)}
}

// Put stores a device as is
func (r *MemoryDeviceRepository) Put(d domain.Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[d.DeviceID] = d
}

func (r *MemoryDeviceRepository) GetDevice(deviceID int64) (*domain.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[deviceID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r *MemoryDeviceRepository) EnsureDeviceExists(deviceID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.devices[deviceID]; !ok {
		r.devices[deviceID] = domain.Device{DeviceID: deviceID}
	}
	return nil
}

func (r *MemoryDeviceRepository) MarkVerified(deviceID int64) error {
	return r.update(deviceID, func(d *domain.Device) { d.Verified = true })
}

func (r *MemoryDeviceRepository) SetEmployeeID(deviceID int64, employeeID string) error {
	return r.update(deviceID, func(d *domain.Device) { d.EmployeeID = employeeID })
}

func (r *MemoryDeviceRepository) SetLanguage(deviceID int64, language string) error {
	return r.update(deviceID, func(d *domain.Device) { d.Language = language })
}

func (r *MemoryDeviceRepository) update(deviceID int64, fn func(*domain.Device)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.devices[deviceID]
	d.DeviceID = deviceID
	fn(&d)
	r.devices[deviceID] = d
	return nil
}

type submissionKey struct {
	employeeID string
	date       domain.Date
}

// MemorySubmissionRepository is an in-memory SubmissionRepository with insert-if-absent semantics
type MemorySubmissionRepository struct {
	mu      sync.Mutex
	entries map[submissionKey]domain.Submission
	inserts int
}

// NewMemorySubmissionRepository creates an empty ledger store
func NewMemorySubmissionRepository() *MemorySubmissionRepository {
	return &MemorySubmissionRepository{entries: make(map[submissionKey]domain.Submission)}
}

func (r *MemorySubmissionRepository) GetSubmission(employeeID string, date domain.Date) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.entries[submissionKey{employeeID, date}]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *MemorySubmissionRepository) InsertSubmission(sub domain.Submission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := submissionKey{sub.EmployeeID, sub.TargetDate}
	if _, ok := r.entries[key]; ok {
		return false, nil
	}
	r.entries[key] = sub
	r.inserts++
	return true, nil
}

func (r *MemorySubmissionRepository) ListSubmissionsByDate(date domain.Date) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var subs []domain.Submission
	for key, s := range r.entries {
		if key.date == date {
			subs = append(subs, s)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].EmployeeID < subs[j].EmployeeID })
	return subs, nil
}

func (r *MemorySubmissionRepository) Ping() error {
	return nil
}

// Inserts returns how many entries were written
func (r *MemorySubmissionRepository) Inserts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inserts
}
