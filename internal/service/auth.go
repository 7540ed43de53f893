package service

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"mealkiosk/internal/domain"
	"mealkiosk/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	// PINLength is the number of characters in a kiosk PIN
	PINLength = 4
	// PINAlphabet lists the keys on the kiosk's PIN pad
	PINAlphabet = "ACEHJLMO"
)

// Authenticator checks a device-level access code.
// It is a capability check shared by every employee, not an identity.
type Authenticator interface {
	Authenticate(code string) error
}

// PINAuthenticator compares a PIN against one static shared secret.
// A secret starting with "$2" is treated as a bcrypt hash.
type PINAuthenticator struct {
	secret string
	hashed bool
}

// NewPINAuthenticator creates a PIN gate for the configured secret.
// A plain secret must be enterable on the pin pad; it is upper-cased first.
func NewPINAuthenticator(secret string) (*PINAuthenticator, error) {
	if strings.HasPrefix(secret, "$2") {
		return &PINAuthenticator{secret: secret, hashed: true}, nil
	}

	secret = strings.ToUpper(strings.TrimSpace(secret))
	if err := checkPadCode(secret); err != nil {
		return nil, fmt.Errorf("invalid kiosk pin secret: %w", err)
	}
	return &PINAuthenticator{secret: secret}, nil
}

func checkPadCode(code string) error {
	if len(code) != PINLength {
		return fmt.Errorf("%w: must be %d characters", domain.ErrInvalidPIN, PINLength)
	}
	for _, r := range code {
		if !strings.ContainsRune(PINAlphabet, r) {
			return fmt.Errorf("%w: %q is not on the pin pad", domain.ErrInvalidPIN, r)
		}
	}
	return nil
}

// Authenticate returns domain.ErrInvalidPIN unless code matches the secret
func (a *PINAuthenticator) Authenticate(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := checkPadCode(code); err != nil {
		return err
	}

	if a.hashed {
		if err := bcrypt.CompareHashAndPassword([]byte(a.secret), []byte(code)); err != nil {
			return domain.ErrInvalidPIN
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(a.secret)) != 1 {
		return domain.ErrInvalidPIN
	}
	return nil
}

// AuthService handles the device PIN gate
type AuthService struct {
	deviceRepo    repository.DeviceRepository
	authenticator Authenticator
}

// NewAuthService creates a new auth service
func NewAuthService(deviceRepo repository.DeviceRepository, authenticator Authenticator) *AuthService {
	return &AuthService{
		deviceRepo:    deviceRepo,
		authenticator: authenticator,
	}
}

// CheckPIN verifies if provided code passes the gate
func (s *AuthService) CheckPIN(code string) error {
	return s.authenticator.Authenticate(code)
}

// Verify checks the code and persists the device's verified flag
func (s *AuthService) Verify(deviceID int64, code string) error {
	if err := s.CheckPIN(code); err != nil {
		return err
	}
	if err := s.deviceRepo.MarkVerified(deviceID); err != nil {
		return fmt.Errorf("failed to mark device verified: %w", err)
	}
	return nil
}

// LoadDevice creates the device record if needed and returns it
func (s *AuthService) LoadDevice(deviceID int64) (*domain.Device, error) {
	if err := s.deviceRepo.EnsureDeviceExists(deviceID); err != nil {
		return nil, fmt.Errorf("failed to ensure device exists: %w", err)
	}
	device, err := s.deviceRepo.GetDevice(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}
	if device == nil {
		return &domain.Device{DeviceID: deviceID}, nil
	}
	return device, nil
}
