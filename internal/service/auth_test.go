package service

import (
	"fmt"
	"testing"

	"mealkiosk/internal/domain"
	"mealkiosk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPINAuthenticator_Authenticate(t *testing.T) {
	tests := []struct {
		name          string
		secret        string
		input         string
		expectedError bool
	}{
		{name: "correct pin", secret: "ECHO", input: "ECHO"},
		{name: "lowercase input", secret: "ECHO", input: "echo"},
		{name: "incorrect pin", secret: "ECHO", input: "MEAL", expectedError: true},
		{name: "empty pin", secret: "ECHO", input: "", expectedError: true},
		{name: "too short", secret: "ECHO", input: "ECH", expectedError: true},
		{name: "too long", secret: "ECHO", input: "ECHOO", expectedError: true},
		{name: "letter not on pad", secret: "ECHO", input: "ECHB", expectedError: true},
		{name: "lowercase secret", secret: "echo", input: "ECHO"},
		{name: "secret with spaces", secret: " ECHO ", input: "echo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := NewPINAuthenticator(tt.secret)
			require.NoError(t, err)

			err = auth.Authenticate(tt.input)

			if tt.expectedError {
				assert.ErrorIs(t, err, domain.ErrInvalidPIN)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPINAuthenticator_BcryptSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("MACE"), bcrypt.MinCost)
	require.NoError(t, err)

	auth, err := NewPINAuthenticator(string(hash))
	require.NoError(t, err)

	assert.NoError(t, auth.Authenticate("MACE"))
	assert.ErrorIs(t, auth.Authenticate("ECHO"), domain.ErrInvalidPIN)
}

func TestNewPINAuthenticator_RejectsUnenterableSecret(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{name: "empty", secret: ""},
		{name: "too short", secret: "ECH"},
		{name: "too long", secret: "ECHOES"},
		{name: "digits", secret: "1234"},
		{name: "letter not on pad", secret: "ECHB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth, err := NewPINAuthenticator(tt.secret)

			assert.ErrorIs(t, err, domain.ErrInvalidPIN)
			assert.Nil(t, auth)
		})
	}
}

func newTestAuthenticator(t *testing.T) *PINAuthenticator {
	t.Helper()
	auth, err := NewPINAuthenticator("ECHO")
	require.NoError(t, err)
	return auth
}

func TestAuthService_Verify(t *testing.T) {
	tests := []struct {
		name          string
		code          string
		mockError     error
		expectMark    bool
		expectedError error
	}{
		{name: "correct pin", code: "ECHO", expectMark: true},
		{name: "wrong pin", code: "HOME", expectedError: domain.ErrInvalidPIN},
		{name: "database error", code: "ECHO", expectMark: true, mockError: fmt.Errorf("db error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(testutil.MockDeviceRepository)
			if tt.expectMark {
				mockRepo.On("MarkVerified", int64(123)).Return(tt.mockError)
			}

			service := NewAuthService(mockRepo, newTestAuthenticator(t))

			err := service.Verify(123, tt.code)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.mockError != nil:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoadDevice(t *testing.T) {
	t.Run("existing device", func(t *testing.T) {
		mockRepo := new(testutil.MockDeviceRepository)
		mockRepo.On("EnsureDeviceExists", int64(123)).Return(nil)
		mockRepo.On("GetDevice", int64(123)).Return(testutil.NewTestDevice(123, true, "C7"), nil)

		service := NewAuthService(mockRepo, newTestAuthenticator(t))

		device, err := service.LoadDevice(123)

		assert.NoError(t, err)
		assert.True(t, device.Verified)
		assert.Equal(t, "C7", device.EmployeeID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("ensure fails", func(t *testing.T) {
		mockRepo := new(testutil.MockDeviceRepository)
		mockRepo.On("EnsureDeviceExists", int64(123)).Return(fmt.Errorf("db error"))

		service := NewAuthService(mockRepo, newTestAuthenticator(t))

		device, err := service.LoadDevice(123)

		assert.Error(t, err)
		assert.Nil(t, device)
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing row after ensure", func(t *testing.T) {
		mockRepo := new(testutil.MockDeviceRepository)
		mockRepo.On("EnsureDeviceExists", int64(123)).Return(nil)
		mockRepo.On("GetDevice", int64(123)).Return(nil, nil)

		service := NewAuthService(mockRepo, newTestAuthenticator(t))

		device, err := service.LoadDevice(123)

		assert.NoError(t, err)
		assert.Equal(t, int64(123), device.DeviceID)
		assert.False(t, device.Verified)
	})
}
