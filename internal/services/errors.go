package services

import "errors"

var (
	// ErrInvalidInput marks missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserNotFound is returned when no user matches the given id.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a username, email or password is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidPhone is returned for phone numbers outside the configured country code.
	ErrInvalidPhone = errors.New("invalid phone number")
	// ErrDispatcherDisabled means no gateway credential was available at boot.
	ErrDispatcherDisabled = errors.New("sms gateway client not initialized")
	// ErrCredentialNotFound means the gateway_credentials table is empty.
	ErrCredentialNotFound = errors.New("gateway credential not found")
)
