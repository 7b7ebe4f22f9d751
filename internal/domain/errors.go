package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotConfigured is returned when no API key has been stored yet.
	ErrNotConfigured = errors.New("no api key stored")

	// ErrNoDeviceFound is returned when the account has no active device with SMS support.
	ErrNoDeviceFound = errors.New("no sms-capable device found")

	// ErrKeyMissing is returned for an empty APIKey= value.
	ErrKeyMissing = errors.New("api key is missing")

	// ErrInvalidKeyFormat is returned when a key does not start with APIKeyPrefix.
	ErrInvalidKeyFormat = fmt.Errorf("invalid api key format (must start with %q)", APIKeyPrefix)

	// ErrKeyNotValidated is returned when Pushbullet does not accept the key.
	ErrKeyNotValidated = errors.New("api key could not be validated")
)

// InputError reports a malformed command-line input. It never involves I/O.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a failure to seal, open, read or write the stored key.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("secret store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx answer from Pushbullet on a call that must succeed.
type RemoteError struct {
	Op         string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
}

// TimeoutError reports a call that got no answer in time. Online records the
// result of the connectivity probe run after the timeout.
type TimeoutError struct {
	Service string
	After   time.Duration
	Online  bool
}

func (e *TimeoutError) Error() string {
	if !e.Online {
		return "unable to reach the internet"
	}
	return fmt.Sprintf("%s did not respond within %s", e.Service, e.After)
}

// DeviceLookupError wraps any non-timeout failure while listing devices.
type DeviceLookupError struct {
	Err error
}

func (e *DeviceLookupError) Error() string {
	return fmt.Sprintf("retrieving sms-capable device: %v", e.Err)
}

func (e *DeviceLookupError) Unwrap() error { return e.Err }
