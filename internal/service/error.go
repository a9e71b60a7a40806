package service

import (
	"errors"
)

const (
	ErrCodeInvalidCommand = "INVALID_COMMAND"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeDatabase       = "DATABASE_ERROR"
	ErrCodePublish        = "PUBLISH_ERROR"
)

var (
	ErrCarrierUnsupported   = errors.New("CARRIER_UNSUPPORTED")
	ErrSourceConfigFailed   = errors.New("SOURCE_CONFIG_FAILED")
	ErrNoSignal             = errors.New("NO_SIGNAL")
	ErrStatusSmsTimeout     = errors.New("STATUS_SMS_TIMEOUT")
	ErrStatusSmsCancelled   = errors.New("STATUS_SMS_CANCELLED")
	ErrStatusSmsMalformed   = errors.New("STATUS_SMS_MALFORMED")
	ErrServiceNotAvailable  = errors.New("SERVICE_NOT_AVAILABLE")
	ErrDeviceNotProvisioned = errors.New("DEVICE_NOT_PROVISIONED")
	ErrInvalidCommand       = errors.New("INVALID_COMMAND")
	ErrDatabase             = errors.New("DATABASE_ERROR")
)

// IsRetryable reports whether an activation failure should be handed to the
// retry policy. Terminal failures have already written their final status.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, ErrCarrierUnsupported),
		errors.Is(err, ErrNoSignal),
		errors.Is(err, ErrServiceNotAvailable),
		errors.Is(err, ErrDeviceNotProvisioned),
		errors.Is(err, ErrInvalidCommand):
		return false
	default:
		return true
	}
}

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
