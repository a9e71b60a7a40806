package smsprovider

import "errors"

const (
	ErrorCodeServerError        = "SERVER_ERROR"        // 5xx from the gateway
	ErrorCodeTimeout            = "TIMEOUT"             // context deadline or cancel
	ErrorCodeInvalidDestination = "INVALID_DESTINATION" // 400 or validation errors
	ErrorCodeNetworkError       = "NETWORK_ERROR"       // connection failures
	ErrorCodeRejected           = "REJECTED"            // gateway accepted the call but refused the message
)

var (
	ErrServerError        = errors.New(ErrorCodeServerError)
	ErrTimeout            = errors.New(ErrorCodeTimeout)
	ErrInvalidDestination = errors.New(ErrorCodeInvalidDestination)
	ErrNetworkError       = errors.New(ErrorCodeNetworkError)
	ErrRejected           = errors.New(ErrorCodeRejected)
)

// IsTransient reports whether resending the same message may succeed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrServerError) || errors.Is(err, ErrTimeout) || errors.Is(err, ErrNetworkError)
}
