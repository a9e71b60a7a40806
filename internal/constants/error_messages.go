package constants

import "github.com/gofiber/fiber/v2"

const (
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeInvalidCommand     = "INVALID_COMMAND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodePublishFailed      = "PUBLISH_ERROR"
	ErrCodeDatabaseError      = "DATABASE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

const (
	ErrMsgInvalidRequestBody = "failed to parse request body"
	ErrMsgValidationFailed   = "request validation failed"
	ErrMsgInvalidCommand     = "invalid command"
	ErrMsgNotFound           = "not found"
	ErrMsgPublishFailed      = "could not queue the request, try again later"
	ErrMsgInternalError      = "Internal server error"
)

var errorMessages = map[string]string{
	ErrCodeInvalidRequestBody: ErrMsgInvalidRequestBody,
	ErrCodeValidationFailed:   ErrMsgValidationFailed,
	ErrCodeInvalidCommand:     ErrMsgInvalidCommand,
	ErrCodeNotFound:           ErrMsgNotFound,
	ErrCodePublishFailed:      ErrMsgPublishFailed,
	ErrCodeInternalError:      ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeInvalidRequestBody, ErrCodeInvalidCommand:
		return fiber.StatusBadRequest
	case ErrCodeValidationFailed:
		return fiber.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return fiber.StatusNotFound
	case ErrCodePublishFailed:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
