package middleware

import (
	"errors"

	"github.com/Behyna/vvm-service/internal/api/contract"
	"github.com/Behyna/vvm-service/internal/constants"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/gofiber/fiber/v2"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code := constants.ErrCodeInvalidCommand
			if fiberErr.Code == fiber.StatusNotFound {
				code = constants.ErrCodeNotFound
			}
			return c.Status(fiberErr.Code).JSON(contract.ErrorResponse{Code: code, Message: fiberErr.Message})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(contract.ErrorResponse{
			Code:    constants.ErrCodeInternalError,
			Message: constants.GetErrorMessage(constants.ErrCodeInternalError),
		})
	}
}

func handleServiceError(c *fiber.Ctx, err service.Error) error {
	errorCode := err.Code

	status := constants.GetHTTPStatus(errorCode)
	if status == fiber.StatusInternalServerError && err.Code != constants.ErrCodeInternalError {
		errorCode = constants.ErrCodeInternalError
	}

	return c.Status(status).JSON(contract.ErrorResponse{
		Code:    errorCode,
		Message: constants.GetErrorMessage(errorCode),
	})
}
