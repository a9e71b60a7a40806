package validator

import (
	"github.com/Behyna/vvm-service/internal/api/contract"
	"github.com/Behyna/vvm-service/internal/constants"
	"github.com/Behyna/vvm-service/internal/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type Error struct {
	FailedField string
	Tag         string
	Value       interface{}
}

type IXValidator interface {
	// ParseAndValidate reads the request body into out and validates it. A
	// non-nil response has already been given its status on c.
	ParseAndValidate(c *fiber.Ctx, out interface{}) *contract.ErrorResponse
	Validate(data interface{}) []Error
}

type XValidator struct {
	validator *validator.Validate
	metrics   *metrics.Metrics
}

func NewXValidator(validate *validator.Validate, metrics *metrics.Metrics) IXValidator {
	for key, function := range valid {
		_ = validate.RegisterValidation(key, function)
	}

	return &XValidator{validator: validate, metrics: metrics}
}

func (x XValidator) ParseAndValidate(c *fiber.Ctx, out interface{}) *contract.ErrorResponse {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			c.Status(constants.GetHTTPStatus(constants.ErrCodeInvalidRequestBody))
			return &contract.ErrorResponse{
				Code:    constants.ErrCodeInvalidRequestBody,
				Message: constants.GetErrorMessage(constants.ErrCodeInvalidRequestBody),
			}
		}
	}

	errs := x.Validate(out)
	if len(errs) == 0 {
		return nil
	}

	fields := make([]string, 0, len(errs))
	for _, err := range errs {
		fields = append(fields, err.FailedField)
		x.metrics.RecordValidationError(err.FailedField, err.Tag)
	}

	c.Status(constants.GetHTTPStatus(constants.ErrCodeValidationFailed))
	return &contract.ErrorResponse{
		Code:    constants.ErrCodeValidationFailed,
		Message: constants.GetErrorMessage(constants.ErrCodeValidationFailed),
		Fields:  fields,
	}
}

func (x XValidator) Validate(data interface{}) []Error {
	var validationErrors []Error

	errs := x.validator.Struct(data)
	if errs != nil {
		validationErrs, ok := errs.(validator.ValidationErrors)
		if !ok {
			return []Error{{FailedField: "request", Tag: "invalid"}}
		}
		for _, err := range validationErrs {
			validationErrors = append(validationErrors, Error{
				FailedField: err.Field(),
				Tag:         err.Tag(),
				Value:       err.Value(),
			})
		}
	}
	return validationErrors
}
