package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes used across services. The boundary layer maps them to HTTP
// statuses in mapServiceError.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeConflict            = "CONFLICT"
	CodeSignatureInvalid    = "SIGNATURE_INVALID"
	CodeGatewayError        = "GATEWAY_ERROR"
	CodeInsufficientRewards = "INSUFFICIENT_REWARDS"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeInvalidRewardType   = "INVALID_REWARD_TYPE"
	CodeInternal            = "INTERNAL_ERROR"
)

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewSignatureInvalidError marks a payment callback whose signature did not
// match the recomputed digest. Callers must not write any state after it.
func NewSignatureInvalidError() *AppError {
	return &AppError{
		Code:    CodeSignatureInvalid,
		Message: "Transaction is not legitimate",
	}
}

func NewGatewayError(err error) *AppError {
	return &AppError{
		Code:    CodeGatewayError,
		Message: "Failed to place order. Bad request",
		Err:     err,
	}
}

func NewInsufficientRewardsError() *AppError {
	return &AppError{
		Code:    CodeInsufficientRewards,
		Message: "Not enough rewards",
	}
}

func NewInsufficientCreditsError() *AppError {
	return &AppError{
		Code:    CodeInsufficientCredits,
		Message: "Not enough AI credits",
	}
}

func NewInvalidRewardTypeError() *AppError {
	return &AppError{
		Code:    CodeInvalidRewardType,
		Message: "Please provide a correct reward type. ex. [like | comment | blog]",
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
