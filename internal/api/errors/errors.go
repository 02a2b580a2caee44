// Package errors provides error handling and HTTP status code mapping.
package errors

import (
	"errors"
	"net/http"

	"github.com/remiblancher/cryptosuite/internal/api/dto"
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// Error codes for API responses.
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
	CodeUnknownScope     = "UNKNOWN_SCOPE"
	CodeUnknownAlgorithm = "UNKNOWN_ALGORITHM"
	CodeUnknownKind      = "UNKNOWN_TOKEN_KIND"
	CodeUnknownPosition  = "UNKNOWN_DIGEST_POSITION"
	CodeEmptyChain       = "EMPTY_CHAIN"
)

// errorMappings lists the domain errors with a dedicated response, first
// match wins.
var errorMappings = []struct {
	target error
	status int
	code   string
}{
	{policy.ErrUnknownScope, http.StatusNotFound, CodeUnknownScope},
	{validation.ErrUnknownTokenKind, http.StatusBadRequest, CodeUnknownKind},
	{validation.ErrUnknownPosition, http.StatusBadRequest, CodeUnknownPosition},
	{validation.ErrEmptyChain, http.StatusBadRequest, CodeEmptyChain},
	{dto.ErrChainEncoding, http.StatusBadRequest, CodeInvalidRequest},
	{crypto.ErrUnknownAlgorithm, http.StatusUnprocessableEntity, CodeUnknownAlgorithm},
}

// MapError maps an internal error to an HTTP status code and APIError.
// Unmapped errors become a 500 without leaking their message.
func MapError(err error) (int, *dto.APIError) {
	if err == nil {
		return http.StatusOK, nil
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, &dto.APIError{Code: m.code, Message: err.Error()}
		}
	}
	return http.StatusInternalServerError, &dto.APIError{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeInvalidRequest,
		Message: message,
	}
}

// NewNotFound creates a not found error.
func NewNotFound(resource, id string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeNotFound,
		Message: resource + " not found",
		Details: map[string]string{"id": id},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, details map[string]string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
	}
}
