package dto

import (
	"net/http"

	"github.com/warehouse/backend/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation-shaped rejections map to 400, state and uniqueness conflicts
// to 409, missing resources to 404.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,

	shared.CodeNotFound:       http.StatusNotFound,
	shared.CodeDetailNotFound: http.StatusNotFound,

	shared.CodeInvalidInput:          http.StatusBadRequest,
	shared.CodeEmptyReceivingBatch:   http.StatusBadRequest,
	shared.CodeMissingSerial:         http.StatusBadRequest,
	shared.CodeUnexpectedSerial:      http.StatusBadRequest,
	shared.CodeSerializedQuantityOne: http.StatusBadRequest,

	shared.CodeAlreadyExists:          http.StatusConflict,
	shared.CodeInvalidState:           http.StatusConflict,
	shared.CodeInvalidTransition:      http.StatusConflict,
	shared.CodeOverReceiving:          http.StatusConflict,
	shared.CodeDuplicateSerialOrImei:  http.StatusConflict,
	shared.CodeConcurrentModification: http.StatusConflict,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Returns 500 Internal Server Error if the error code is not found.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
