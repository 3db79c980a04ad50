package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error codes for the receiving and reconciliation core. Every rejection the
// engine produces carries one of these codes so callers can map them to
// transport-level responses without string matching on messages.
const (
	CodeNotFound               = "NOT_FOUND"
	CodeDetailNotFound         = "DETAIL_NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInvalidState           = "INVALID_STATE"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeEmptyReceivingBatch    = "EMPTY_RECEIVING_BATCH"
	CodeOverReceiving          = "OVER_RECEIVING"
	CodeSerializedQuantityOne  = "SERIALIZED_QUANTITY_MUST_BE_ONE"
	CodeMissingSerial          = "MISSING_SERIAL"
	CodeUnexpectedSerial       = "UNEXPECTED_SERIAL"
	CodeDuplicateSerialOrImei  = "DUPLICATE_SERIAL_OR_IMEI"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidState           = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrConcurrentModification = NewDomainError(CodeConcurrentModification, "Resource was modified by another process")
)

// CodeOf returns the domain error code of err, or empty string if err is not
// a DomainError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
