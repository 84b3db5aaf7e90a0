package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for MarketBridge engine errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Database error codes
const (
	DB_OPEN_FAILED      ErrorCode = "DB_OPEN_FAILED"
	DB_MIGRATION_FAILED ErrorCode = "DB_MIGRATION_FAILED"
	DB_QUERY_FAILED     ErrorCode = "DB_QUERY_FAILED"
)

// Collaboration error codes
const (
	CONTEXT_LOAD_FAILED      ErrorCode = "CONTEXT_LOAD_FAILED"
	AGENT_ANALYSIS_FAILED    ErrorCode = "AGENT_ANALYSIS_FAILED"
	AGENT_NEGOTIATION_FAILED ErrorCode = "AGENT_NEGOTIATION_FAILED"
	DECISION_FAILED          ErrorCode = "DECISION_FAILED"
	PERSISTENCE_FAILED       ErrorCode = "PERSISTENCE_FAILED"
)

// Text generation error codes
const (
	LLM_AUTH_FAILED       ErrorCode = "LLM_AUTH_FAILED"
	LLM_GENERATION_FAILED ErrorCode = "LLM_GENERATION_FAILED"
	LLM_PROVIDER_UNKNOWN  ErrorCode = "LLM_PROVIDER_UNKNOWN"
)

// BridgeError represents a structured error with error code, message, and
// optional cause. It supports error wrapping and retryability hints.
type BridgeError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *BridgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
func (e *BridgeError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
func (e *BridgeError) Is(target error) bool {
	var bridgeErr *BridgeError
	if errors.As(target, &bridgeErr) {
		return e.Code == bridgeErr.Code
	}
	return false
}

// NewError creates a BridgeError with the given code and message.
func NewError(code ErrorCode, message string) *BridgeError {
	return &BridgeError{Code: code, Message: message}
}

// WrapError creates a BridgeError wrapping a cause.
func WrapError(code ErrorCode, message string, cause error) *BridgeError {
	return &BridgeError{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether err carries the given error code anywhere in its chain.
func IsCode(err error, code ErrorCode) bool {
	var bridgeErr *BridgeError
	for errors.As(err, &bridgeErr) {
		if bridgeErr.Code == code {
			return true
		}
		err = bridgeErr.Cause
		if err == nil {
			break
		}
	}
	return false
}
