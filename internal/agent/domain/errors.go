package domain

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Kernel errors
	CodeWakeUnauthorized     Code = "WAKE_UNAUTHORIZED"
	CodeGenerationRegression Code = "GENERATION_REGRESSION"
	CodeInvalidResetKind     Code = "INVALID_RESET_KIND"

	// Proof errors
	CodeProofTextEmpty     Code = "PROOF_TEXT_EMPTY"
	CodeQuestionTextEmpty  Code = "QUESTION_TEXT_EMPTY"
	CodeInvalidPriority    Code = "INVALID_QUESTION_PRIORITY"
	CodeChainHashMismatch  Code = "CHAIN_HASH_MISMATCH"
	CodeChainSeqGap        Code = "CHAIN_SEQ_GAP"
	CodeChainBadSignature  Code = "CHAIN_BAD_SIGNATURE"
	CodeChainBadEventHash  Code = "CHAIN_BAD_EVENT_HASH"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// Error is a domain error with a machine-readable code.
type Error struct {
	Code    Code
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "domain error"
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError constructs a domain error.
func NewError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the domain code from an error, or CodeUnknown.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr != nil {
		return domainErr.Code
	}
	return CodeUnknown
}
