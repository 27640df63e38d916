// File: codes.go
// Title: Error Code Definitions
// Description: Defines standardized error codes used to classify analysis
//              diagnostics and driver failures.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-19 v0.2.0: Analysis codes replace the TCOL codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"

	// Source analysis
	CodeLexical    Code = "LEXICAL"
	CodeAssignment Code = "ASSIGNMENT"
	CodeSemantic   Code = "SEMANTIC"

	// Storage
	CodeDatabaseError Code = "DATABASE_ERROR"

	// Configuration and environment
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeValueOutOfRange  Code = "VALUE_OUT_OF_RANGE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput, CodeTimeout,
		CodeLexical, CodeAssignment, CodeSemantic,
		CodeDatabaseError,
		CodeConfigError, CodeInvalidConfig,
		CodeValidationFailed, CodeValueOutOfRange:
		return true
	default:
		return false
	}
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeLexical, CodeAssignment, CodeSemantic:
		return "analysis"
	case CodeDatabaseError:
		return "database"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeValueOutOfRange:
		return "validation"
	default:
		return "generic"
	}
}

// IsAnalysis reports whether the code classifies a source diagnostic
func (c Code) IsAnalysis() bool {
	return c.Category() == "analysis"
}
