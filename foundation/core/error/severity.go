// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors to drive log levels and
//              exit-status decisions.
// Author: msto63
// Version: v0.1.1
// Created: 2025-01-24
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-19 v0.1.1: Severity mapping for analysis codes

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a problem in user input, e.g. a source diagnostic
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium

	// SeverityHigh indicates a failure of a required resource (database, config file)
	SeverityHigh

	// SeverityCritical indicates an error that makes the program unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeInternal:
		return SeverityCritical

	case CodeDatabaseError, CodeConfigError, CodeInvalidConfig:
		return SeverityHigh

	case CodeLexical, CodeAssignment, CodeSemantic,
		CodeInvalidInput, CodeNotFound, CodeValidationFailed, CodeValueOutOfRange:
		return SeverityLow

	default:
		return SeverityMedium
	}
}
