package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrShape indicates a document is not an object.
	ErrShape = errors.New("shape error")

	// ErrVersion indicates a missing or non-string openapi version.
	ErrVersion = errors.New("version error")

	// ErrVersionMismatch indicates the source and target major versions differ.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// Side names the document an error belongs to.
type Side string

const (
	// SideSource is the older document of a comparison.
	SideSource Side = "source"
	// SideTarget is the newer document of a comparison.
	SideTarget Side = "target"
)

// ShapeError reports a document that is not an object (including null).
type ShapeError struct {
	// Side is the offending document, empty when unknown
	Side Side
	// Value is the rejected value
	Value any
}

// Error returns a human-readable error message.
func (e *ShapeError) Error() string {
	if e.Side == "" {
		return "schema must be an object"
	}
	return string(e.Side) + " schema must be an object"
}

// Unwrap returns nil as ShapeError has no underlying cause.
func (e *ShapeError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ShapeError) Is(target error) bool {
	return target == ErrShape
}

// VersionError reports a problem with the openapi version field.
// When Mismatch is false the version of Side is missing or not a string;
// when Mismatch is true the major components of both versions differ.
type VersionError struct {
	// Side is the offending document (unset for mismatches)
	Side Side
	// Mismatch is true when both versions exist but their majors differ
	Mismatch bool
	// SourceVersion is the source openapi version (mismatches only)
	SourceVersion string
	// TargetVersion is the target openapi version (mismatches only)
	TargetVersion string
}

// Error returns a human-readable error message.
func (e *VersionError) Error() string {
	if e.Mismatch {
		return "source and target schemas must have the same major version"
	}
	if e.Side == "" {
		return "schema version must be a string"
	}
	return string(e.Side) + " schema version must be a string"
}

// Unwrap returns nil as VersionError has no underlying cause.
func (e *VersionError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
// Mismatches additionally match ErrVersionMismatch.
func (e *VersionError) Is(target error) bool {
	if target == ErrVersion {
		return true
	}
	return target == ErrVersionMismatch && e.Mismatch
}

// ReferenceError represents a failure to resolve a local $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "invalid ref: " + e.Ref
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ParseError represents a failure to decode a document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
