// Package oaserrors provides structured error types for the oaschangelog library.
//
// Import path: github.com/erraggy/oaschangelog/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors.
//
// # Error Types
//
//   - [ShapeError]: a source or target document is not an object
//   - [VersionError]: a missing openapi version, or differing major versions
//   - [ReferenceError]: a local $ref pointer that cannot be resolved
//   - [ParseError]: YAML/JSON decoding failures
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrShape]: Matches any [ShapeError]
//   - [ErrVersion]: Matches any [VersionError]
//   - [ErrVersionMismatch]: Matches [VersionError] with Mismatch=true
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
//	result, err := differ.New().Diff(source, target)
//	if errors.Is(err, oaserrors.ErrVersionMismatch) {
//	    // The two documents belong to different major OpenAPI versions
//	}
//
// There is no partial-success mode: a caller either gets a complete report or
// one of these errors, and should treat the latter as "cannot compare these two
// versions".
package oaserrors
