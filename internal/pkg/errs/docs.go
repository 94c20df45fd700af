// Package errs provides standardized error types for the tracking application.
//
// Each error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The sentinels let the transport layer classify failures with errors.Is
// without knowing which component produced them.
package errs
