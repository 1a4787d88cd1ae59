// Package zid - errors.go provides the error taxonomy for parsing and
// generation.
//
// Sentinel errors support errors.Is() checks; the structured types carry the
// offending input for logging and can be extracted with errors.As() or the
// GetXError helpers.

package zid

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors returned (possibly wrapped) by parsing and generation.
var (
	// ErrInvalidZid is returned when an input fails the fixed length,
	// alphabet or separator-position checks of the text schema, or when a
	// byte input is not exactly 15 bytes.
	ErrInvalidZid = errors.New("invalid zid")

	// ErrValueOutOfRange is returned when a syntactically valid text form
	// decodes to an integer above the maximum representable value, i.e. the
	// string sorts after the maximum literal. Such inputs are rejected, never
	// clamped.
	ErrValueOutOfRange = errors.New("zid value out of range")

	// ErrTimeOutOfRange is returned when a timestamp handed to GenerateAt
	// falls outside [0001-01-01T00:00:00Z, 10000-01-01T00:00:00Z).
	ErrTimeOutOfRange = errors.New("timestamp outside supported range")

	// ErrInvalidUUID is returned when a UUID does not carry the fixed
	// version/variant nibbles a Zid-derived UUID must have.
	ErrInvalidUUID = errors.New("uuid does not encode a zid")

	// ErrContextCanceled is returned when the context is canceled while the
	// generator waits for the clock to advance.
	ErrContextCanceled = errors.New("context canceled")
)

// ParseError describes why an input was rejected as a Zid.
//
// It carries the raw offending input so callers can log it verbatim.
//
// Example usage:
//
//	if _, err := zid.Parse(s); err != nil {
//	    var perr *zid.ParseError
//	    if errors.As(err, &perr) {
//	        log.Printf("bad id %q: %s", perr.Input, perr.Reason)
//	    }
//	}
type ParseError struct {
	// Input is the raw rejected input, verbatim.
	Input string

	// Reason is a human-readable explanation of the rejection.
	Reason string

	// err is the sentinel this error unwraps to
	// (ErrInvalidZid or ErrValueOutOfRange).
	err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid zid %q: %s", e.Input, e.Reason)
}

// Unwrap returns the underlying sentinel for errors.Is() compatibility.
func (e *ParseError) Unwrap() error {
	return e.err
}

// TimeRangeError reports a timestamp outside the supported range.
type TimeRangeError struct {
	// Time is the rejected instant.
	Time time.Time
}

// Error implements the error interface.
func (e *TimeRangeError) Error() string {
	return fmt.Sprintf("timestamp %s outside supported range [0001-01-01, 10000-01-01)", e.Time.Format(time.RFC3339Nano))
}

// Unwrap returns the underlying sentinel for errors.Is() compatibility.
func (e *TimeRangeError) Unwrap() error {
	return ErrTimeOutOfRange
}

// UUIDError reports a UUID that does not represent a Zid.
type UUIDError struct {
	// UUID is the rejected value.
	UUID uuid.UUID
}

// Error implements the error interface.
func (e *UUIDError) Error() string {
	return fmt.Sprintf("uuid %s does not encode a zid (version/variant nibbles must be 8)", e.UUID)
}

// Unwrap returns the underlying sentinel for errors.Is() compatibility.
func (e *UUIDError) Unwrap() error {
	return ErrInvalidUUID
}

// IsParseError checks if an error is or wraps a ParseError.
func IsParseError(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr)
}

// GetParseError extracts the ParseError from an error chain.
//
// Returns the ParseError and true if found, nil and false otherwise.
func GetParseError(err error) (*ParseError, bool) {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr, true
	}
	return nil, false
}

// IsTimeRangeError checks if an error is or wraps a TimeRangeError.
func IsTimeRangeError(err error) bool {
	var terr *TimeRangeError
	return errors.As(err, &terr)
}

// GetTimeRangeError extracts the TimeRangeError from an error chain.
func GetTimeRangeError(err error) (*TimeRangeError, bool) {
	var terr *TimeRangeError
	if errors.As(err, &terr) {
		return terr, true
	}
	return nil, false
}

// IsUUIDError checks if an error is or wraps a UUIDError.
func IsUUIDError(err error) bool {
	var uerr *UUIDError
	return errors.As(err, &uerr)
}

// GetUUIDError extracts the UUIDError from an error chain.
func GetUUIDError(err error) (*UUIDError, bool) {
	var uerr *UUIDError
	if errors.As(err, &uerr) {
		return uerr, true
	}
	return nil, false
}

// newParseError creates a ParseError unwrapping to ErrInvalidZid.
func newParseError(input, reason string) *ParseError {
	return &ParseError{Input: input, Reason: reason, err: ErrInvalidZid}
}

// newRangeError creates a ParseError unwrapping to ErrValueOutOfRange.
func newRangeError(input string) *ParseError {
	return &ParseError{
		Input:  input,
		Reason: "sorts after the maximum representable value",
		err:    ErrValueOutOfRange,
	}
}
