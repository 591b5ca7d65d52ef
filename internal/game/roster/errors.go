package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexOutOfRange matches every *IndexError via errors.Is.
	ErrIndexOutOfRange = errors.New("roster index out of range")
	// ErrIO matches every *IOError via errors.Is.
	ErrIO = errors.New("roster I/O failure")
	// ErrDecode matches every *DecodeError via errors.Is.
	ErrDecode = errors.New("invalid roster document")

	errMissingField = errors.New("missing required field")
)

// IndexError reports a positional index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for roster of %d", e.Index, e.Len)
}

// Is reports whether target is ErrIndexOutOfRange.
func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// IOError reports a failure reading or writing a persisted roster.
type IOError struct {
	Op   string // "read" or "write"
	Path string // empty for anonymous readers and writers
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("roster %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("roster %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// DecodeError reports persisted content that does not match the roster schema.
//
// Record is the zero-based index of the offending record, or -1 when the
// document as a whole is malformed. Field is empty when no single field is at fault.
type DecodeError struct {
	Record int
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Record < 0:
		return fmt.Sprintf("decoding roster: %v", e.Err)
	case e.Field == "":
		return fmt.Sprintf("decoding roster record %d: %v", e.Record, e.Err)
	default:
		return fmt.Sprintf("decoding roster record %d field %q: %v", e.Record, e.Field, e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
