package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFileNotFound is returned when no input file could be located.
	ErrFileNotFound = errors.New("input file not found")

	// ErrInvalidArgument is returned for out-of-range arguments such as a
	// non-positive top-N request.
	ErrInvalidArgument = errors.New("invalid argument")
)

// LoadError reports a file that exists but cannot be read as the expected
// table: unreadable, malformed CSV, no data rows or missing columns.
type LoadError struct {
	Path    string
	Missing []string // required columns absent from the header
	Err     error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load %s", e.Path)
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing required columns [%s]", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError reports a field that cannot be converted to its semantic type.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s line %d: column %q: invalid value %q: %v", e.Path, e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
