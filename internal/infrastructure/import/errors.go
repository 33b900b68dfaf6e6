package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// Whole-file problems. Every error ReadLedgerRows returns is one of these,
// a *MissingColumnsError or a *MalformedRowError, except I/O failures.
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file missing header row")
	ErrNoDataRows      = errors.New("CSV file contains no data rows")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
)

type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "CSV file missing required columns: " + strings.Join(e.Columns, ", ")
}

// MalformedRowError is a record the CSV reader could not split into fields,
// usually a stray quote. Line is the file line the record starts on.
type MalformedRowError struct {
	Line int
	Err  error
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }

// IsFileError reports whether err describes an unusable file as a whole
// rather than an I/O failure.
func IsFileError(err error) bool {
	var missing *MissingColumnsError
	var malformed *MalformedRowError
	switch {
	case err == nil:
		return false
	case errors.As(err, &missing), errors.As(err, &malformed):
		return true
	}
	for _, sentinel := range []error{ErrEmptyFile, ErrInvalidEncoding, ErrMissingHeader, ErrNoDataRows, ErrFileTooLarge} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
