package porter

import (
	"errors"
	"fmt"
)

// Fatal import errors. They end the run before any row is processed.
var (
	ErrUnsupportedFile = errors.New("unsupported file type, expected .csv or .txt")
	ErrOpenFile        = errors.New("cannot open file for reading")
	ErrNoHeader        = errors.New("file has no header row")
	ErrNoColumns       = errors.New("no columns could be mapped from the file header")
)

// Export and configuration errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrEmptyColumns      = errors.New("export needs at least one column")
	ErrInvalidColumns    = errors.New("invalid column map")
	ErrUnknownView       = errors.New("unknown pdf view")
	ErrNoStorage         = errors.New("exporter has no storage configured")
)

// Rejection is a validator verdict whose text is reported as-is.
type Rejection string

func (r Rejection) Error() string { return string(r) }

// RejectRow builds a Rejection prefixed with the display line of the row at
// index, e.g. "Row 4: Email is a required field".
func RejectRow(index int, format string, args ...any) error {
	return Rejection(fmt.Sprintf("Row %d: ", LineNumber(index)) + fmt.Sprintf(format, args...))
}

// LineNumber converts a 0-based data row index to the 1-based line it
// occupies in the file, counting the header line.
func LineNumber(index int) int {
	return index + 2
}
