package porter

import (
	"fmt"
	"strings"
)

// Failure records one rejected or failed row.
type Failure struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
	Row     Row    `json:"row"`
}

// ImportResult is the outcome of one import run.
type ImportResult struct {
	// Success is true when at least one row was processed and no fatal
	// error occurred.
	Success   bool     `json:"success"`
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`

	// Rows holds every non-blank row that was attempted.
	Rows          []Row          `json:"rows"`
	Headers       []string       `json:"headers"`
	ColumnIndexes map[string]int `json:"columnIndexes"`

	// Failures pairs each row-level error with its line and data.
	Failures []Failure `json:"failures"`

	// Err is the fatal error that aborted the run, if any.
	Err error `json:"-"`

	// Interrupted is the context error that stopped the row loop early.
	// Counters, rows and row errors collected before it are kept.
	Interrupted error `json:"-"`
}

func newImportResult() *ImportResult {
	return &ImportResult{
		Errors:        []string{},
		Rows:          []Row{},
		Headers:       []string{},
		ColumnIndexes: map[string]int{},
		Failures:      []Failure{},
	}
}

// fail marks the run as aborted by err.
func (r *ImportResult) fail(err error) *ImportResult {
	r.Success = false
	r.Err = err
	r.Errors = []string{err.Error()}
	return r
}

// interrupt records that the loop stopped after read records.
func (r *ImportResult) interrupt(read int, err error) {
	r.Interrupted = err
	r.Errors = append(r.Errors, fmt.Sprintf("Import stopped after %d row(s): %v", read, err))
}

func (r *ImportResult) reject(line int, msg string, row Row) {
	r.Skipped++
	r.Errors = append(r.Errors, msg)
	r.Failures = append(r.Failures, Failure{Line: line, Message: msg, Row: row})
}

// Summary is a one-line description suitable for flash messages and logs.
func (r *ImportResult) Summary() string {
	if r.Err != nil {
		return "Import failed: " + r.Err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d row(s) imported", r.Processed)
	if r.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", r.Skipped)
	}
	if r.Interrupted != nil {
		b.WriteString(", stopped early")
	}
	return b.String()
}
