package porter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/logging"
)

// contextCheckInterval is how often, in records, the import loop checks for
// cancellation.
const contextCheckInterval = 100

// RowValidator checks a row before it is processed. index is the 0-based
// position of the record after the header; blank lines count, lines inside
// a quoted field do not. Return nil to accept the row,
// a [Rejection] to report a specific message, or any other error to report
// "Row N: Invalid data".
type RowValidator func(row Row, index int) error

// RowProcessor performs the side effect for an accepted row.
type RowProcessor func(ctx context.Context, row Row) error

// ImportOptions holds the optional callbacks of an import run.
type ImportOptions struct {
	Validator RowValidator
	Processor RowProcessor
}

// Import parses src as CSV and feeds every non-blank data line through the
// validator and processor in opts. Row-level failures are collected in the
// result; only structural problems set [ImportResult.Err].
//
// Without a processor, rows that pass validation count as processed. If ctx
// ends mid-file the loop stops, keeps what it collected and records the
// cause in [ImportResult.Interrupted].
func Import(ctx context.Context, src Source, cols ColumnMap, opts ImportOptions) *ImportResult {
	start := time.Now()
	result := newImportResult()
	log := logging.WithFields(ctx, "file", src.Name())

	if !hasImportExtension(src.Name()) {
		return result.fail(fmt.Errorf("%w: %s", ErrUnsupportedFile, src.Name()))
	}

	rc, err := src.Open()
	if err != nil {
		return result.fail(fmt.Errorf("%w: %v", ErrOpenFile, err))
	}
	defer rc.Close()

	r := csv.NewReader(newCleanReader(rc))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return result.fail(ErrNoHeader)
	}
	if err != nil {
		return result.fail(fmt.Errorf("%w: %v", ErrNoHeader, err))
	}
	prevEnd := recordEndLine(r, header)

	for _, h := range header {
		result.Headers = append(result.Headers, strings.TrimSpace(h))
	}
	result.ColumnIndexes = cols.Bind(result.Headers)
	if len(result.ColumnIndexes) == 0 {
		return result.fail(fmt.Errorf("%w (expected: %s; found: %s)",
			ErrNoColumns,
			strings.Join(cols.Labels(), ", "),
			strings.Join(result.Headers, ", ")))
	}

	read, index := 0, -1
	for {
		if read%contextCheckInterval == 0 && ctx.Err() != nil {
			result.interrupt(read, ctx.Err())
			log.Warn("import interrupted", "records", read, "error", ctx.Err())
			break
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			read++
			index += parseErr.StartLine - prevEnd
			prevEnd = parseErr.Line
			line := LineNumber(index)
			result.reject(line, fmt.Sprintf("Row %d: %v", line, parseErr.Err), nil)
			continue
		}
		if err != nil {
			return result.fail(fmt.Errorf("read %s: %w", src.Name(), err))
		}

		read++
		start, _ := r.FieldPos(0)
		index += start - prevEnd
		prevEnd = recordEndLine(r, record)

		if isBlankRecord(record) {
			continue
		}

		row := buildRow(record, cols, result.ColumnIndexes)
		result.Rows = append(result.Rows, row)

		if opts.Validator != nil {
			if msg, ok := runValidator(opts.Validator, row, index); !ok {
				log.Debug("row rejected", "line", LineNumber(index), "reason", msg)
				result.reject(LineNumber(index), msg, row)
				continue
			}
		}

		if opts.Processor != nil {
			if err := runProcessor(ctx, opts.Processor, row); err != nil {
				msg := fmt.Sprintf("Row %d: %s", LineNumber(index), err.Error())
				log.Debug("row failed", "line", LineNumber(index), "error", err)
				result.reject(LineNumber(index), msg, row)
				continue
			}
		}

		result.Processed++
	}

	if read > 0 && result.Processed == 0 && result.Skipped == 0 && result.Interrupted == nil {
		result.Errors = append(result.Errors, fmt.Sprintf(
			"No rows were imported from %d line(s); the column mapping may not match the file (expected: %s; found: %s)",
			read, strings.Join(cols.Labels(), ", "), strings.Join(result.Headers, ", ")))
	}

	result.Success = result.Processed > 0
	log.Info("import finished",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

// recordEndLine returns the file line on which the record just read ends.
// The reader skips empty lines itself, so the gap between one record's end
// and the next one's start is the number of blank lines in between.
func recordEndLine(r *csv.Reader, record []string) int {
	last := len(record) - 1
	line, _ := r.FieldPos(last)
	return line + strings.Count(record[last], "\n")
}

// runValidator returns the error message for a rejected row.
func runValidator(v RowValidator, row Row, index int) (msg string, ok bool) {
	generic := fmt.Sprintf("Row %d: Invalid data", LineNumber(index))
	defer func() {
		if p := recover(); p != nil {
			msg, ok = generic, false
		}
	}()

	err := v(row, index)
	if err == nil {
		return "", true
	}
	var rej Rejection
	if errors.As(err, &rej) {
		return string(rej), false
	}
	return generic, false
}

// runProcessor converts a processor panic into an error for that row.
func runProcessor(ctx context.Context, p RowProcessor, row Row) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return p(ctx, row)
}
