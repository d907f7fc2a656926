package porter

import (
	"fmt"
	"strings"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var formatAliases = map[string]Format{
	"csv":          FormatCSV,
	"xlsx":         FormatXLSX,
	"excel":        FormatXLSX,
	"excel (xlsx)": FormatXLSX,
	"pdf":          FormatPDF,
}

// ParseFormat normalizes a user supplied format name.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Ext returns the file extension without the dot.
func (f Format) Ext() string { return string(f) }

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// UnknownFormatPolicy decides what Export does with an unrecognized format.
type UnknownFormatPolicy int

const (
	// PolicyError fails the export with ErrUnsupportedFormat.
	PolicyError UnknownFormatPolicy = iota
	// PolicyFallbackCSV exports as CSV instead.
	PolicyFallbackCSV
)

// ParseUnknownFormatPolicy accepts "error" or "csv".
func ParseUnknownFormatPolicy(s string) (UnknownFormatPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return PolicyError, nil
	case "csv":
		return PolicyFallbackCSV, nil
	}
	return PolicyError, fmt.Errorf("unknown format policy %q (want error or csv)", s)
}
