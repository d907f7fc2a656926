package core

// error_messages.go maps technical errors to messages users can act on.
// Every message carries a code that users can quote to support.
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Unsupported file type       (porter.ErrUnsupportedFile)
//	IMP002 - File could not be opened    (porter.ErrOpenFile)
//	IMP003 - File has no header row      (porter.ErrNoHeader)
//	IMP004 - No columns matched          (porter.ErrNoColumns)
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Unsupported export format   (porter.ErrUnsupportedFormat)
//	EXP002 - Unknown PDF layout          (porter.ErrUnknownView)
//	EXP003 - Nothing to export           (porter.ErrEmptyColumns)
//	EXP004 - Export storage unavailable  (porter.ErrNoStorage, "store exports")
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large             ("file too large", "request body too large")
//	FILE002 - No file provided           ("no file provided")
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate record             ("duplicate key", "violates unique")
//	DB002 - Referenced record missing    ("violates foreign key")
//	DB003 - Value missing                ("violates not-null")
//	DB004 - Database unreachable         ("connection refused", "connection reset")
//	DB005 - Operation timed out          ("timeout", context.DeadlineExceeded)
//	DB006 - Database busy                ("deadlock")
//
// # Job Errors (JOB001-JOB099)
//
//	JOB001 - Too many jobs running       (ErrTooManyJobs)
//	JOB002 - Import run not found        (ErrRunNotFound)
//	JOB003 - Request cancelled           (context.Canceled)
//
// # Entity Errors (ENT001-ENT099)
//
//	ENT001 - Unknown entity              (catalog.ErrUnknownEntity)
//
// # Other
//
//	RATE001 - Too many requests          ("rate limit")
//	ERR000  - Anything else; check the logs for the technical error

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

// UserMessage is an error as shown to users.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type sentinelMessage struct {
	target error
	msg    UserMessage
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// Sentinels are checked before text patterns; order matters within each list.
var sentinelMessages = []sentinelMessage{
	{porter.ErrUnsupportedFile, UserMessage{
		Message: "Only .csv and .txt files can be imported",
		Action:  "Save the sheet as CSV and upload it again",
		Code:    "IMP001",
	}},
	{porter.ErrOpenFile, UserMessage{
		Message: "The file could not be opened",
		Action:  "Check the file and upload it again",
		Code:    "IMP002",
	}},
	{porter.ErrNoHeader, UserMessage{
		Message: "The file has no header row",
		Action:  "Download the template and copy your data under its header",
		Code:    "IMP003",
	}},
	{porter.ErrNoColumns, UserMessage{
		Message: "None of the file's columns match this import",
		Action:  "Use the column names from the template",
		Code:    "IMP004",
	}},
	{porter.ErrUnsupportedFormat, UserMessage{
		Message: "This export format is not supported",
		Action:  "Choose PDF, Excel or CSV",
		Code:    "EXP001",
	}},
	{porter.ErrUnknownView, UserMessage{
		Message: "The requested PDF layout does not exist",
		Action:  "Use the default layout",
		Code:    "EXP002",
	}},
	{porter.ErrEmptyColumns, UserMessage{
		Message: "There are no columns to export",
		Action:  "Contact support",
		Code:    "EXP003",
	}},
	{porter.ErrNoStorage, UserMessage{
		Message: "Export storage is not available",
		Action:  "Please try again later or contact support",
		Code:    "EXP004",
	}},
	{ErrTooManyJobs, UserMessage{
		Message: "Too many imports and exports are running",
		Action:  "Please wait a moment and try again",
		Code:    "JOB001",
	}},
	{ErrRunNotFound, UserMessage{
		Message: "That import is no longer available",
		Action:  "Import results are kept for a limited time; run the import again",
		Code:    "JOB002",
	}},
	{context.Canceled, UserMessage{
		Message: "The request was cancelled",
		Action:  "Please try again",
		Code:    "JOB003",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB005",
	}},
	{catalog.ErrUnknownEntity, UserMessage{
		Message: "Unknown import/export type",
		Action:  "Pick one of the listed entities",
		Code:    "ENT001",
	}},
}

var errorPatterns = []errorPattern{
	// Database constraints
	{"duplicate key", UserMessage{
		Message: "A record with the same key already exists",
		Action:  "Remove the duplicate rows or update the existing record",
		Code:    "DB001",
	}},
	{"violates unique", UserMessage{
		Message: "A record with the same key already exists",
		Action:  "Remove the duplicate rows or update the existing record",
		Code:    "DB001",
	}},
	{"violates foreign key", UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Import the departments or subjects this row refers to first",
		Code:    "DB002",
	}},
	{"violates not-null", UserMessage{
		Message: "A required value is missing",
		Action:  "Fill in every required column",
		Code:    "DB003",
	}},

	// Database connectivity
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB005",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB006",
	}},

	// Files
	{"file too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{"request body too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller files",
		Code:    "FILE001",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV file to import",
		Code:    "FILE002",
	}},
	{"store exports", UserMessage{
		Message: "Export storage is not available",
		Action:  "Please try again later or contact support",
		Code:    "EXP004",
	}},

	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should look up the technical error in the logs.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Wrapped sentinel errors are matched first, then the error text is
// searched case-insensitively for known patterns.
//
// Example:
//
//	msg := MapError(fmt.Errorf("load: %w", porter.ErrNoHeader))
//	// msg.Code == "IMP003"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.target) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with the message shown for it.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
