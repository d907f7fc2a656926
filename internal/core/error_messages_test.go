package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/catalog"
	"github.com/TheKhanSoft/tks-testing-solutions-sub000/internal/porter"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error returns empty", nil, ""},
		{"wrapped unsupported file", fmt.Errorf("%w: roster.xlsx", porter.ErrUnsupportedFile), "IMP001"},
		{"no header", porter.ErrNoHeader, "IMP003"},
		{"no columns", fmt.Errorf("%w (expected: Name)", porter.ErrNoColumns), "IMP004"},
		{"unsupported format", fmt.Errorf("%w: \"docx\"", porter.ErrUnsupportedFormat), "EXP001"},
		{"unknown view", porter.ErrUnknownView, "EXP002"},
		{"too many jobs", ErrTooManyJobs, "JOB001"},
		{"run not found", fmt.Errorf("%w: abc", ErrRunNotFound), "JOB002"},
		{"cancelled", fmt.Errorf("import: %w", context.Canceled), "JOB003"},
		{"deadline", context.DeadlineExceeded, "DB005"},
		{"unknown entity", fmt.Errorf("%w: \"x\"", catalog.ErrUnknownEntity), "ENT001"},
		{"duplicate key", errors.New(`ERROR: duplicate key value violates unique constraint "candidates_email_key"`), "DB001"},
		{"foreign key", errors.New("insert or update violates foreign key constraint"), "DB002"},
		{"not null", errors.New(`null value in column "name" violates not-null constraint`), "DB003"},
		{"connection refused", errors.New("dial tcp: connection refused"), "DB004"},
		{"timeout text", errors.New("i/o timeout"), "DB005"},
		{"body too large", errors.New("http: request body too large"), "FILE001"},
		{"rate limit", errors.New("rate limit exceeded"), "RATE001"},
		{"case insensitive", errors.New("DEADLOCK detected"), "DB006"},
		{"fallback", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(ErrTooManyJobs)
	if !strings.Contains(got, "(Code: JOB001)") {
		t.Errorf("FormatUserError = %q, want code JOB001", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(porter.ErrNoHeader) {
		t.Error("ErrNoHeader should be user facing")
	}
	if IsUserFacing(errors.New("mystery")) {
		t.Error("unknown errors should not be user facing")
	}
}

func TestUserError(t *testing.T) {
	if NewUserError(nil) != nil {
		t.Error("NewUserError(nil) should be nil")
	}

	tech := fmt.Errorf("upsert candidates: %w", errors.New("duplicate key value"))
	ue := NewUserError(tech)
	if ue.Error() != "A record with the same key already exists" {
		t.Errorf("Error() = %q", ue.Error())
	}
	if !errors.Is(ue, tech) {
		t.Error("UserError should unwrap to the technical error")
	}
	if ue.User.Code != "DB001" {
		t.Errorf("Code = %q, want DB001", ue.User.Code)
	}
}
