package catalog

import (
	"testing"
	"time"
)

// ============================================================================
// ToPgNumeric Tests
// ============================================================================

func TestToPgNumeric(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"integer", "42", true},
		{"decimal", "87.5", true},
		{"negative", "-3", true},
		{"thousands separator", "1,250", true},
		{"currency prefix", "Rs. 1,500", true},
		{"dollar", "$12.00", true},
		{"accounting negative", "(45.10)", true},
		{"scientific notation unsupported", "1e3", false},
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"letters", "abc", false},
		{"two dots", "1.2.3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgNumeric(tt.input)
			if got.Valid != tt.valid {
				t.Errorf("ToPgNumeric(%q).Valid = %v, want %v", tt.input, got.Valid, tt.valid)
			}
		})
	}
}

func TestToPgInt8(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		valid bool
	}{
		{"3", 3, true},
		{"3.0", 3, true},
		{"1,000", 1000, true},
		{"-2", -2, true},
		{"3.5", 0, false},
		{"three", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got := ToPgInt8(tt.input)
		if got.Valid != tt.valid || got.Int64 != tt.want {
			t.Errorf("ToPgInt8(%q) = {%d %v}, want {%d %v}", tt.input, got.Int64, got.Valid, tt.want, tt.valid)
		}
	}
}

// ============================================================================
// ToPgDate Tests
// ============================================================================

func TestToPgDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-15", "2024-03-15"},
		{"2024/03/15", "2024-03-15"},
		{"15/03/2024", "2024-03-15"},
		{"15-03-2024", "2024-03-15"},
		{"15.03.2024", "2024-03-15"},
		{"5/3/2024", "2024-03-05"},
		{"15 Mar 2024", "2024-03-15"},
		{"15-Mar-2024", "2024-03-15"},
		{"Mar 15, 2024", "2024-03-15"},
		{"March 15, 2024", "2024-03-15"},
		{"20240315", "2024-03-15"},
		{"15/03/24", "2024-03-15"},
		{"", ""},
		{"not a date", ""},
		{"32/01/2024", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ToPgDate(tt.input)
			if tt.want == "" {
				if got.Valid {
					t.Errorf("ToPgDate(%q) should be invalid, got %v", tt.input, got.Time)
				}
				return
			}
			if !got.Valid {
				t.Fatalf("ToPgDate(%q) invalid, want %s", tt.input, tt.want)
			}
			if s := got.Time.Format("2006-01-02"); s != tt.want {
				t.Errorf("ToPgDate(%q) = %s, want %s", tt.input, s, tt.want)
			}
		})
	}
}

func TestToPgDate_TwoDigitYearPivot(t *testing.T) {
	future := time.Now().Year() + TwoDigitYearPivot + 5
	input := "01/01/" + time.Date(future, 1, 1, 0, 0, 0, 0, time.UTC).Format("06")

	got := ToPgDate(input)
	if !got.Valid {
		t.Fatalf("ToPgDate(%q) invalid", input)
	}
	if got.Time.Year() != future-100 {
		t.Errorf("ToPgDate(%q).Year = %d, want %d", input, got.Time.Year(), future-100)
	}
}

// ============================================================================
// ToPgBool / ToPgText / CleanCell Tests
// ============================================================================

func TestToPgBool(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		valid bool
	}{
		{"yes", true, true},
		{"Y", true, true},
		{"TRUE", true, true},
		{"1", true, true},
		{"active", true, true},
		{"no", false, true},
		{"f", false, true},
		{"0", false, true},
		{"Inactive", false, true},
		{"maybe", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		got := ToPgBool(tt.input)
		if got.Valid != tt.valid || got.Bool != tt.want {
			t.Errorf("ToPgBool(%q) = {%v %v}, want {%v %v}", tt.input, got.Bool, got.Valid, tt.want, tt.valid)
		}
	}
}

func TestToPgText(t *testing.T) {
	if got := ToPgText("  hello "); !got.Valid || got.String != "hello" {
		t.Errorf("ToPgText trimmed = %+v", got)
	}
	if got := ToPgText("   "); got.Valid {
		t.Errorf("ToPgText of blank should be invalid, got %+v", got)
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  plain  ", "plain"},
		{`="03001234567"`, "03001234567"},
		{"=42", "42"},
		{`"quoted"`, "quoted"},
		{"'single'", "single"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.input); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
