package middleware

import (
	"strings"
	"testing"
)

func TestValidateReviewType(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"full", false},
		{"security", false},
		{"quick", false},
		{"FULL", false},
		{"deep", true},
	}
	for _, tt := range tests {
		err := ValidateReviewType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateReviewType(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"ok", "x := 1", false},
		{"empty", "", true},
		{"whitespace only", "   \n\t", true},
		{"at limit", strings.Repeat("a", maxCodeBytes), false},
		{"over limit", strings.Repeat("a", maxCodeBytes+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"app.py", false},
		{"src/app.py", false},
		{"../etc/passwd", true},
		{"a\x00b.py", true},
	}
	for _, tt := range tests {
		err := ValidateFilename(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFilename(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	got := SanitizeString("  hi\x00 there\x01  ")
	if got != "hi there" {
		t.Errorf("SanitizeString = %q", got)
	}
}

func TestPaginationDefaults(t *testing.T) {
	if got := ValidatePage(0); got != 1 {
		t.Errorf("ValidatePage(0) = %d", got)
	}
	if got := ValidatePage(3); got != 3 {
		t.Errorf("ValidatePage(3) = %d", got)
	}
	if got := ValidatePageSize(0); got != 20 {
		t.Errorf("ValidatePageSize(0) = %d", got)
	}
	if got := ValidatePageSize(500); got != 100 {
		t.Errorf("ValidatePageSize(500) = %d", got)
	}
	if got := ValidateLimit(-1); got != 20 {
		t.Errorf("ValidateLimit(-1) = %d", got)
	}
}
