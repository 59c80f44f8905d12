package errors

import (
	"strings"
	"testing"
)

func TestValidateModuleID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "INF1", false},
		{"with space", "Major GLAM 1", false},
		{"umlaut", "Ökonomie", false},

		{"empty", "", true},
		{"whitespace", "   ", true},
		{"too long", strings.Repeat("x", MaxModuleIDLength+1), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModuleID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModuleID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateModuleID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateSemester(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"ALL", false},
		{"3", false},
		{"HS", false},
		{"3;5", true},
		{"x\x01", true},
		{strings.Repeat("1", 17), true},
	}

	for _, tt := range tests {
		err := ValidateSemester(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSemester(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "data/modules.xlsx", false},
		{"empty", "", true},
		{"traversal", "../secret.csv", true},
		{"null byte", "a\x00b", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
