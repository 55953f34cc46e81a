package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/a2sh3r/expresswash/internal/apperrors"
)

func TestFormatReceiptNumber(t *testing.T) {
	day := time.Date(2024, time.May, 1, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		seq  int
		want string
	}{
		{1, "RW-20240501-0001"},
		{42, "RW-20240501-0042"},
		{9999, "RW-20240501-9999"},
		{10000, "RW-20240501-10000"},
	}

	for _, tt := range tests {
		if got := FormatReceiptNumber(day, tt.seq); got != tt.want {
			t.Errorf("FormatReceiptNumber(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}

	if got := ReceiptPrefix(day); got != "RW-20240501-" {
		t.Errorf("ReceiptPrefix() = %q", got)
	}
}

func TestParseReceiptSequence(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"RW-20240501-0001", 1, false},
		{"RW-20240501-0137", 137, false},
		{"RW-20240501-10000", 10000, false},
		{"RW-20240501-0000", 0, true},
		{"RW-20240501-12", 0, true},
		{"RW-2024051-0001", 0, true},
		{"RW-20241301-0001", 0, true},
		{"XX-20240501-0001", 0, true},
		{"RW-20240501-abcd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReceiptSequence(tt.input)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidReceipt) {
					t.Errorf("ParseReceiptSequence(%q) error = %v, want ErrInvalidReceipt", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseReceiptSequence(%q) = %d, %v, want %d", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestIsValidMobile(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"9876543210", true},
		{"+91 98765 43210", true},
		{"020-555-0134", true},
		{"12+34", false},
		{"abc12345", false},
		{"1234", false},
		{"+1 234 567 890 123 456 78", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidMobile(tt.input); got != tt.want {
			t.Errorf("IsValidMobile(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
