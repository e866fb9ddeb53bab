package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateParagraphText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"plain", "I am trying to express something", false},
		{"multi line", "one\ntwo\r\nthree", false},
		{"tabs allowed", "a\tb", false},
		{"unicode", "naïve — café ·", false},
		{"empty", "", true},
		{"blank", "  \n ", true},
		{"null byte", "a\x00b", true},
		{"escape", "a\x1bb", true},
		{"too long", strings.Repeat("x", MaxParagraphRunes+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParagraphText(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateParagraphText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidParagraph) {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidParagraph)
			}
		})
	}
}

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"typical", 800, 600, false},
		{"max", MaxDimension, MaxDimension, false},
		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"nan", math.NaN(), 600, true},
		{"inf", 800, math.Inf(1), true},
		{"too large", MaxDimension + 1, 600, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateDimensions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSize) {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidSize)
			}
		})
	}
}

func TestValidateRaster(t *testing.T) {
	tests := []struct {
		name        string
		w, h, scale float64
		wantErr     bool
	}{
		{"typical", 1200, 1000, 2, false},
		{"fractional scale", 800, 600, 0.5, false},
		{"pixel budget", 8192, 8192, 1, false},
		{"zero scale", 800, 600, 0, true},
		{"negative scale", 800, 600, -1, true},
		{"nan scale", 800, 600, math.NaN(), true},
		{"inf scale", 800, 600, math.Inf(1), true},
		{"side overflow", MaxDimension, MaxDimension, 2, true},
		{"huge scale", 800, 600, 1e6, true},
		{"over budget", 10000, 10000, 1, true},
		{"collapses to zero", 1, 1, 1e-9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRaster(tt.w, tt.h, tt.scale)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRaster() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSize) {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidSize)
			}
		})
	}
}

func TestValidateInputLengths(t *testing.T) {
	if err := ValidateInputLengths([]int{0, 120, -5, 400}); err != nil {
		t.Errorf("valid history rejected: %v", err)
	}
	if err := ValidateInputLengths(nil); err != nil {
		t.Errorf("empty history rejected: %v", err)
	}
	err := ValidateInputLengths(make([]int, MaxInputEvents+1))
	if !Is(err, ErrCodeInvalidInput) {
		t.Errorf("oversized history error = %v", err)
	}
}
