package model

import "testing"

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format Format
		want   bool
	}{
		{FormatPNG, true},
		{FormatSVG, true},
		{Format(""), false},
		{Format("jpeg"), false},
		{Format("PNG"), false},
	}

	for _, test := range tests {
		if got := test.format.IsValid(); got != test.want {
			t.Errorf("Format(%q).IsValid() = %v, want %v", test.format, got, test.want)
		}
	}
}

func TestECLevel_IsValid(t *testing.T) {
	tests := []struct {
		level ECLevel
		want  bool
	}{
		{ECLevelLow, true},
		{ECLevelMedium, true},
		{ECLevelQuartile, true},
		{ECLevelHigh, true},
		{ECLevel(""), false},
		{ECLevel("X"), false},
		{ECLevel("l"), false},
	}

	for _, test := range tests {
		if got := test.level.IsValid(); got != test.want {
			t.Errorf("ECLevel(%q).IsValid() = %v, want %v", test.level, got, test.want)
		}
	}
}

func TestIsValidSize(t *testing.T) {
	tests := []struct {
		size int
		want bool
	}{
		{MinSize, true},
		{MaxSize, true},
		{DefaultSize, true},
		{MinSize - 1, false},
		{MaxSize + 1, false},
		{0, false},
		{-300, false},
	}

	for _, test := range tests {
		if got := IsValidSize(test.size); got != test.want {
			t.Errorf("IsValidSize(%d) = %v, want %v", test.size, got, test.want)
		}
	}
}
