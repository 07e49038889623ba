package shared

import "testing"

func TestNormalizeKey(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic normalization",
			input: "Hip Hop",
			want:  "hip hop",
		},
		{
			name:  "extra whitespace",
			input: "  Hip   Hop  ",
			want:  "hip hop",
		},
		{
			name:  "mixed case",
			input: "HiP hOp",
			want:  "hip hop",
		},
		{
			name:  "empty string",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeKey(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty IDs")
	}

	if a == b {
		t.Error("expected unique IDs")
	}
}
