package helpers

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "already inverted", in: "Smith, John", want: "Smith, John"},
		{name: "direct order", in: "John Smith", want: "Smith, John"},
		{name: "direct order with middle", in: "John Allen Smith", want: "Smith, John Allen"},
		{name: "nobiliary particle", in: "Ludwig van Beethoven", want: "van Beethoven, Ludwig"},
		{name: "suffix direct order", in: "John Smith Jr.", want: "Smith, John Jr."},
		{name: "suffix inverted order", in: "Smith, John Jr.", want: "Smith, John Jr."},
		{name: "collapses whitespace", in: "John   Smith", want: "Smith, John"},
		{name: "single token", in: "Plato", want: "Plato"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.in); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInvertDisplayName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "first last", in: "John Smith", want: "Smith, John"},
		{name: "first middle last", in: "John Allen Smith", want: "Smith, John Allen"},
		{name: "single token", in: "Plato", want: "Plato"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InvertDisplayName(tt.in); got != tt.want {
				t.Errorf("InvertDisplayName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitNames(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		separator string
		want      []string
	}{
		{
			name:      "semicolon separated",
			in:        "Smith, J.; Jones, M.",
			separator: "; ",
			want:      []string{"Smith, J.", "Jones, M."},
		},
		{
			name:      "and separated bibtex style",
			in:        "Smith, John and Jones, Mary",
			separator: " and ",
			want:      []string{"Smith, John", "Jones, Mary"},
		},
		{
			name:      "empty input",
			in:        "",
			separator: "; ",
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitNames(tt.in, tt.separator)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitNames(%q, %q) = %v, want %v", tt.in, tt.separator, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SplitNames(%q, %q)[%d] = %q, want %q", tt.in, tt.separator, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestNormalizeTextNFC builds the decomposed and composed forms from
// explicit runes so the two can't accidentally collapse to identical
// bytes regardless of how accented characters render in an editor.
func TestNormalizeTextNFC(t *testing.T) {
	decomposed := "e" + string(rune(0x0301)) + "tude" // "e" + combining acute accent
	composed := string(rune(0x00E9)) + "tude"         // precomposed e-acute
	if got := NormalizeText(decomposed); got != composed {
		t.Errorf("NormalizeText(%q) = %q, want %q", decomposed, got, composed)
	}
}
