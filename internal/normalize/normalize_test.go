package normalize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text unchanged",
			input: "Create a dashboard",
			want:  "Create a dashboard",
		},
		{
			name:  "strips fenced code",
			input: "add a button ```rm -rf /``` please",
			want:  "add a button  please",
		},
		{
			name:  "strips multi-line fences non-greedily",
			input: "a ```x\ny``` b ```z``` c",
			want:  "a  b  c",
		},
		{
			name:  "strips script tags case-insensitively",
			input: "hi <SCRIPT type=\"x\">alert(1)</script> there",
			want:  "hi  there",
		},
		{
			name:  "unterminated fence is kept",
			input: "```open",
			want:  "```open",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.input); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestText_Truncates(t *testing.T) {
	long := strings.Repeat("a", MaxLength+50)
	if got := Text(long); len(got) != MaxLength {
		t.Errorf("expected %d characters, got %d", MaxLength, len(got))
	}

	// Truncation counts characters, not bytes.
	multi := strings.Repeat("é", MaxLength+1)
	got := Text(multi)
	if n := utf8.RuneCountInString(got); n != MaxLength {
		t.Errorf("expected %d runes, got %d", MaxLength, n)
	}
	if !utf8.ValidString(got) {
		t.Error("truncation produced invalid UTF-8")
	}
}

func TestText_StripsBeforeTruncating(t *testing.T) {
	fence := "```" + strings.Repeat("x", 2000) + "```"
	got := Text(fence + "tail")
	if got != "tail" {
		t.Errorf("expected fenced block removed before truncation, got %q", got)
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "nil", input: nil, want: ""},
		{name: "number", input: 42, want: ""},
		{name: "map", input: map[string]any{"a": 1}, want: ""},
		{name: "string", input: "make it simpler", want: "make it simpler"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Value(tt.input); got != tt.want {
				t.Errorf("Value(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
