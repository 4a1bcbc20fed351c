package views

import (
	"strings"
	"testing"
)

func TestTruncateExcerpt(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		want  string
	}{
		{"The quick brown fox jumps", 10, "The quick..."},
		{"Short", 10, "Short"},
		{"Exactly ten", 11, "Exactly ten"},
		{"Supercalifragilistic", 10, "Supercalif..."},
		{"", 10, ""},
		{"word  and   more words here", 12, "word  and..."},
	}

	for _, tt := range tests {
		if got := TruncateExcerpt(tt.text, tt.limit); got != tt.want {
			t.Errorf("TruncateExcerpt(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}

func TestTruncateExcerptNeverSplitsWords(t *testing.T) {
	text := "one two three four five six seven eight"
	for limit := 5; limit < len(text); limit++ {
		got := TruncateExcerpt(text, limit)
		trimmed := strings.TrimSuffix(got, "...")
		if trimmed == got {
			// Untruncated; must be the original.
			if got != text {
				t.Fatalf("limit %d: got %q, want original text", limit, got)
			}
			continue
		}
		if !strings.HasPrefix(text, trimmed) {
			t.Fatalf("limit %d: %q is not a prefix of the input", limit, trimmed)
		}
		if trimmed != "" && !strings.Contains(" "+text+" ", " "+trimmed+" ") {
			// The kept part must end on a word boundary.
			rest := text[len(trimmed):]
			if rest != "" && rest[0] != ' ' {
				t.Fatalf("limit %d: truncated mid-word: %q", limit, got)
			}
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-15T10:30:00Z", "January 15, 2024"},
		{"2024-01-15", "January 15, 2024"},
		{"not a date", "Unknown Date"},
		{"", "Unknown Date"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.input); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
