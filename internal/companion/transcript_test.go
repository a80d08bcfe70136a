package companion

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeTranscriptCollapsesWhitespace(t *testing.T) {
	got, err := NormalizeTranscript("  kya   haal\n hai \t yaar  ", nil)
	if err != nil {
		t.Fatalf("NormalizeTranscript() error = %v", err)
	}
	if got != "kya haal hai yaar" {
		t.Fatalf("NormalizeTranscript() = %q, want %q", got, "kya haal hai yaar")
	}
}

func TestNormalizeTranscriptJoinsSegmentsWhenTextMissing(t *testing.T) {
	got, err := NormalizeTranscript("  ", []string{"main thoda", " pareshan hoon"})
	if err != nil {
		t.Fatalf("NormalizeTranscript() error = %v", err)
	}
	if got != "main thoda pareshan hoon" {
		t.Fatalf("NormalizeTranscript() = %q", got)
	}
}

func TestNormalizeTranscriptEmptyFails(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		segments []string
	}{
		{name: "blank text", text: "   \n\t "},
		{name: "blank segments", text: "", segments: []string{"  ", "\n"}},
		{name: "nothing at all"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NormalizeTranscript(tc.text, tc.segments); !errors.Is(err, ErrEmptyTranscript) {
				t.Fatalf("NormalizeTranscript() error = %v, want ErrEmptyTranscript", err)
			}
		})
	}
}

func TestNormalizeTranscriptTruncates(t *testing.T) {
	long := strings.Repeat("a ", MaxTranscriptChars)
	got, err := NormalizeTranscript(long, nil)
	if err != nil {
		t.Fatalf("NormalizeTranscript() error = %v", err)
	}
	if len([]rune(got)) != MaxTranscriptChars {
		t.Fatalf("normalized length = %d, want %d", len([]rune(got)), MaxTranscriptChars)
	}
}

func TestClampCharsRuneSafe(t *testing.T) {
	s := "नमस्ते दोस्त"
	clamped := ClampChars(s, 6)
	if clamped != "नमस्ते" {
		t.Fatalf("ClampChars() = %q, want %q", clamped, "नमस्ते")
	}
	if ClampChars("short", 100) != "short" {
		t.Fatalf("ClampChars() modified a string under the limit")
	}
}
