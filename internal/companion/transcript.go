package companion

import (
	"errors"
	"strings"
)

// MaxTranscriptChars bounds what a single utterance may contribute to a prompt.
const MaxTranscriptChars = 1600

// ErrEmptyTranscript means the provider heard no usable words. The caller
// should surface a "could not hear any words" condition; nothing is retried.
var ErrEmptyTranscript = errors.New("transcript empty after normalization")

// NormalizeTranscript collapses the raw transcription output into a single
// bounded line. When the direct text field is empty, segment texts are joined
// instead (some providers only return segments for short clips).
func NormalizeTranscript(text string, segments []string) (string, error) {
	if strings.TrimSpace(text) == "" && len(segments) > 0 {
		text = strings.Join(segments, " ")
	}
	out := CollapseWhitespace(text)
	if out == "" {
		return "", ErrEmptyTranscript
	}
	return ClampChars(out, MaxTranscriptChars), nil
}

// CollapseWhitespace trims and squeezes all whitespace runs to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ClampChars truncates s to at most n characters. Counting runes rather than
// bytes keeps Devanagari text from being cut mid-codepoint.
func ClampChars(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
