package companion

import "strings"

// Tone selects the persona the companion speaks as.
type Tone string

const (
	ToneWarm      Tone = "warm"
	ToneSpiritual Tone = "spiritual"
	ToneCoach     Tone = "coach"
)

// Language is the register the companion replies in.
type Language string

const (
	LanguageEnglish  Language = "english"
	LanguageHinglish Language = "hinglish"
	LanguageHindi    Language = "hindi"
)

// TalkMode is a process-wide setting controlling reply length and sampling.
type TalkMode string

const (
	TalkModeLong  TalkMode = "long"
	TalkModeShort TalkMode = "short"
)

// ResolveTone matches a caller-supplied tone case-insensitively and falls
// back to warm. Unknown tones are not an error; the caller may send anything.
func ResolveTone(raw string) Tone {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ToneSpiritual):
		return ToneSpiritual
	case string(ToneCoach):
		return ToneCoach
	default:
		return ToneWarm
	}
}

// ResolveLanguage validates a language literal, defaulting to english.
func ResolveLanguage(raw string) Language {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LanguageHinglish):
		return LanguageHinglish
	case string(LanguageHindi):
		return LanguageHindi
	default:
		return LanguageEnglish
	}
}

// ResolveTalkMode validates a talk mode literal, defaulting to long.
func ResolveTalkMode(raw string) TalkMode {
	if strings.ToLower(strings.TrimSpace(raw)) == string(TalkModeShort) {
		return TalkModeShort
	}
	return TalkModeLong
}
