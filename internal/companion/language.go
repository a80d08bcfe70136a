package companion

import (
	"strings"
	"unicode"
)

// Lexical signal sets for register detection. These are heuristics tuned for
// the two target registers (English / romanized Hindi), not a formal model;
// they are package vars so deployments can swap them without a rebuild.
var (
	hindiSignals = []string{
		"hai", "nahi", "nahin", "kya", "kyun", "mera", "meri", "tum", "aap",
		"acha", "accha", "thik", "theek", "bahut", "bohot", "yaar", "dil",
		"pyar", "pyaar", "zindagi", "kaise", "kaisa", "hoon", "hun", "mujhe",
		"mujhko", "karna", "karo", "bolo", "suno", "mann", "dost", "ghar",
		"kaam", "aaj", "kal", "sab", "kuch", "koi", "matlab", "samajh",
	}
	englishSignals = []string{
		"the", "is", "are", "was", "were", "have", "has", "you", "your",
		"what", "this", "that", "with", "and", "for", "about", "feel",
		"feeling", "today", "really", "just", "want", "need", "think",
	}
)

// History promotion thresholds. A register only overrides the per-turn
// detection once this many recent turns already carried it.
var (
	hindiPromoteMin    = 2
	hinglishPromoteMin = 2
)

// DetectLanguage classifies a single transcript. Script detection wins
// outright: any Devanagari or non-ASCII rune means the speaker typed or was
// transcribed in Hindi script. Only then do the lexical signals get a say.
func DetectLanguage(transcript string) Language {
	for _, r := range transcript {
		if unicode.Is(unicode.Devanagari, r) || r > unicode.MaxASCII {
			return LanguageHindi
		}
	}

	lower := strings.ToLower(transcript)
	hindiScore := 0
	for _, signal := range hindiSignals {
		hindiScore += strings.Count(lower, signal)
	}
	englishScore := 0
	for _, signal := range englishSignals {
		englishScore += strings.Count(lower, signal)
	}

	if hindiScore > englishScore {
		return LanguageHinglish
	}
	return LanguageEnglish
}

// SmoothLanguage stabilizes the register across a short conversation. The
// per-turn detection flaps on short utterances ("ok", "hmm"), so a weighted
// majority of the bounded history window can promote it toward hindi or
// hinglish. Hindi promotion takes precedence over hinglish.
func SmoothLanguage(detected Language, history []Turn) Language {
	hindiCount := 0
	hinglishCount := 0
	for _, turn := range history {
		switch turn.Language {
		case LanguageHindi:
			hindiCount++
		case LanguageHinglish:
			hinglishCount++
		}
	}

	if detected != LanguageHindi && hindiCount >= hindiPromoteMin {
		return LanguageHindi
	}
	if detected == LanguageEnglish && hinglishCount >= hinglishPromoteMin {
		return LanguageHinglish
	}
	return detected
}
