package speech

import "context"

// VoiceHint is the shared voice-selection input. Each provider maps it onto
// its own voice naming; nothing else leaks between fallback attempts.
type VoiceHint struct {
	Tone     string
	Language string
}

// HindiRegister reports whether the hint calls for a Hindi-optimized voice.
// Hinglish output is Latin-script but sounds right through the same voices.
func (h VoiceHint) HindiRegister() bool {
	return h.Language == "hindi" || h.Language == "hinglish"
}

// SynthesisResult is the normalized outcome of the fallback chain, whichever
// provider produced it.
type SynthesisResult struct {
	Success  bool
	Audio    []byte
	Mime     string
	Provider string
	Error    string
}

// Synthesizer is one synthesis attempt: text plus a voice hint in, a
// contiguous audio buffer out. Implementations must be stateless across
// calls and safe for concurrent use.
type Synthesizer interface {
	Name() string
	Available() bool
	Synthesize(ctx context.Context, text string, hint VoiceHint) ([]byte, string, error)
}
