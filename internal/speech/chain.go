package speech

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Chain tries each synthesizer in rank order and normalizes the outcome.
// Synthesis providers are the least reliable leg of the pipeline, so the
// chain guarantees some outcome: audio bytes or a structured failure.
type Chain struct {
	attempts []Synthesizer
	logger   zerolog.Logger
	observe  func(provider, outcome string)
}

func NewChain(logger zerolog.Logger, observe func(provider, outcome string), attempts ...Synthesizer) *Chain {
	if observe == nil {
		observe = func(string, string) {}
	}
	return &Chain{
		attempts: attempts,
		logger:   logger.With().Str("component", "synthesis_chain").Logger(),
		observe:  observe,
	}
}

// Synthesize walks the chain. An unconfigured provider counts as a failed
// attempt; an empty byte result counts as a failure even with a nil error.
func (c *Chain) Synthesize(ctx context.Context, text string, hint VoiceHint) SynthesisResult {
	var failures []string
	for _, attempt := range c.attempts {
		if !attempt.Available() {
			failures = append(failures, fmt.Sprintf("%s: not configured", attempt.Name()))
			c.observe(attempt.Name(), "unavailable")
			continue
		}

		audio, mime, err := attempt.Synthesize(ctx, text, hint)
		if err == nil && len(audio) == 0 {
			err = fmt.Errorf("empty audio result")
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", attempt.Name(), err))
			c.observe(attempt.Name(), "error")
			c.logger.Warn().Err(err).Str("provider", attempt.Name()).Msg("synthesis attempt failed")
			continue
		}

		c.observe(attempt.Name(), "ok")
		return SynthesisResult{
			Success:  true,
			Audio:    audio,
			Mime:     mime,
			Provider: attempt.Name(),
		}
	}

	detail := strings.Join(failures, "; ")
	if detail == "" {
		detail = "no synthesis providers configured"
	}
	c.logger.Error().Str("detail", detail).Msg("all synthesis attempts failed")
	return SynthesisResult{Success: false, Error: detail}
}
