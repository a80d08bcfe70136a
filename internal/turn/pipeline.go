package turn

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arjunmehta/mitra/internal/companion"
	"github.com/arjunmehta/mitra/internal/llm"
	"github.com/arjunmehta/mitra/internal/observability"
	"github.com/arjunmehta/mitra/internal/speech"
)

// DefaultDeadline bounds one whole voice turn. Interactive voice UX is dead
// past this point anyway; better to fail than to hang.
const DefaultDeadline = 45 * time.Second

// Sampling parameters per talk mode. Long mode wants expressive multi-
// sentence replies; short mode wants tight deterministic ones.
var modeSampling = map[companion.TalkMode]struct {
	Temperature float32
	MaxTokens   int
}{
	companion.TalkModeLong:  {Temperature: 0.85, MaxTokens: 280},
	companion.TalkModeShort: {Temperature: 0.6, MaxTokens: 130},
}

// SpeechSynthesizer is the fallback chain as the pipeline sees it.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, hint speech.VoiceHint) speech.SynthesisResult
}

// Request is one recorded utterance plus the caller-side turn context.
type Request struct {
	Audio      []byte
	Filename   string
	Tone       string
	Name       string
	HistoryRaw []byte
}

// Result is the assembled outcome of a successful turn. Speech fields are
// best-effort: SpeechError is set instead of Audio when every synthesis
// attempt failed.
type Result struct {
	TurnID         string             `json:"turn_id"`
	Transcript     string             `json:"transcript"`
	Reply          string             `json:"reply"`
	Audio          []byte             `json:"audio,omitempty"`
	AudioMime      string             `json:"audio_mime,omitempty"`
	SpeechProvider string             `json:"speech_provider,omitempty"`
	SpeechError    string             `json:"speech_error,omitempty"`
	Language       companion.Language `json:"language"`
	Tone           companion.Tone     `json:"tone"`
	Mode           companion.TalkMode `json:"mode"`
}

// Pipeline orchestrates one voice turn: transcription, register inference,
// prompt construction, completion and the synthesis fallback chain. It holds
// no per-request state; concurrent turns never share anything mutable.
type Pipeline struct {
	mode        companion.TalkMode
	deadline    time.Duration
	transcriber llm.Transcriber
	completer   llm.Completer
	synthesizer SpeechSynthesizer
	metrics     *observability.Metrics
	logger      zerolog.Logger
}

func NewPipeline(
	mode companion.TalkMode,
	deadline time.Duration,
	transcriber llm.Transcriber,
	completer llm.Completer,
	synthesizer SpeechSynthesizer,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Pipeline {
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	return &Pipeline{
		mode:        mode,
		deadline:    deadline,
		transcriber: transcriber,
		completer:   completer,
		synthesizer: synthesizer,
		metrics:     metrics,
		logger:      logger.With().Str("component", "turn_pipeline").Logger(),
	}
}

// Run executes the turn. All upstream calls are sequential; each output is
// required input for the next stage.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if len(req.Audio) == 0 {
		p.metrics.Turns.WithLabelValues("no_audio").Inc()
		return Result{}, ErrNoAudio
	}

	ctx, cancel := context.WithTimeout(ctx, p.deadline)
	defer cancel()

	turnID := uuid.NewString()
	logger := p.logger.With().Str("turn_id", turnID).Logger()

	p.metrics.ActiveTurns.Inc()
	defer p.metrics.ActiveTurns.Dec()

	tone := companion.ResolveTone(req.Tone)
	history := companion.ParseHistory(req.HistoryRaw)

	start := time.Now()
	raw, err := p.transcriber.Transcribe(ctx, req.Audio, req.Filename)
	p.metrics.ObserveStage("transcribe", time.Since(start))
	if err != nil {
		p.metrics.ProviderErrors.WithLabelValues("transcriber", "transcribe").Inc()
		p.metrics.Turns.WithLabelValues("transcription_failed").Inc()
		logger.Error().Err(err).Msg("transcription failed")
		return Result{}, fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
	}

	transcript, err := companion.NormalizeTranscript(raw.Text, raw.Segments)
	if err != nil {
		p.metrics.Turns.WithLabelValues("empty_transcript").Inc()
		return Result{}, err
	}

	language := companion.SmoothLanguage(companion.DetectLanguage(transcript), history)
	systemPrompt := companion.BuildSystemPrompt(tone, language, p.mode, req.Name)
	sampling := modeSampling[p.mode]

	start = time.Now()
	rawReply, err := p.completer.Complete(ctx, llm.CompletionRequest{
		Messages:    buildMessages(systemPrompt, history, transcript),
		Temperature: sampling.Temperature,
		MaxTokens:   sampling.MaxTokens,
	})
	p.metrics.ObserveStage("complete", time.Since(start))
	if err != nil {
		p.metrics.ProviderErrors.WithLabelValues("completer", "complete").Inc()
		p.metrics.Turns.WithLabelValues("completion_failed").Inc()
		logger.Error().Err(err).Msg("completion failed")
		return Result{}, fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	reply := companion.ShapeReply(rawReply, p.mode)

	start = time.Now()
	synth := p.synthesizer.Synthesize(ctx, reply, speech.VoiceHint{
		Tone:     string(tone),
		Language: string(language),
	})
	p.metrics.ObserveStage("synthesize", time.Since(start))

	result := Result{
		TurnID:     turnID,
		Transcript: transcript,
		Reply:      reply,
		Language:   language,
		Tone:       tone,
		Mode:       p.mode,
	}
	if synth.Success {
		result.Audio = synth.Audio
		result.AudioMime = synth.Mime
		result.SpeechProvider = synth.Provider
		p.metrics.Turns.WithLabelValues("ok").Inc()
	} else {
		// Voice is best-effort: the reply text still goes out.
		result.SpeechError = "speech_unavailable"
		p.metrics.Turns.WithLabelValues("speech_unavailable").Inc()
		logger.Warn().Str("detail", synth.Error).Msg("turn completed without audio")
	}

	logger.Info().
		Str("tone", string(tone)).
		Str("language", string(language)).
		Int("history_turns", len(history)).
		Bool("audio", synth.Success).
		Msg("turn complete")
	return result, nil
}
