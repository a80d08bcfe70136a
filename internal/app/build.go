package app

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/arjunmehta/mitra/internal/companion"
	"github.com/arjunmehta/mitra/internal/config"
	"github.com/arjunmehta/mitra/internal/httpapi"
	"github.com/arjunmehta/mitra/internal/llm"
	"github.com/arjunmehta/mitra/internal/observability"
	"github.com/arjunmehta/mitra/internal/speech"
	"github.com/arjunmehta/mitra/internal/turn"
)

// Application is the wired service: everything main needs to serve traffic.
type Application struct {
	Config  config.Config
	Handler http.Handler
	Logger  zerolog.Logger
}

// Build assembles the full dependency graph from config. The OpenAI client is
// mandatory; synthesis providers degrade individually inside the chain, so an
// unset key there is not a startup error.
func Build(cfg config.Config, logger zerolog.Logger) (*Application, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	client, err := llm.NewOpenAIClient(llm.OpenAIConfig{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		ChatModel:       cfg.OpenAIChatModel,
		TranscribeModel: cfg.OpenAITranscribeModel,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build openai client: %w", err)
	}

	eleven := speech.NewElevenLabsProvider(speech.ElevenLabsConfig{
		APIKey:         cfg.ElevenLabsAPIKey,
		BaseURL:        cfg.ElevenLabsBaseURL,
		ModelID:        cfg.ElevenLabsModelID,
		VoiceOverrides: cfg.ElevenLabsVoiceOverrides,
	}, logger)
	sarvam := speech.NewSarvamProvider(speech.SarvamConfig{
		APIKey:  cfg.SarvamAPIKey,
		BaseURL: cfg.SarvamBaseURL,
		Model:   cfg.SarvamModel,
	}, logger)
	translate := speech.NewTranslateProvider(speech.TranslateConfig{
		BaseURL: cfg.TranslateTTSBaseURL,
	}, logger)

	chain := speech.NewChain(logger, func(provider, outcome string) {
		metrics.SynthesisAttempts.WithLabelValues(provider, outcome).Inc()
	}, eleven, sarvam, translate)

	pipeline := turn.NewPipeline(
		companion.ResolveTalkMode(cfg.TalkMode),
		cfg.TurnDeadline,
		client,
		client,
		chain,
		metrics,
		logger,
	)

	server := httpapi.New(cfg, pipeline, client, eleven, metrics, logger)

	logger.Info().
		Str("talk_mode", cfg.TalkMode).
		Bool("elevenlabs", eleven.Available()).
		Bool("sarvam", sarvam.Available()).
		Msg("application wired")

	return &Application{
		Config:  cfg,
		Handler: server.Router(),
		Logger:  logger,
	}, nil
}
