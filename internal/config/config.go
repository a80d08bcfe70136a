package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config contains all runtime settings for the companion voice service.
// It is read once at startup and injected; nothing in the pipeline reads
// the environment directly.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	// TalkMode is process-wide, not per-request: "long" or "short".
	TalkMode     string
	TurnDeadline time.Duration

	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAIChatModel       string
	OpenAITranscribeModel string

	ElevenLabsAPIKey         string
	ElevenLabsBaseURL        string
	ElevenLabsModelID        string
	ElevenLabsVoiceOverrides map[string]string

	SarvamAPIKey  string
	SarvamBaseURL string
	SarvamModel   string

	TranslateTTSBaseURL string
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:              envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:      envOrDefault("APP_METRICS_NAMESPACE", "mitra"),
		TalkMode:              strings.ToLower(envTrimmed("TALK_MODE")),
		OpenAIAPIKey:          envTrimmed("OPENAI_API_KEY"),
		OpenAIBaseURL:         envTrimmed("OPENAI_BASE_URL"),
		OpenAIChatModel:       envOrDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		OpenAITranscribeModel: envOrDefault("OPENAI_TRANSCRIBE_MODEL", "whisper-1"),
		ElevenLabsAPIKey:      envTrimmed("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL:     envTrimmed("ELEVENLABS_BASE_URL"),
		ElevenLabsModelID:     envOrDefault("ELEVENLABS_MODEL_ID", "eleven_multilingual_v2"),
		SarvamAPIKey:          envTrimmed("SARVAM_API_KEY"),
		SarvamBaseURL:         envTrimmed("SARVAM_BASE_URL"),
		SarvamModel:           envOrDefault("SARVAM_MODEL", "bulbul:v2"),
		TranslateTTSBaseURL:   envTrimmed("TRANSLATE_TTS_BASE_URL"),
		ShutdownTimeout:       15 * time.Second,
		TurnDeadline:          45 * time.Second,
	}

	switch cfg.TalkMode {
	case "":
		cfg.TalkMode = "long"
	case "long", "short":
	default:
		return Config{}, fmt.Errorf("TALK_MODE must be long or short, got %q", cfg.TalkMode)
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.TurnDeadline, err = durationFromEnv("APP_TURN_DEADLINE", cfg.TurnDeadline)
	if err != nil {
		return Config{}, err
	}
	if cfg.TurnDeadline < 5*time.Second {
		return Config{}, fmt.Errorf("APP_TURN_DEADLINE must be at least 5s")
	}

	cfg.ElevenLabsVoiceOverrides = map[string]string{}
	for _, key := range []string{"warm", "warm_hindi", "spiritual", "spiritual_hindi", "coach", "coach_hindi"} {
		envKey := "ELEVENLABS_VOICE_" + strings.ToUpper(key)
		if v := envTrimmed(envKey); v != "" {
			cfg.ElevenLabsVoiceOverrides[key] = v
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := envTrimmed(key)
	if v == "" {
		return fallback
	}
	return v
}

func envTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := envTrimmed(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}
