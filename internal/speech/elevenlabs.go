package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ElevenLabsConfig configures the primary synthesis provider.
type ElevenLabsConfig struct {
	APIKey  string
	BaseURL string
	ModelID string
	// VoiceOverrides remaps "<tone>" or "<tone>_hindi" keys to voice IDs.
	VoiceOverrides map[string]string
}

type ElevenLabsProvider struct {
	cfg    ElevenLabsConfig
	client *http.Client
	logger zerolog.Logger
}

// Default premade voices per tone. The hindi variants use the multilingual
// voices that carry Devanagari text without an accent.
var elevenVoices = map[string]string{
	"warm":            "cgSgspJ2msm6clMCkdW9",
	"warm_hindi":      "EXAVITQu4vr4xnSDxMaL",
	"spiritual":       "21m00Tcm4TlvDq8ikWAM",
	"spiritual_hindi": "MF3mGyEYCl7XYWbV9V6O",
	"coach":           "ErXwobaYiN019PkySvjV",
	"coach_hindi":     "TxGEqnHWrfWFTfGW9XjX",
}

func NewElevenLabsProvider(cfg ElevenLabsConfig, logger zerolog.Logger) *ElevenLabsProvider {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.elevenlabs.io/v1"
	}
	if strings.TrimSpace(cfg.ModelID) == "" {
		cfg.ModelID = "eleven_multilingual_v2"
	}
	return &ElevenLabsProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger.With().Str("provider", "elevenlabs").Logger(),
	}
}

func (p *ElevenLabsProvider) Name() string { return "elevenlabs" }

func (p *ElevenLabsProvider) Available() bool { return strings.TrimSpace(p.cfg.APIKey) != "" }

// VoiceID resolves the (tone, register) pair to a provider voice.
func (p *ElevenLabsProvider) VoiceID(hint VoiceHint) string {
	key := hint.Tone
	if hint.HindiRegister() {
		key += "_hindi"
	}
	if id, ok := p.cfg.VoiceOverrides[key]; ok && strings.TrimSpace(id) != "" {
		return id
	}
	if id, ok := elevenVoices[key]; ok {
		return id
	}
	return elevenVoices["warm"]
}

func (p *ElevenLabsProvider) Synthesize(ctx context.Context, text string, hint VoiceHint) ([]byte, string, error) {
	voiceID := p.VoiceID(hint)
	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": p.cfg.ModelID,
		"voice_settings": map[string]float64{
			"stability":        0.45,
			"similarity_boost": 0.8,
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/text-to-speech/" + voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read audio: %w", err)
	}

	p.logger.Debug().Str("voice", voiceID).Int("audio_bytes", len(audio)).Msg("synthesis complete")
	return audio, "audio/mpeg", nil
}
