package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// SarvamConfig configures the secondary synthesis provider.
type SarvamConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// SarvamProvider speaks Sarvam's bulbul API: JSON in, base64 audio out.
// Voices are named speakers rather than IDs, so it carries its own mapping.
type SarvamProvider struct {
	cfg    SarvamConfig
	client *http.Client
	logger zerolog.Logger
}

var sarvamSpeakers = map[string]string{
	"warm":      "anushka",
	"spiritual": "vidya",
	"coach":     "karun",
}

func NewSarvamProvider(cfg SarvamConfig, logger zerolog.Logger) *SarvamProvider {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sarvam.ai"
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "bulbul:v2"
	}
	return &SarvamProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger.With().Str("provider", "sarvam").Logger(),
	}
}

func (p *SarvamProvider) Name() string { return "sarvam" }

func (p *SarvamProvider) Available() bool { return strings.TrimSpace(p.cfg.APIKey) != "" }

// Speaker resolves the tone to Sarvam's speaker naming.
func (p *SarvamProvider) Speaker(hint VoiceHint) string {
	if speaker, ok := sarvamSpeakers[hint.Tone]; ok {
		return speaker
	}
	return sarvamSpeakers["warm"]
}

func (p *SarvamProvider) Synthesize(ctx context.Context, text string, hint VoiceHint) ([]byte, string, error) {
	targetLang := "en-IN"
	if hint.HindiRegister() {
		targetLang = "hi-IN"
	}

	payload, err := json.Marshal(map[string]any{
		"inputs":               []string{text},
		"target_language_code": targetLang,
		"speaker":              p.Speaker(hint),
		"model":                p.cfg.Model,
	})
	if err != nil {
		return nil, "", fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(p.cfg.BaseURL, "/") + "/text-to-speech"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded struct {
		Audios []string `json:"audios"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, "", fmt.Errorf("parse response: %w", err)
	}
	if len(decoded.Audios) == 0 {
		return nil, "", fmt.Errorf("no audio in response")
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.Audios[0])
	if err != nil {
		return nil, "", fmt.Errorf("decode audio: %w", err)
	}

	p.logger.Debug().Str("speaker", p.Speaker(hint)).Int("audio_bytes", len(audio)).Msg("synthesis complete")
	return audio, "audio/wav", nil
}
