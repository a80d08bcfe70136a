package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// translateMaxChars is the hard input ceiling of the translate endpoint.
const translateMaxChars = 200

// TranslateConfig configures the tertiary, minimal synthesis provider. It
// needs no key, which is exactly why it sits last: it always answers, just
// not beautifully.
type TranslateConfig struct {
	BaseURL string
}

type TranslateProvider struct {
	cfg    TranslateConfig
	client *http.Client
	logger zerolog.Logger
}

func NewTranslateProvider(cfg TranslateConfig, logger zerolog.Logger) *TranslateProvider {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://translate.google.com"
	}
	return &TranslateProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
		logger: logger.With().Str("provider", "translate").Logger(),
	}
}

func (p *TranslateProvider) Name() string { return "translate" }

func (p *TranslateProvider) Available() bool { return true }

// voiceID maps the hint to this provider's locale-style voice naming.
func (p *TranslateProvider) voiceID(hint VoiceHint) string {
	if hint.HindiRegister() {
		return "hi-IN"
	}
	return "en-IN"
}

func (p *TranslateProvider) Synthesize(ctx context.Context, text string, hint VoiceHint) ([]byte, string, error) {
	if len([]rune(text)) > translateMaxChars {
		text = string([]rune(text)[:translateMaxChars])
	}

	voice := p.voiceID(hint)
	lang := "en"
	if strings.HasPrefix(voice, "hi") {
		lang = "hi"
	}

	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", lang)
	q.Set("q", text)
	endpoint := strings.TrimRight(p.cfg.BaseURL, "/") + "/translate_tts?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read audio: %w", err)
	}

	p.logger.Debug().Str("lang", lang).Int("audio_bytes", len(audio)).Msg("synthesis complete")
	return audio, "audio/mpeg", nil
}
