package llm

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig points the client at an OpenAI-compatible endpoint. BaseURL
// is overridable so self-hosted gateways can stand in for the hosted API.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	TranscribeModel string
}

// OpenAIClient implements Transcriber and Completer against the OpenAI API.
type OpenAIClient struct {
	cfg    OpenAIConfig
	client *openai.Client
	logger zerolog.Logger
}

func NewOpenAIClient(cfg OpenAIConfig, logger zerolog.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if strings.TrimSpace(cfg.ChatModel) == "" {
		cfg.ChatModel = openai.GPT4oMini
	}
	if strings.TrimSpace(cfg.TranscribeModel) == "" {
		cfg.TranscribeModel = openai.Whisper1
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &OpenAIClient{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientCfg),
		logger: logger.With().Str("provider", "openai").Logger(),
	}, nil
}

// Transcribe runs the utterance through the transcription endpoint with
// temperature pinned to zero for deterministic output.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio []byte, filename string) (Transcription, error) {
	if strings.TrimSpace(filename) == "" {
		filename = "utterance.webm"
	}

	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       c.cfg.TranscribeModel,
		FilePath:    filename,
		Reader:      bytes.NewReader(audio),
		Temperature: 0,
		Format:      openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return Transcription{}, fmt.Errorf("openai transcription: %w", err)
	}

	out := Transcription{Text: resp.Text}
	for _, segment := range resp.Segments {
		out.Segments = append(out.Segments, segment.Text)
	}
	c.logger.Debug().Int("audio_bytes", len(audio)).Int("text_len", len(resp.Text)).Msg("transcription complete")
	return out, nil
}

// Complete issues a chat completion and returns the first choice's content.
// An empty choice list is returned as empty text, not an error; the pipeline
// substitutes its fixed fallback reply.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.ChatModel,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	c.logger.Debug().Int("messages", len(msgs)).Int("reply_len", len(content)).Msg("completion complete")
	return content, nil
}
