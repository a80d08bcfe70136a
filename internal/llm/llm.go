package llm

import "context"

// Transcription is the raw transcription-provider output before the
// companion normalizer runs. Some providers return only segment texts.
type Transcription struct {
	Text     string
	Segments []string
}

// Message is one chat message in provider-neutral form.
type Message struct {
	Role    string
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest carries the message sequence plus mode-dependent
// sampling parameters.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// Transcriber converts one recorded utterance into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (Transcription, error)
}

// Completer generates the assistant reply for a message sequence.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
