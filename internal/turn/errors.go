package turn

import "errors"

// Fatal pipeline errors. Each aborts the whole turn; none is retried here,
// since repeated failures should surface so the client can re-prompt the user.
var (
	// ErrNoAudio means the request carried no utterance at all.
	ErrNoAudio = errors.New("no audio provided")

	// ErrTranscriptionFailed wraps a non-success transcription response.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrCompletionFailed wraps a non-success chat completion response.
	ErrCompletionFailed = errors.New("completion failed")
)
