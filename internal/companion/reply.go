package companion

// Reply ceilings per talk mode. Long mode allows a few sentences; short mode
// keeps spoken replies to one breath.
const (
	ReplyMaxLong  = 420
	ReplyMaxShort = 240
)

// FallbackReply is spoken when the model returns an empty completion. Once
// transcription succeeds the user always hears something.
const FallbackReply = "I'm right here with you. Tell me a little more?"

// ReplyLimit returns the character ceiling for the given talk mode.
func ReplyLimit(mode TalkMode) int {
	if mode == TalkModeShort {
		return ReplyMaxShort
	}
	return ReplyMaxLong
}

// ShapeReply whitespace-normalizes the model output and clamps it to the
// mode's ceiling. An empty completion becomes the fixed fallback reply.
func ShapeReply(raw string, mode TalkMode) string {
	out := CollapseWhitespace(raw)
	if out == "" {
		out = FallbackReply
	}
	return ClampChars(out, ReplyLimit(mode))
}
