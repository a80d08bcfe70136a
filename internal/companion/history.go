package companion

import "encoding/json"

const (
	// HistoryWindow is the number of recent turns carried into a prompt.
	// This is the only "memory" the service has; the client resends it.
	HistoryWindow = 4

	// HistoryFieldMax clamps each stored user/assistant text.
	HistoryFieldMax = 480
)

// Turn is one prior (user, assistant) exchange as the client replays it.
type Turn struct {
	User      string   `json:"user"`
	Assistant string   `json:"assistant"`
	Tone      Tone     `json:"tone"`
	Language  Language `json:"language"`
}

type rawTurn struct {
	User      json.RawMessage `json:"user"`
	Assistant json.RawMessage `json:"assistant"`
	Tone      string          `json:"tone"`
	Language  string          `json:"language"`
}

// ParseHistory decodes a caller-supplied JSON history list into a bounded,
// validated window. History is best-effort context: a payload that is not
// JSON, not an array, or full of junk records degrades to fewer (or zero)
// turns rather than an error.
func ParseHistory(payload []byte) []Turn {
	if len(payload) == 0 {
		return nil
	}
	var raws []rawTurn
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil
	}

	turns := make([]Turn, 0, len(raws))
	for _, raw := range raws {
		user := ClampChars(CollapseWhitespace(coerceString(raw.User)), HistoryFieldMax)
		assistant := ClampChars(CollapseWhitespace(coerceString(raw.Assistant)), HistoryFieldMax)
		if user == "" || assistant == "" {
			continue
		}
		turns = append(turns, Turn{
			User:      user,
			Assistant: assistant,
			Tone:      ResolveTone(raw.Tone),
			Language:  ResolveLanguage(raw.Language),
		})
	}

	if len(turns) > HistoryWindow {
		turns = turns[len(turns)-HistoryWindow:]
	}
	return turns
}

// coerceString accepts strings but also numbers and bools, matching the
// lenient shape clients have historically sent.
func coerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case float64:
		num, _ := json.Marshal(t)
		return string(num)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
