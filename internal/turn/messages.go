package turn

import (
	"github.com/arjunmehta/mitra/internal/companion"
	"github.com/arjunmehta/mitra/internal/llm"
)

// completionMessageMax clamps each message fed to the completion provider.
// History fields are already bounded tighter; this also covers the
// transcript, which may run up to its own larger ceiling.
const completionMessageMax = 520

// buildMessages flattens the system prompt, the bounded history window and
// the new transcript into the provider message sequence. Each history turn
// becomes one user-role and one assistant-role message in chronological
// order.
func buildMessages(systemPrompt string, history []companion.Turn, transcript string) []llm.Message {
	msgs := make([]llm.Message, 0, 2+2*len(history))
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: systemPrompt})
	for _, turn := range history {
		msgs = append(msgs,
			llm.Message{Role: llm.RoleUser, Content: companion.ClampChars(turn.User, completionMessageMax)},
			llm.Message{Role: llm.RoleAssistant, Content: companion.ClampChars(turn.Assistant, completionMessageMax)},
		)
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: companion.ClampChars(transcript, completionMessageMax)})
	return msgs
}
