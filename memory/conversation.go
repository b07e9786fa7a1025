package memory

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a minimal view of one chat entry.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

func User(text string) Message      { return Message{Role: RoleUser, Text: text} }
func Assistant(text string) Message { return Message{Role: RoleAssistant, Text: text} }

// Turn pairs a user message with the reply shown for it.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// FromTurns flattens turns into alternating user/assistant messages.
// A turn with an empty reply contributes only its user message.
func FromTurns(turns []Turn) []Message {
	out := make([]Message, 0, 2*len(turns))
	for _, t := range turns {
		out = append(out, User(t.User))
		if strings.TrimSpace(t.Assistant) != "" {
			out = append(out, Assistant(t.Assistant))
		}
	}
	return out
}

// Append returns history extended by one turn. The input slice is not modified.
func Append(history []Turn, user, assistant string) []Turn {
	out := make([]Turn, len(history), len(history)+1)
	copy(out, history)
	return append(out, Turn{User: user, Assistant: assistant})
}
