package models

// ChatRole identifies who authored a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the coaching conversation.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatContextLimit is the number of most recent turns supplied to the
// coaching service as conversation context.
const ChatContextLimit = 20

// LastMessages returns at most n trailing messages of history.
func LastMessages(history []ChatMessage, n int) []ChatMessage {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return append([]ChatMessage(nil), history...)
}
