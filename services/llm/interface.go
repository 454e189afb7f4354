package llm

import "context"

// Prompt message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of the prompt sent to a completion provider.
type Message struct {
	Role    string
	Content string
}

// Completer is the external language-model completion capability. It is
// the sole network dependency of the conversation core; implementations
// must honor ctx cancellation and report failures as *ProviderError.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
