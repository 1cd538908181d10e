package ai

import (
	"context"
)

// Message roles understood by chat-capable providers.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry of a chat history sent to a provider.
type Message struct {
	Role    string
	Content string
}

// Generator produces a single completion for a standalone prompt.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ChatGenerator produces a completion for an ordered chat history guided by a
// system instruction. Providers return the raw response text; interpreting it
// is the caller's responsibility.
type ChatGenerator interface {
	GenerateChat(ctx context.Context, system string, history []Message) (string, error)
}
