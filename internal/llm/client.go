// Package llm provides clients for generative-text providers. Every
// component that needs a completion depends on the Client interface so
// tests can substitute doubles for the outbound calls.
package llm

import "context"

// Message is a role-tagged conversation message ("system", "user",
// "assistant").
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// CompleteWithMessages sends a system prompt plus a full role-tagged
	// exchange (prior turns and the current user message).
	CompleteWithMessages(ctx context.Context, systemPrompt string, messages []Message) (string, error)

	// CompleteWithSchema sends a prompt and constrains the response to a
	// JSON document matching the given JSON schema.
	CompleteWithSchema(ctx context.Context, systemPrompt, userPrompt, jsonSchema string) (string, error)

	SetModel(model string)
	GetModel() string
}
