package interfaces

import "context"

// Message represents a single message in a chat conversation
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// LLMService defines the interface for language model operations.
// Implementations must be safe for concurrent use: the answering pipeline
// shares one instance across in-flight requests.
type LLMService interface {
	// Embed generates an embedding vector for the given text
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat generates a completion for the conversation history
	Chat(ctx context.Context, messages []Message) (string, error)

	// HealthCheck verifies the service is operational
	HealthCheck(ctx context.Context) error

	// Close releases resources
	Close() error
}

// GenerationService is the subset of LLMService the answering pipeline needs
// for producing text. Providers without an embedding model (Claude) implement
// only this.
type GenerationService interface {
	Chat(ctx context.Context, messages []Message) (string, error)
	HealthCheck(ctx context.Context) error
	Close() error
}
