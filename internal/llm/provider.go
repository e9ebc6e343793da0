// Package llm defines the language-model stage abstraction used by the
// conversation pipeline. A provider wraps a remote chat-completion API and
// exposes a uniform tool-calling interface so the pipeline never couples to
// a specific SDK.
package llm

import "context"

// Message is a single entry in the rolling conversation context.
type Message struct {
	// Role is one of "system", "user", "assistant", or "tool".
	Role string

	// Content is the text content of the message.
	Content string

	// ToolCalls contains any tool invocations requested by the assistant.
	ToolCalls []ToolCall

	// ToolCallID is set when Role is "tool", identifying which tool call
	// this message answers.
	ToolCallID string
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	// ID is the provider-assigned identifier for this call.
	ID string

	// Name is the tool name.
	Name string

	// Arguments is the JSON-encoded argument object.
	Arguments string
}

// ToolDefinition describes a tool offered to the model.
type ToolDefinition struct {
	Name        string
	Description string

	// Parameters is the JSON Schema for the tool's argument object.
	Parameters map[string]any
}

// CompletionRequest carries everything the model needs for one generation.
type CompletionRequest struct {
	Messages    []Message
	Tools       []ToolDefinition
	Temperature float64
	MaxTokens   int
}

// CompletionResponse is the model's reply: final text, tool calls, or both.
type CompletionResponse struct {
	// Content is the assistant's text. Empty when the model responds
	// exclusively with tool calls.
	Content string

	// ToolCalls lists tool invocations the model requests. The caller
	// resolves them and appends the results to the conversation before
	// generating again.
	ToolCalls []ToolCall
}

// Provider is the abstraction over a chat-completion backend. Implementations
// must be safe for concurrent use and must honor context cancellation.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
