// Package llm declares the transport-agnostic contract the DM agent uses to
// talk to a tool-calling chat model. internal/llm/anthropic provides the
// reference implementation against the Anthropic Messages API; SPEC_FULL.md
// §6.1 calls this boundary out explicitly so a different provider can be
// swapped in without touching internal/agent.
package llm

import "context"

// Client completes chat requests against a tool-calling LLM.
type Client interface {
	// Complete sends Request and returns the model's full Response.
	Complete(ctx context.Context, req Request) (*Response, error)

	// CompleteStream sends Request and invokes onDelta with each piece of
	// narrative text as it streams in, in addition to returning the full
	// Response once the stream ends (SPEC_FULL.md §4.7's streaming variant
	// of process_input).
	CompleteStream(ctx context.Context, req Request, onDelta func(delta string)) (*Response, error)
}

// Role identifies the speaker of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    Role
	Content []ContentBlock
}

// ToolDefinition is the wire shape the model sees for one callable tool —
// internal/tools.Tool converted to this package's vocabulary at the
// internal/agent boundary.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// Request is one call to the model.
type Request struct {
	Model         string
	System        string
	Messages      []Message
	MaxTokens     int
	Temperature   *float32
	TopP          *float32
	StopSequences []string
	Tools         []ToolDefinition
	// ToolChoice is "auto", "any", "none", or a specific tool name; the
	// empty string leaves the provider's default in effect.
	ToolChoice string
}

// StopReason is why the model stopped generating.
type StopReason string

const (
	StopEndTurn      StopReason = "end_turn"
	StopMaxTokens    StopReason = "max_tokens"
	StopToolUse      StopReason = "tool_use"
	StopStopSequence StopReason = "stop_sequence"
)

// Response is the model's reply to a Request.
type Response struct {
	StopReason StopReason
	Content    []ContentBlock
	// Usage mirrors the provider's reported token counts, when available;
	// zero values mean the provider didn't report them.
	InputTokens  int
	OutputTokens int
}
