package llm

import (
	"encoding/json"

	"github.com/dndai/dmcore/internal/errors"
)

// ContentBlock is one piece of a Message's content. It is a closed sum
// type — every implementation lives in this file and carries the
// unexported isContentBlock marker — matching the Intent/Effect convention
// in internal/rules.
type ContentBlock interface {
	isContentBlock()
}

// Text is plain narrative text, the only block type a player ever reads.
type Text struct {
	Text string `json:"text"`
}

func (Text) isContentBlock() {}

// ToolUse is the model requesting that a tool be invoked.
type ToolUse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

func (ToolUse) isContentBlock() {}

// ToolResult reports the outcome of one ToolUse back to the model, as a
// block of a user-role Message.
type ToolResult struct {
	ToolUseID string `json:"tool_use_id"`
	Content   string `json:"content"`
	IsError   bool   `json:"is_error"`
}

func (ToolResult) isContentBlock() {}

// Thinking is an extended-thinking block some providers return ahead of
// their final answer; the agent never acts on it beyond carrying it through
// conversation history unmodified.
type Thinking struct {
	Text string `json:"thinking"`
}

func (Thinking) isContentBlock() {}

// MarshalContentBlock encodes a ContentBlock as a JSON object carrying a
// "type" discriminator, the same tagged-variant convention
// internal/rules.MarshalIntent uses.
func MarshalContentBlock(block ContentBlock) ([]byte, error) {
	name, ok := contentBlockTypeName(block)
	if !ok {
		return nil, errors.InvalidArgumentf("llm: cannot marshal unknown content block type %T", block)
	}
	raw, err := json.Marshal(block)
	if err != nil {
		return nil, errors.Wrap(err, "marshal content block")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrap(err, "decode content block fields")
	}
	tagged, err := json.Marshal(name)
	if err != nil {
		return nil, errors.Wrap(err, "marshal content block type tag")
	}
	fields["type"] = tagged
	out, err := json.Marshal(fields)
	if err != nil {
		return nil, errors.Wrap(err, "marshal content block envelope")
	}
	return out, nil
}

// UnmarshalContentBlock decodes a JSON object produced by MarshalContentBlock
// (or the Anthropic API's own wire format, which uses the same "type" tag
// and field names) back into its concrete ContentBlock variant.
func UnmarshalContentBlock(data []byte) (ContentBlock, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errors.Wrap(err, "decode content block type discriminator")
	}
	switch envelope.Type {
	case "text":
		var v struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(err, "decode text block")
		}
		return Text{Text: v.Text}, nil
	case "tool_use":
		var v struct {
			ID    string          `json:"id"`
			Name  string          `json:"name"`
			Input json.RawMessage `json:"input"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(err, "decode tool_use block")
		}
		return ToolUse{ID: v.ID, Name: v.Name, Input: v.Input}, nil
	case "tool_result":
		var v struct {
			ToolUseID string `json:"tool_use_id"`
			Content   string `json:"content"`
			IsError   bool   `json:"is_error"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(err, "decode tool_result block")
		}
		return ToolResult{ToolUseID: v.ToolUseID, Content: v.Content, IsError: v.IsError}, nil
	case "thinking":
		var v struct {
			Thinking string `json:"thinking"`
		}
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, errors.Wrap(err, "decode thinking block")
		}
		return Thinking{Text: v.Thinking}, nil
	default:
		return nil, errors.InvalidArgumentf("llm: unknown content block type %q", envelope.Type)
	}
}

func contentBlockTypeName(block ContentBlock) (string, bool) {
	switch block.(type) {
	case Text:
		return "text", true
	case ToolUse:
		return "tool_use", true
	case ToolResult:
		return "tool_result", true
	case Thinking:
		return "thinking", true
	default:
		return "", false
	}
}
